package memory

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	ports "gofinances/internal/sheets"
)

func TestLedgerAppendRow(t *testing.T) {
	l := New()
	row := ports.LedgerRow{
		TransactionID: "a",
		Date:          time.Date(2023, 1, 5, 0, 0, 0, 0, time.UTC),
		Name:          "Salário",
		Type:          "Entrada",
		Amount:        decimal.NewFromInt(500),
		Category:      "Salário",
	}
	ref, err := l.AppendRow(context.Background(), row)
	if err != nil || ref != "mem!A2:E2" {
		t.Fatalf("unexpected append: ref=%q err=%v", ref, err)
	}
	ref, _ = l.AppendRow(context.Background(), row)
	if ref != "mem!A3:E3" {
		t.Fatalf("unexpected second ref %q", ref)
	}

	rows := l.Rows()
	if len(rows) != 2 || rows[0].Name != "Salário" {
		t.Fatalf("unexpected rows %+v", rows)
	}
	rows[0].Name = "changed"
	if l.Rows()[0].Name != "Salário" {
		t.Fatalf("Rows must return a copy")
	}
}

func TestLedgerRowValues(t *testing.T) {
	row := ports.LedgerRow{
		Date:     time.Date(2023, 3, 9, 15, 0, 0, 0, time.UTC),
		Name:     "Pizza",
		Type:     "Saída",
		Amount:   decimal.RequireFromString("42.5"),
		Category: "Alimentação",
	}
	got := row.Values()
	if len(got) != len(ports.Header) {
		t.Fatalf("expected %d columns, got %d", len(ports.Header), len(got))
	}
	if got[0] != "2023-03-09" || got[3] != 42.5 || got[4] != "Alimentação" {
		t.Fatalf("unexpected values %v", got)
	}
}
