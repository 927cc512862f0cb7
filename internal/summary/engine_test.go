package summary

import (
	"math"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"gofinances/internal/core"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
}

func tx(id string, typ core.TransactionType, amount, category string, date time.Time) core.Transaction {
	return core.Transaction{ID: id, Type: typ, Name: id, Amount: core.AmountText(amount), Category: category, Date: date}
}

func TestHighlightsEndToEnd(t *testing.T) {
	e := NewEngine(nil, nil)
	records := []core.Transaction{
		tx("a", core.Income, "500", "salary", day(2023, 1, 5)),
		tx("b", core.Expense, "200", "food", day(2023, 1, 10)),
	}

	h := e.Highlights(records)
	if h.Entries.AmountFormatted != "R$ 500,00" {
		t.Fatalf("entries = %q", h.Entries.AmountFormatted)
	}
	if h.Expenses.AmountFormatted != "R$ 200,00" {
		t.Fatalf("expenses = %q", h.Expenses.AmountFormatted)
	}
	if h.Total.AmountFormatted != "R$ 300,00" {
		t.Fatalf("total = %q", h.Total.AmountFormatted)
	}
	if h.Entries.LastTransactionFormatted != "05 de janeiro" {
		t.Fatalf("last entry = %q", h.Entries.LastTransactionFormatted)
	}
	if h.Expenses.LastTransactionFormatted != "10 de janeiro" {
		t.Fatalf("last expense = %q", h.Expenses.LastTransactionFormatted)
	}
	if h.Total.HasLastTransaction() {
		t.Fatalf("net highlight must not carry a last transaction")
	}

	breakdown := e.CategoryBreakdown(records, 2023, time.January)
	if len(breakdown) != 1 {
		t.Fatalf("expected one category, got %+v", breakdown)
	}
	got := breakdown[0]
	if got.Key != "food" || !got.Total.Equal(decimal.NewFromInt(200)) || got.PercentFormatted != "100%" {
		t.Fatalf("unexpected breakdown entry: %+v", got)
	}
	if got.TotalFormatted != "R$ 200,00" || got.Color != "#FF872C" || got.Name != "Alimentação" {
		t.Fatalf("unexpected display fields: %+v", got)
	}
}

func TestHighlightsNetIsExact(t *testing.T) {
	e := NewEngine(nil, nil)
	records := []core.Transaction{
		tx("a", core.Income, "0.1", "salary", day(2023, 1, 1)),
		tx("b", core.Income, "0.2", "salary", day(2023, 1, 2)),
		tx("c", core.Expense, "0.3", "food", day(2023, 1, 3)),
		tx("d", core.Expense, "1000.07", "car", day(2023, 1, 4)),
		tx("e", core.Income, "1234.56", "salary", day(2023, 1, 5)),
	}
	h := e.Highlights(records)
	if !h.Entries.Amount.Sub(h.Expenses.Amount).Equal(h.Total.Amount) {
		t.Fatalf("entries - expenses != total: %s - %s != %s", h.Entries.Amount, h.Expenses.Amount, h.Total.Amount)
	}
	if !h.Total.Amount.Equal(decimal.RequireFromString("234.49")) {
		t.Fatalf("unexpected net %s", h.Total.Amount)
	}
}

func TestHighlightsEmptyPartitions(t *testing.T) {
	e := NewEngine(nil, nil)

	h := e.Highlights(nil)
	if h.Entries.HasLastTransaction() || h.Expenses.HasLastTransaction() {
		t.Fatalf("expected no last transaction on empty input")
	}
	if h.Entries.LastTransactionFormatted != "" || h.Expenses.LastTransactionFormatted != "" {
		t.Fatalf("expected empty formatted dates, got %+v", h)
	}
	if h.Total.AmountFormatted != "R$ 0,00" {
		t.Fatalf("total = %q", h.Total.AmountFormatted)
	}

	h = e.Highlights([]core.Transaction{tx("a", core.Expense, "10", "food", day(2023, 2, 1))})
	if h.Entries.HasLastTransaction() {
		t.Fatalf("no income recorded, expected no-data marker")
	}
	if h.Total.AmountFormatted != "-R$ 10,00" {
		t.Fatalf("total = %q", h.Total.AmountFormatted)
	}
}

func TestHighlightsPicksLatestDate(t *testing.T) {
	e := NewEngine(nil, nil)
	records := []core.Transaction{
		tx("a", core.Expense, "1", "food", day(2023, 3, 20)),
		tx("b", core.Expense, "1", "food", day(2023, 5, 2)),
		tx("c", core.Expense, "1", "food", day(2023, 4, 30)),
	}
	h := e.Highlights(records)
	if !h.Expenses.LastTransaction.Equal(day(2023, 5, 2)) {
		t.Fatalf("expected latest date, got %v", h.Expenses.LastTransaction)
	}
	if h.Expenses.LastTransactionFormatted != "02 de maio" {
		t.Fatalf("formatted = %q", h.Expenses.LastTransactionFormatted)
	}
}

func TestHighlightsDoesNotMutateInput(t *testing.T) {
	e := NewEngine(nil, nil)
	records := []core.Transaction{tx("a", core.Income, "10,5", "salary", day(2023, 1, 1))}
	_ = e.Highlights(records)
	_ = e.Listing(records)
	if records[0].Amount != "10,5" {
		t.Fatalf("input mutated: %+v", records[0])
	}
}

func TestHighlightsIgnoresMalformedAmounts(t *testing.T) {
	e := NewEngine(nil, nil)
	records := []core.Transaction{
		tx("a", core.Income, "abc", "salary", day(2023, 1, 1)),
		tx("b", core.Income, "5", "salary", day(2023, 1, 2)),
	}
	if got := e.Highlights(records).Entries.AmountFormatted; got != "R$ 5,00" {
		t.Fatalf("entries = %q", got)
	}
}

func TestCategoryBreakdownFiltersMonth(t *testing.T) {
	e := NewEngine(nil, nil)
	records := []core.Transaction{
		tx("jan", core.Expense, "50", "food", day(2023, 1, 15)),
		tx("feb", core.Expense, "30", "food", day(2023, 2, 10)),
		tx("jan-prev-year", core.Expense, "70", "food", day(2022, 1, 15)),
		tx("income", core.Income, "999", "salary", day(2023, 1, 20)),
	}
	got := e.CategoryBreakdown(records, 2023, time.January)
	if len(got) != 1 {
		t.Fatalf("expected exactly one entry, got %+v", got)
	}
	if got[0].Key != "food" || !got[0].Total.Equal(decimal.NewFromInt(50)) {
		t.Fatalf("expected food=50, got %+v", got[0])
	}
}

func TestCategoryBreakdownTaxonomyOrderAndPercents(t *testing.T) {
	e := NewEngine(nil, nil)
	records := []core.Transaction{
		tx("1", core.Expense, "10", "studies", day(2023, 6, 1)),
		tx("2", core.Expense, "10", "food", day(2023, 6, 2)),
		tx("3", core.Expense, "10", "purchases", day(2023, 6, 3)),
		tx("4", core.Expense, "0", "car", day(2023, 6, 4)),
		tx("5", core.Expense, "5", "unknown", day(2023, 6, 5)),
	}
	got := e.CategoryBreakdown(records, 2023, time.June)

	wantOrder := []string{"purchases", "food", "studies"}
	if len(got) != len(wantOrder) {
		t.Fatalf("expected %d entries, got %+v", len(wantOrder), got)
	}
	sum := 0.0
	for i, c := range got {
		if c.Key != wantOrder[i] {
			t.Fatalf("position %d: expected %s, got %s", i, wantOrder[i], c.Key)
		}
		if !c.Total.IsPositive() {
			t.Fatalf("category %s with non-positive total", c.Key)
		}
		if c.PercentFormatted != "29%" {
			t.Fatalf("category %s percent = %q", c.Key, c.PercentFormatted)
		}
		sum += c.Percent
	}
	// The unknown category still counts towards the month total.
	if math.Abs(sum-(30.0/35.0*100)) > 1e-9 {
		t.Fatalf("unexpected percent sum %f", sum)
	}
}

func TestCategoryBreakdownPercentsSumTo100(t *testing.T) {
	e := NewEngine(nil, nil)
	records := []core.Transaction{
		tx("1", core.Expense, "10", "food", day(2023, 6, 1)),
		tx("2", core.Expense, "10", "car", day(2023, 6, 2)),
		tx("3", core.Expense, "10", "leisure", day(2023, 6, 3)),
	}
	sum := 0.0
	for _, c := range e.CategoryBreakdown(records, 2023, time.June) {
		sum += c.Percent
	}
	if math.Abs(sum-100) > 1e-9 {
		t.Fatalf("percents sum to %f", sum)
	}
}

func TestCategoryBreakdownEmpty(t *testing.T) {
	e := NewEngine(nil, nil)
	if got := e.CategoryBreakdown(nil, 2023, time.June); len(got) != 0 {
		t.Fatalf("expected empty breakdown, got %+v", got)
	}
	zero := []core.Transaction{tx("1", core.Expense, "0", "food", day(2023, 6, 1))}
	if got := e.CategoryBreakdown(zero, 2023, time.June); len(got) != 0 {
		t.Fatalf("zero sums must be skipped, got %+v", got)
	}
}

func TestCategoryBreakdownUsesEngineLocation(t *testing.T) {
	loc := time.FixedZone("BRT", -3*60*60)
	e := NewEngine(nil, loc)
	// 01:00 UTC on Feb 1st is still January 31st in UTC-3.
	records := []core.Transaction{tx("1", core.Expense, "40", "food", time.Date(2023, 2, 1, 1, 0, 0, 0, time.UTC))}
	if got := e.CategoryBreakdown(records, 2023, time.January); len(got) != 1 {
		t.Fatalf("expected record bucketed into January, got %+v", got)
	}
	if got := e.CategoryBreakdown(records, 2023, time.February); len(got) != 0 {
		t.Fatalf("expected no February entries, got %+v", got)
	}
}

func TestCategoryBreakdownInjectedTaxonomy(t *testing.T) {
	tax, err := core.NewTaxonomy([]core.Category{
		{Key: "rent", Name: "Aluguel", Color: "#111111"},
		{Key: "food", Name: "Comida", Color: "#222222"},
	})
	if err != nil {
		t.Fatalf("taxonomy: %v", err)
	}
	e := NewEngine(tax, nil)
	records := []core.Transaction{
		tx("1", core.Expense, "75", "food", day(2023, 6, 1)),
		tx("2", core.Expense, "25", "rent", day(2023, 6, 2)),
	}
	got := e.CategoryBreakdown(records, 2023, time.June)
	if len(got) != 2 || got[0].Key != "rent" || got[1].Name != "Comida" {
		t.Fatalf("unexpected breakdown %+v", got)
	}
	if got[0].PercentFormatted != "25%" || got[1].PercentFormatted != "75%" {
		t.Fatalf("unexpected percents %+v", got)
	}
}

func TestListing(t *testing.T) {
	e := NewEngine(nil, nil)
	records := []core.Transaction{
		tx("a", core.Expense, "1234.5", "food", day(2023, 1, 15)),
		tx("b", core.Income, "10", "mystery", day(2023, 1, 16)),
	}
	got := e.Listing(records)
	if len(got) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(got))
	}
	if got[0].AmountFormatted != "R$ 1.234,50" || got[0].DateFormatted != "15/01/23" {
		t.Fatalf("unexpected formatting %+v", got[0])
	}
	if got[0].CategoryInfo.Icon != "coffee" {
		t.Fatalf("expected resolved category, got %+v", got[0].CategoryInfo)
	}
	if got[1].CategoryInfo.Name != "mystery" {
		t.Fatalf("expected placeholder category, got %+v", got[1].CategoryInfo)
	}
}
