package memory

import (
	"context"
	"fmt"
	"sync"

	ports "gofinances/internal/sheets"
)

// Ledger keeps exported rows in memory. The worker falls back to it when no
// spreadsheet is configured.
type Ledger struct {
	mu   sync.Mutex
	rows []ports.LedgerRow
}

var (
	_ ports.LedgerWriter  = (*Ledger)(nil)
	_ ports.HeaderEnsurer = (*Ledger)(nil)
)

func New() *Ledger {
	return &Ledger{}
}

// AppendRow stores the row and returns a synthetic row reference.
func (l *Ledger) AppendRow(_ context.Context, row ports.LedgerRow) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.rows = append(l.rows, row)
	// row 1 is the header
	return fmt.Sprintf("mem!A%d:E%d", len(l.rows)+1, len(l.rows)+1), nil
}

func (l *Ledger) EnsureHeader(context.Context) error { return nil }

// Rows returns a copy of the stored rows.
func (l *Ledger) Rows() []ports.LedgerRow {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]ports.LedgerRow(nil), l.rows...)
}
