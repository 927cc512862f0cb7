package sheets

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// LedgerRow is one exported transaction: date, name, type label, amount and
// category name, in that column order.
type LedgerRow struct {
	TransactionID string
	Date          time.Time
	Name          string
	Type          string
	Amount        decimal.Decimal
	Category      string
}

// Header is the first row of the ledger sheet.
var Header = []string{"Data", "Nome", "Tipo", "Valor", "Categoria"}

// Ports for outbound adapters.
type (
	LedgerWriter interface {
		// AppendRow adds row at the end of the ledger and returns a reference
		// to where it landed.
		AppendRow(ctx context.Context, row LedgerRow) (rowRef string, err error)
	}

	HeaderEnsurer interface {
		EnsureHeader(ctx context.Context) error
	}
)

// Values renders row in sheet column order.
func (r LedgerRow) Values() []any {
	return []any{r.Date.Format("2006-01-02"), r.Name, r.Type, r.Amount.InexactFloat64(), r.Category}
}
