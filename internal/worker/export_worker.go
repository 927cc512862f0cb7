package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"gofinances/internal/amqp"
	"gofinances/internal/core"
	"gofinances/internal/sheets"
)

// ErrInvalidRecord marks a message whose record cannot be exported. Such
// messages are logged and acknowledged, never retried.
var ErrInvalidRecord = errors.New("invalid record")

// ExportWorker copies newly registered transactions to the ledger sheet.
type ExportWorker struct {
	ledger   sheets.LedgerWriter
	header   sheets.HeaderEnsurer
	taxonomy *core.Taxonomy
	loc      *time.Location
	limiter  *rate.Limiter
}

// NewExportWorker builds a worker writing to ledger. header may be nil.
// writesPerSecond bounds calls to the ledger; zero or less disables the limit.
func NewExportWorker(ledger sheets.LedgerWriter, header sheets.HeaderEnsurer, taxonomy *core.Taxonomy, loc *time.Location, writesPerSecond float64) *ExportWorker {
	if taxonomy == nil {
		taxonomy = core.DefaultTaxonomy()
	}
	if loc == nil {
		loc = time.UTC
	}
	limiter := rate.NewLimiter(rate.Inf, 1)
	if writesPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(writesPerSecond), 1)
	}
	return &ExportWorker{
		ledger:   ledger,
		header:   header,
		taxonomy: taxonomy,
		loc:      loc,
		limiter:  limiter,
	}
}

// StartupCheck makes sure the ledger carries its header row.
func (w *ExportWorker) StartupCheck(ctx context.Context) error {
	if w.header == nil {
		return nil
	}
	if err := w.limiter.Wait(ctx); err != nil {
		return err
	}
	if err := w.header.EnsureHeader(ctx); err != nil {
		return fmt.Errorf("ensure ledger header: %w", err)
	}
	return nil
}

// HandleTransactionCreated is an amqp.Handler. Returning an error requeues
// the message.
func (w *ExportWorker) HandleTransactionCreated(ctx context.Context, msg *amqp.TransactionCreated) error {
	slog.InfoContext(ctx, "Processing export message",
		"transaction_id", msg.Transaction.ID,
		"timestamp", msg.Timestamp)

	row, err := w.RowFor(msg.Transaction)
	if err != nil {
		slog.WarnContext(ctx, "Dropping unexportable transaction",
			"transaction_id", msg.Transaction.ID,
			"error", err)
		return nil
	}

	if err := w.limiter.Wait(ctx); err != nil {
		return err
	}
	ref, err := w.ledger.AppendRow(ctx, row)
	if err != nil {
		return fmt.Errorf("append to ledger: %w", err)
	}

	slog.InfoContext(ctx, "Successfully exported transaction",
		"transaction_id", row.TransactionID,
		"sheets_ref", ref,
		"name", row.Name,
		"amount", row.Amount.StringFixed(2))
	return nil
}

// RowFor maps a stored record to its ledger row. Unknown categories keep
// their raw key.
func (w *ExportWorker) RowFor(t core.Transaction) (sheets.LedgerRow, error) {
	if t.ID == "" {
		return sheets.LedgerRow{}, fmt.Errorf("%w: %v", ErrInvalidRecord, core.ErrEmptyID)
	}
	if !t.Type.IsValid() {
		return sheets.LedgerRow{}, fmt.Errorf("%w: %v", ErrInvalidRecord, core.ErrInvalidType)
	}
	if t.Date.IsZero() {
		return sheets.LedgerRow{}, fmt.Errorf("%w: %v", ErrInvalidRecord, core.ErrZeroDate)
	}

	category := t.Category
	if c, ok := w.taxonomy.Lookup(t.Category); ok {
		category = c.Name
	}
	return sheets.LedgerRow{
		TransactionID: t.ID,
		Date:          t.Date.In(w.loc),
		Name:          t.Name,
		Type:          t.Type.Label(),
		Amount:        core.AmountOrZero(t.Amount.String()),
		Category:      category,
	}, nil
}
