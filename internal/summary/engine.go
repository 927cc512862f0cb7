// Package summary computes the derived views shown on the dashboard and
// resume screens: per-type highlights, the monthly category breakdown and
// the formatted transaction listing.
//
// Every function here is a pure function of its inputs. Records are never
// mutated and nothing is cached between calls.
package summary

import (
	"time"

	"github.com/shopspring/decimal"

	"gofinances/internal/core"
)

var hundred = decimal.NewFromInt(100)

// Engine aggregates transaction records against an injected taxonomy.
// Dates are bucketed and formatted in loc.
type Engine struct {
	taxonomy *core.Taxonomy
	loc      *time.Location
}

// NewEngine builds an engine. A nil taxonomy falls back to the default table
// and a nil location to UTC.
func NewEngine(taxonomy *core.Taxonomy, loc *time.Location) *Engine {
	if taxonomy == nil {
		taxonomy = core.DefaultTaxonomy()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Engine{taxonomy: taxonomy, loc: loc}
}

// Location returns the time zone used for month bucketing.
func (e *Engine) Location() *time.Location {
	return e.loc
}

// Highlights sums entries and expenses, derives the net total and finds the
// most recent record of each type. A type without records yields an empty
// last-transaction marker instead of an invalid date.
func (e *Engine) Highlights(records []core.Transaction) core.Highlights {
	var (
		entriesSum, expensesSum decimal.Decimal
		lastEntry, lastExpense  time.Time
	)
	for _, r := range records {
		amount := core.AmountOrZero(r.Amount.String())
		switch r.Type {
		case core.Income:
			entriesSum = entriesSum.Add(amount)
			if r.Date.After(lastEntry) {
				lastEntry = r.Date
			}
		case core.Expense:
			expensesSum = expensesSum.Add(amount)
			if r.Date.After(lastExpense) {
				lastExpense = r.Date
			}
		}
	}

	net := entriesSum.Sub(expensesSum)
	return core.Highlights{
		Entries:  e.highlight(entriesSum, lastEntry),
		Expenses: e.highlight(expensesSum, lastExpense),
		Total:    core.Highlight{Amount: net, AmountFormatted: core.FormatBRL(net)},
	}
}

func (e *Engine) highlight(sum decimal.Decimal, last time.Time) core.Highlight {
	h := core.Highlight{
		Amount:          sum,
		AmountFormatted: core.FormatBRL(sum),
	}
	if !last.IsZero() {
		h.LastTransaction = last
		h.LastTransactionFormatted = core.FormatDayMonth(last.In(e.loc))
	}
	return h
}

// CategoryBreakdown returns expense totals per category for the given month,
// in taxonomy order. Categories whose sum is not positive are omitted. When
// the month has no expense total the percent is defined as zero.
func (e *Engine) CategoryBreakdown(records []core.Transaction, year int, month time.Month) []core.CategoryTotal {
	sums := make(map[string]decimal.Decimal)
	var total decimal.Decimal
	for _, r := range records {
		if r.Type != core.Expense || !e.inMonth(r.Date, year, month) {
			continue
		}
		amount := core.AmountOrZero(r.Amount.String())
		total = total.Add(amount)
		sums[r.Category] = sums[r.Category].Add(amount)
	}

	out := make([]core.CategoryTotal, 0, len(sums))
	for _, c := range e.taxonomy.Categories() {
		sum, ok := sums[c.Key]
		if !ok || !sum.IsPositive() {
			continue
		}
		pct := decimal.Zero
		if total.IsPositive() {
			pct = sum.Div(total).Mul(hundred)
		}
		out = append(out, core.CategoryTotal{
			Key:              c.Key,
			Name:             c.Name,
			Color:            c.Color,
			Total:            sum,
			TotalFormatted:   core.FormatBRL(sum),
			Percent:          pct.InexactFloat64(),
			PercentFormatted: pct.Round(0).String() + "%",
		})
	}
	return out
}

func (e *Engine) inMonth(t time.Time, year int, month time.Month) bool {
	local := t.In(e.loc)
	return local.Year() == year && local.Month() == month
}

// Listing formats every record for display, keeping input order. Unknown
// category keys resolve to a placeholder carrying the raw key.
func (e *Engine) Listing(records []core.Transaction) []core.ListedTransaction {
	out := make([]core.ListedTransaction, 0, len(records))
	for _, r := range records {
		cat, ok := e.taxonomy.Lookup(r.Category)
		if !ok {
			cat = core.Category{Key: r.Category, Name: r.Category}
		}
		out = append(out, core.ListedTransaction{
			Transaction:     r,
			AmountFormatted: core.FormatBRL(core.AmountOrZero(r.Amount.String())),
			DateFormatted:   core.FormatShortDate(r.Date.In(e.loc)),
			CategoryInfo:    cat,
		})
	}
	return out
}
