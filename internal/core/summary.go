package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// Highlight is the summary card for one transaction type or for the net.
// LastTransaction is zero when there is no record of that type.
type Highlight struct {
	Amount                   decimal.Decimal
	AmountFormatted          string
	LastTransaction          time.Time
	LastTransactionFormatted string
}

// HasLastTransaction reports whether the partition had any record.
func (h Highlight) HasLastTransaction() bool {
	return !h.LastTransaction.IsZero()
}

// Highlights groups the three dashboard cards.
type Highlights struct {
	Entries  Highlight
	Expenses Highlight
	Total    Highlight
}

// CategoryTotal is the expense total of one category for a selected month.
type CategoryTotal struct {
	Key              string
	Name             string
	Color            string
	Total            decimal.Decimal
	TotalFormatted   string
	Percent          float64
	PercentFormatted string
}

// ListedTransaction is a stored record prepared for display.
type ListedTransaction struct {
	Transaction
	AmountFormatted string
	DateFormatted   string
	CategoryInfo    Category
}
