package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	Income  TransactionType = "positive"
	Expense TransactionType = "negative"
)

type (
	TransactionType string

	// AmountText is an amount kept in its stored textual form. Older records
	// may carry a JSON number instead of a string; both decode.
	AmountText string

	Transaction struct {
		ID       string          `json:"id"`
		Type     TransactionType `json:"type"`
		Name     string          `json:"name"`
		Amount   AmountText      `json:"amount"`
		Category string          `json:"category"`
		Date     time.Time       `json:"date"`
	}

	// User is the signed-in identity handed over by the identity provider.
	User struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Email string `json:"email"`
		Photo string `json:"photo,omitempty"`
	}
)

var (
	ErrInvalidType     = errors.New("invalid transaction type")
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrNegativeAmount  = errors.New("negative amount")
	ErrEmptyName       = errors.New("empty name")
	ErrEmptyCategory   = errors.New("empty category")
	ErrUnknownCategory = errors.New("unknown category")
	ErrEmptyID         = errors.New("empty id")
	ErrZeroDate        = errors.New("date cannot be zero")
	ErrInvalidDate     = errors.New("invalid date")
)

func (t TransactionType) IsValid() bool {
	return t == Income || t == Expense
}

// Label returns the display name used by the original screens.
func (t TransactionType) Label() string {
	switch t {
	case Income:
		return "Entrada"
	case Expense:
		return "Saída"
	default:
		return string(t)
	}
}

func (a *AmountText) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*a = AmountText(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*a = AmountText(n.String())
	return nil
}

func (a AmountText) String() string {
	return string(a)
}

// storedDateLayouts are the date forms accepted when decoding a record.
// Besides RFC 3339, older clients wrote local times and bare dates.
var storedDateLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"}

func (t *Transaction) UnmarshalJSON(b []byte) error {
	type plain Transaction
	var aux struct {
		plain
		Date *string `json:"date"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	*t = Transaction(aux.plain)
	t.Date = time.Time{}
	if aux.Date == nil || *aux.Date == "" {
		return nil
	}
	for _, layout := range storedDateLayouts {
		if d, err := time.Parse(layout, *aux.Date); err == nil {
			t.Date = d
			return nil
		}
	}
	return fmt.Errorf("parse date %q: %w", *aux.Date, ErrInvalidDate)
}

// Validate checks the invariants a record must satisfy before it is stored.
// The taxonomy is optional; when nil the category key is only checked for
// presence.
func (t Transaction) Validate(tax *Taxonomy) error {
	if strings.TrimSpace(t.ID) == "" {
		return ErrEmptyID
	}
	if !t.Type.IsValid() {
		return ErrInvalidType
	}
	if strings.TrimSpace(t.Name) == "" {
		return ErrEmptyName
	}
	if utf8.RuneCountInString(t.Name) > 200 {
		return errors.New("name too long (max 200 characters)")
	}
	amount, err := ParseAmount(t.Amount.String())
	if err != nil {
		return err
	}
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}
	if strings.TrimSpace(t.Category) == "" {
		return ErrEmptyCategory
	}
	if tax != nil {
		if _, ok := tax.Lookup(t.Category); !ok {
			return ErrUnknownCategory
		}
	}
	if t.Date.IsZero() {
		return ErrZeroDate
	}
	return nil
}

// IsZero reports whether no identity is set.
func (u User) IsZero() bool {
	return u.ID == ""
}
