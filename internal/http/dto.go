package http

import (
	"time"

	"gofinances/internal/core"
	"gofinances/internal/services"
)

// Wire shapes of the API. Amounts are decimal strings with two places.

type categoryDTO struct {
	Key   string `json:"key"`
	Name  string `json:"name"`
	Icon  string `json:"icon"`
	Color string `json:"color"`
}

type highlightDTO struct {
	Amount                   string     `json:"amount"`
	AmountFormatted          string     `json:"amountFormatted"`
	LastTransaction          *time.Time `json:"lastTransaction,omitempty"`
	LastTransactionFormatted string     `json:"lastTransactionFormatted"`
}

type highlightsDTO struct {
	Entries  highlightDTO `json:"entries"`
	Expenses highlightDTO `json:"expenses"`
	Total    highlightDTO `json:"total"`
}

type transactionDTO struct {
	ID              string      `json:"id"`
	Type            string      `json:"type"`
	Name            string      `json:"name"`
	Amount          string      `json:"amount"`
	AmountFormatted string      `json:"amountFormatted,omitempty"`
	Date            time.Time   `json:"date"`
	DateFormatted   string      `json:"dateFormatted,omitempty"`
	Category        categoryDTO `json:"category"`
}

type userDTO struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Photo string `json:"photo,omitempty"`
}

type dashboardDTO struct {
	User         *userDTO         `json:"user,omitempty"`
	Highlights   highlightsDTO    `json:"highlights"`
	Transactions []transactionDTO `json:"transactions"`
}

type categoryTotalDTO struct {
	Key              string  `json:"key"`
	Name             string  `json:"name"`
	Color            string  `json:"color"`
	Total            string  `json:"total"`
	TotalFormatted   string  `json:"totalFormatted"`
	Percent          float64 `json:"percent"`
	PercentFormatted string  `json:"percentFormatted"`
}

type resumeDTO struct {
	Year       int                `json:"year"`
	Month      int                `json:"month"`
	Label      string             `json:"label"`
	Categories []categoryTotalDTO `json:"categories"`
}

func toCategoryDTO(c core.Category) categoryDTO {
	return categoryDTO{Key: c.Key, Name: c.Name, Icon: c.Icon, Color: c.Color}
}

func toHighlightDTO(h core.Highlight) highlightDTO {
	dto := highlightDTO{
		Amount:                   h.Amount.StringFixed(2),
		AmountFormatted:          h.AmountFormatted,
		LastTransactionFormatted: h.LastTransactionFormatted,
	}
	if h.HasLastTransaction() {
		last := h.LastTransaction
		dto.LastTransaction = &last
	}
	return dto
}

func toHighlightsDTO(h core.Highlights) highlightsDTO {
	return highlightsDTO{
		Entries:  toHighlightDTO(h.Entries),
		Expenses: toHighlightDTO(h.Expenses),
		Total:    toHighlightDTO(h.Total),
	}
}

func toListedDTO(t core.ListedTransaction) transactionDTO {
	return transactionDTO{
		ID:              t.ID,
		Type:            string(t.Type),
		Name:            t.Name,
		Amount:          t.Amount.String(),
		AmountFormatted: t.AmountFormatted,
		Date:            t.Date,
		DateFormatted:   t.DateFormatted,
		Category:        toCategoryDTO(t.CategoryInfo),
	}
}

func toTransactionDTO(t core.Transaction, tax *core.Taxonomy) transactionDTO {
	cat, ok := tax.Lookup(t.Category)
	if !ok {
		cat = core.Category{Key: t.Category, Name: t.Category}
	}
	return transactionDTO{
		ID:       t.ID,
		Type:     string(t.Type),
		Name:     t.Name,
		Amount:   t.Amount.String(),
		Date:     t.Date,
		Category: toCategoryDTO(cat),
	}
}

func toUserDTO(u core.User) *userDTO {
	return &userDTO{ID: u.ID, Name: u.Name, Email: u.Email, Photo: u.Photo}
}

func toDashboardDTO(d services.Dashboard) dashboardDTO {
	dto := dashboardDTO{
		Highlights:   toHighlightsDTO(d.Highlights),
		Transactions: make([]transactionDTO, 0, len(d.Transactions)),
	}
	if d.SignedIn {
		dto.User = toUserDTO(d.User)
	}
	for _, t := range d.Transactions {
		dto.Transactions = append(dto.Transactions, toListedDTO(t))
	}
	return dto
}

func toResumeDTO(r services.Resume) resumeDTO {
	dto := resumeDTO{
		Year:       r.Period.Year,
		Month:      int(r.Period.Month),
		Label:      r.Label,
		Categories: make([]categoryTotalDTO, 0, len(r.Categories)),
	}
	for _, c := range r.Categories {
		dto.Categories = append(dto.Categories, categoryTotalDTO{
			Key:              c.Key,
			Name:             c.Name,
			Color:            c.Color,
			Total:            c.Total.StringFixed(2),
			TotalFormatted:   c.TotalFormatted,
			Percent:          c.Percent,
			PercentFormatted: c.PercentFormatted,
		})
	}
	return dto
}
