package services

import (
	"context"
	"fmt"
	"time"

	"gofinances/internal/apperrors"
	"gofinances/internal/core"
	"gofinances/internal/summary"
)

// Period is a calendar month.
type Period struct {
	Year  int
	Month time.Month
}

func (p Period) Label() string {
	return core.FormatMonthYear(p.Year, p.Month)
}

func (p Period) Next() Period {
	y, m := core.AddMonths(p.Year, p.Month, 1)
	return Period{Year: y, Month: m}
}

func (p Period) Prev() Period {
	y, m := core.AddMonths(p.Year, p.Month, -1)
	return Period{Year: y, Month: m}
}

func (p Period) Valid() bool {
	return p.Year >= 1900 && p.Year <= 9999 && p.Month >= time.January && p.Month <= time.December
}

type Resume struct {
	Period     Period
	Label      string
	Categories []core.CategoryTotal
}

type ResumeService struct {
	store  TransactionStore
	engine *summary.Engine
	now    func() time.Time
}

func NewResumeService(store TransactionStore, engine *summary.Engine) *ResumeService {
	return &ResumeService{store: store, engine: engine, now: time.Now}
}

// CurrentPeriod is the current month in the engine location.
func (s *ResumeService) CurrentPeriod() Period {
	now := s.now().In(s.engine.Location())
	return Period{Year: now.Year(), Month: now.Month()}
}

// Load returns the expense breakdown for p.
func (s *ResumeService) Load(ctx context.Context, p Period) (Resume, error) {
	if !p.Valid() {
		return Resume{}, apperrors.Wrap(apperrors.ErrInvalidPeriod, fmt.Errorf("period %d-%02d", p.Year, int(p.Month)))
	}
	records, err := s.store.ReadAll(ctx)
	if err != nil {
		return Resume{}, fmt.Errorf("load resume: %w", err)
	}
	return Resume{
		Period:     p,
		Label:      p.Label(),
		Categories: s.engine.CategoryBreakdown(records, p.Year, p.Month),
	}, nil
}

// NextMonth loads the month after p.
func (s *ResumeService) NextMonth(ctx context.Context, p Period) (Resume, error) {
	return s.Load(ctx, p.Next())
}

// PrevMonth loads the month before p.
func (s *ResumeService) PrevMonth(ctx context.Context, p Period) (Resume, error) {
	return s.Load(ctx, p.Prev())
}
