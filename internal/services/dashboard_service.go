package services

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"gofinances/internal/core"
	"gofinances/internal/summary"
)

// Identity exposes the signed-in user, if any.
type Identity interface {
	Current() (core.User, bool)
}

// UserLoader restores the persisted identity before it is read.
type UserLoader interface {
	Identity
	Load(ctx context.Context) error
}

type Dashboard struct {
	User         core.User
	SignedIn     bool
	Highlights   core.Highlights
	Transactions []core.ListedTransaction
}

type DashboardService struct {
	store   TransactionStore
	session UserLoader
	engine  *summary.Engine
}

func NewDashboardService(store TransactionStore, session UserLoader, engine *summary.Engine) *DashboardService {
	return &DashboardService{store: store, session: session, engine: engine}
}

// Load reads the records and restores the session concurrently, then derives
// the highlights and the listing.
func (s *DashboardService) Load(ctx context.Context) (Dashboard, error) {
	var records []core.Transaction

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		records, err = s.store.ReadAll(gctx)
		return err
	})
	if s.session != nil {
		g.Go(func() error {
			return s.session.Load(gctx)
		})
	}
	if err := g.Wait(); err != nil {
		return Dashboard{}, fmt.Errorf("load dashboard: %w", err)
	}

	d := Dashboard{
		Highlights:   s.engine.Highlights(records),
		Transactions: s.engine.Listing(records),
	}
	if s.session != nil {
		d.User, d.SignedIn = s.session.Current()
	}
	return d, nil
}
