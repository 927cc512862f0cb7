package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"gofinances/internal/chart"
	"gofinances/internal/cli"
	"gofinances/internal/log"
	"gofinances/internal/report"
	"gofinances/internal/services"
	"gofinances/internal/session"
	"gofinances/internal/summary"
	"gofinances/internal/transactions"
)

type snapshot struct {
	dashboard services.Dashboard
	resume    services.Resume
}

func main() {
	year := flag.Int("year", 0, "year of the breakdown (default: current)")
	month := flag.Int("month", 0, "month of the breakdown, 1-12 (default: current)")
	chartPath := flag.String("chart", "", "write the breakdown pie chart to this PNG file")
	watch := flag.Duration("watch", 0, "reprint every interval until interrupted")
	flag.Parse()

	cli.LoadEnvFile()
	cfg := cli.LoadAndValidateConfig()
	logger := cli.SetupLogger(log.ComponentReport, cfg.LogLevel)

	ctx, stop := cli.SignalContext()
	defer stop()

	tax, err := cli.LoadTaxonomy(cfg)
	if err != nil {
		cli.Fatal(logger, "Failed to load categories", err)
	}
	loc, err := cfg.Location()
	if err != nil {
		cli.Fatal(logger, "Invalid timezone", err, "timezone", cfg.Timezone)
	}
	kvStore, closeStore, err := cli.OpenStore(ctx, logger, cfg)
	if err != nil {
		cli.Fatal(logger, "Failed to initialize backend", err, "backend", cfg.DataBackend)
	}
	defer closeStore()

	store := transactions.NewStore(kvStore)
	engine := summary.NewEngine(tax, loc)
	dashboard := services.NewDashboardService(store, session.NewManager(kvStore), engine)
	resume := services.NewResumeService(store, engine)

	period := resume.CurrentPeriod()
	if *year != 0 {
		period.Year = *year
	}
	if *month != 0 {
		period.Month = time.Month(*month)
	}
	if !period.Valid() {
		cli.Fatal(logger, "Invalid period", fmt.Errorf("%d-%02d", period.Year, int(period.Month)))
	}

	refresher := services.NewRefresher(func(ctx context.Context) (snapshot, error) {
		var snap snapshot
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			snap.dashboard, err = dashboard.Load(gctx)
			return err
		})
		g.Go(func() error {
			var err error
			snap.resume, err = resume.Load(gctx, period)
			return err
		})
		return snap, g.Wait()
	})
	refresher.OnPublish(func(s snapshot) {
		printSnapshot(s)
		if *chartPath != "" {
			if err := writeChart(*chartPath, s.resume); err != nil {
				logger.Error("Failed to write chart", log.FieldError, err, "path", *chartPath)
			}
		}
	})

	if _, _, err := refresher.Refresh(ctx); err != nil {
		cli.Fatal(logger, "Failed to build report", err)
	}
	if *watch <= 0 {
		return
	}

	ticker := time.NewTicker(*watch)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, _, err := refresher.Refresh(ctx); err != nil && ctx.Err() == nil {
				logger.Error("Refresh failed", log.FieldError, err)
			}
		}
	}
}

func printSnapshot(s snapshot) {
	w := report.NewWriter(os.Stdout)
	if s.dashboard.SignedIn {
		fmt.Fprintf(os.Stdout, "Olá, %s\n\n", s.dashboard.User.Name)
	}
	w.Highlights(s.dashboard.Highlights)
	fmt.Fprintln(os.Stdout)
	w.Listing(s.dashboard.Transactions)
	fmt.Fprintln(os.Stdout)
	w.Breakdown(s.resume.Label, s.resume.Categories)
	fmt.Fprintln(os.Stdout)
}

func writeChart(path string, r services.Resume) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	err = chart.RenderPNG(f, r.Categories, chart.Options{ShowPercent: true})
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if errors.Is(err, chart.ErrNoData) {
		_ = os.Remove(path)
		return nil
	}
	return err
}
