package main

import (
	"context"
	"errors"
	"time"

	"gofinances/internal/amqp"
	"gofinances/internal/cli"
	"gofinances/internal/log"
	"gofinances/internal/sheets"
	gsheet "gofinances/internal/sheets/google"
	mem "gofinances/internal/sheets/memory"
	"gofinances/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	cfg := cli.LoadAndValidateConfig()
	logger := cli.SetupLogger(log.ComponentWorker, cfg.LogLevel)

	logger.Info("Starting gofinances-worker")

	if !cfg.AMQPEnabled() {
		cli.Fatal(logger, "Worker needs a broker", errors.New("AMQP_URL is not set"))
	}

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

	var (
		ledger sheets.LedgerWriter
		header sheets.HeaderEnsurer
	)
	if cfg.SheetsEnabled() {
		client, err := gsheet.New(ctx, gsheet.OptionsFromConfig(cfg))
		if err != nil {
			cli.Fatal(logger, "Failed to initialize Google Sheets client", err)
		}
		ledger, header = client, client
		logger.Info("Exporting to Google Sheets",
			"spreadsheet_id", cfg.GoogleSpreadsheetID,
			"sheet", cfg.GoogleSheetName)
	} else {
		store := mem.New()
		ledger, header = store, store
		logger.Warn("Google Sheets disabled, exported rows are kept in memory only")
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		cli.Fatal(logger, "Failed to initialize AMQP client", err)
	}
	defer amqpClient.Close()

	exporter := worker.NewExportWorker(ledger, header, tax, loc, cfg.ExportWritesPerSecond)

	logger.Info("Performing startup check...")
	if err := exporter.StartupCheck(ctx); err != nil {
		// not fatal: rows can still be appended without a header
		logger.Error("Failed startup check", log.FieldError, err)
	}

	done := make(chan error, 1)
	go func() {
		done <- amqpClient.ConsumeTransactionCreated(ctx, exporter.HandleTransactionCreated)
	}()

	select {
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	case err := <-done:
		if err != nil && !errors.Is(err, context.Canceled) {
			cli.Fatal(logger, "Message consumption failed", err)
		}
		return
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	logger.Info("Shutting down worker...")
	select {
	case <-shutdownCtx.Done():
		logger.Warn("Shutdown timeout reached")
	case <-done:
		logger.Info("Worker shutdown complete", "timeout", cfg.ShutdownTimeout.Round(time.Second))
	}
}
