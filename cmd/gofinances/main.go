package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"gofinances/internal/amqp"
	"gofinances/internal/auth"
	"gofinances/internal/cli"
	apphttp "gofinances/internal/http"
	"gofinances/internal/kv"
	"gofinances/internal/log"
	"gofinances/internal/middleware/ratelimit"
	"gofinances/internal/services"
	"gofinances/internal/session"
	"gofinances/internal/summary"
	"gofinances/internal/transactions"
)

func main() {
	cli.LoadEnvFile()
	cfg := cli.LoadAndValidateConfig()
	logger := cli.SetupLogger(log.ComponentApp, cfg.LogLevel)

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

	// Publishing is optional: without a broker, registrations are only stored.
	var publisher services.Publisher
	if cfg.AMQPEnabled() {
		amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			cli.Fatal(logger, "Failed to initialize AMQP client", err)
		}
		defer amqpClient.Close()
		publisher = amqpClient
		logger.Info("AMQP publisher enabled", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	}

	var google apphttp.SignInProvider
	if cfg.GoogleSignInEnabled() {
		google = auth.NewGoogleProvider(cfg.GoogleOAuthClientID, cfg.GoogleOAuthClientSecret, cfg.GoogleOAuthRedirectURL)
		logger.Info("Google sign-in enabled", "redirect_url", cfg.GoogleOAuthRedirectURL)
	}

	var ready kv.Pinger
	if p, ok := kvStore.(kv.Pinger); ok {
		ready = p
	}

	store := transactions.NewStore(kvStore)
	sess := session.NewManager(kvStore)
	engine := summary.NewEngine(tax, loc)

	srv := apphttp.NewServer(":"+cfg.Port, apphttp.Deps{
		Transactions: services.NewTransactionService(store, tax, publisher),
		Dashboard:    services.NewDashboardService(store, sess, engine),
		Resume:       services.NewResumeService(store, engine),
		Session:      sess,
		Taxonomy:     tax,
		Google:       google,
		Ready:        ready,
		Logger:       logger,
		RateLimit: ratelimit.Config{
			RequestsPerSecond: cfg.RateLimitRPS,
			Burst:             cfg.RateLimitBurst,
		},
		TrustedProxies: cfg.TrustedProxies,
	})
	srv.MaxHeaderBytes = 1 << 16

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting gofinances server",
			"port", cfg.Port,
			"backend", cfg.DataBackend,
			"timezone", loc.String(),
			"categories", tax.Len())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	case err := <-errCh:
		if err != nil {
			cli.Fatal(logger, "Server error", err, "port", cfg.Port)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", log.FieldError, err)
	}
	logger.Info("Server stopped gracefully", "timeout", cfg.ShutdownTimeout.Round(time.Second))
}
