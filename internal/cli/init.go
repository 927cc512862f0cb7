// Package cli provides common CLI initialization utilities.
// This package consolidates repeated initialization patterns across
// cmd/gofinances, cmd/gofinances-worker and cmd/gofinances-report.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"gofinances/internal/backend"
	"gofinances/internal/config"
	"gofinances/internal/core"
	"gofinances/internal/kv"
	"gofinances/internal/log"
)

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// SetupLogger builds the application logger for component at the given
// LOG_LEVEL and installs it as the slog default. An unknown level falls back
// to info with a warning.
func SetupLogger(component, level string) *log.Logger {
	lvl, err := log.ParseLevel(level)
	logger := log.New(log.Config{
		Level:     lvl,
		Component: component,
		Handler:   slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}),
	})
	log.SetDefault(logger)
	if err != nil {
		logger.Warn("Falling back to info level", log.FieldError, err)
	}
	return logger
}

// LoadAndValidateConfig loads configuration and validates it.
// Returns the config or exits the process on validation failure.
func LoadAndValidateConfig() *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		slog.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	return cfg
}

// LoadTaxonomy returns the category table from TAXONOMY_FILE, or the
// built-in one when the file is not configured.
func LoadTaxonomy(cfg *config.Config) (*core.Taxonomy, error) {
	if cfg.TaxonomyFile == "" {
		return core.DefaultTaxonomy(), nil
	}
	tax, err := core.LoadTaxonomyFile(cfg.TaxonomyFile)
	if err != nil {
		return nil, fmt.Errorf("load taxonomy %s: %w", cfg.TaxonomyFile, err)
	}
	return tax, nil
}

// OpenStore creates the key-value backend selected by DATA_BACKEND. The
// returned cleanup is never nil.
func OpenStore(ctx context.Context, logger *log.Logger, cfg *config.Config) (kv.Store, func(), error) {
	backendConfig, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, nil, err
	}
	result, err := backend.NewFactory(logger.Logger).CreateBackend(ctx, backendConfig)
	if err != nil {
		return nil, nil, fmt.Errorf("create %s backend: %w", backendConfig.Type, err)
	}
	cleanup := func() {
		if result.Cleanup == nil {
			return
		}
		if err := result.Cleanup(); err != nil {
			logger.Error("Failed to close backend", log.FieldError, err)
		}
	}
	return result.Store, cleanup, nil
}

// SignalContext returns a context cancelled on SIGINT or SIGTERM.
func SignalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

// Fatal logs msg with err and exits.
func Fatal(logger *log.Logger, msg string, err error, args ...any) {
	logger.Error(msg, append([]any{log.FieldError, err}, args...)...)
	os.Exit(1)
}
