// Package cli holds the start-up steps shared by cmd/dompet and
// cmd/dompet-worker.
package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"dompet/internal/backend"
	"dompet/internal/config"
	dlog "dompet/internal/log"
)

// SetupLogger builds the process logger at the given level and installs it
// as the slog default.
func SetupLogger(level, component string) *dlog.Logger {
	cfg := dlog.DefaultConfig()
	cfg.Level = dlog.ParseLevel(level)
	cfg.Component = component
	logger := dlog.New(cfg)
	dlog.SetDefault(logger)
	return logger
}

// LoadEnvFile loads .env for local development. A missing file is fine.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration and exits on validation failure.
func LoadAndValidateConfig(logger *dlog.Logger) *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", dlog.FieldError, err)
		os.Exit(1)
	}
	return cfg
}

// InitStore opens the configured backend or exits.
func InitStore(ctx context.Context, logger *dlog.Logger, cfg *config.Config) *backend.Result {
	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", dlog.FieldError, err)
		os.Exit(1)
	}
	res, err := backend.NewFactory(logger).Create(ctx, bcfg)
	if err != nil {
		logger.Error("Failed to initialize backend", dlog.FieldError, err, "backend", bcfg.Type)
		os.Exit(1)
	}
	return res
}

// GracefulShutdown returns a context cancelled on SIGINT or SIGTERM. After
// cancellation cleanup runs with at most timeout to finish, then done is
// closed.
func GracefulShutdown(logger *dlog.Logger, timeout time.Duration, cleanup func(ctx context.Context)) (context.Context, <-chan struct{}) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	done := make(chan struct{})

	go func() {
		defer close(done)
		<-ctx.Done()
		stop()
		logger.Info("Shutdown signal received", dlog.FieldOperation, dlog.OpShutdown)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		finished := make(chan struct{})
		go func() {
			defer close(finished)
			if cleanup != nil {
				cleanup(shutdownCtx)
			}
		}()

		select {
		case <-finished:
			logger.Info("Shutdown complete")
		case <-shutdownCtx.Done():
			logger.Warn("Shutdown timeout reached")
		}
	}()

	return ctx, done
}

// WaitForShutdown blocks until ctx is cancelled and cleanup has finished.
func WaitForShutdown(ctx context.Context, done <-chan struct{}) {
	<-ctx.Done()
	<-done
}
