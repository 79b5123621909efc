package main

import (
	"context"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"dompet/internal/amqp"
	"dompet/internal/cli"
	dlog "dompet/internal/log"
	"dompet/internal/services"
	gsheet "dompet/internal/sheets/google"
	"dompet/internal/worker"
)

const statsInterval = 5 * time.Minute

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"), dlog.ComponentWorker)
	logger.Info("Starting dompet-worker")

	cfg := cli.LoadAndValidateConfig(logger)
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the worker")
		os.Exit(1)
	}

	startCtx, cancelStart := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelStart()
	store := cli.InitStore(startCtx, logger, cfg)

	var exporter services.Exporter
	if cfg.SheetsEnabled() {
		e, err := gsheet.NewExporter(startCtx, gsheet.Config{
			SpreadsheetID:   cfg.GoogleSpreadsheetID,
			SheetName:       cfg.GoogleSheetName,
			CredentialsJSON: cfg.GoogleServiceAccountJSON,
			CredentialsFile: cfg.GoogleServiceAccountFile,
		}, logger)
		if err != nil {
			logger.Error("Failed to initialize Google Sheets exporter", dlog.FieldError, err)
			os.Exit(1)
		}
		exporter = e
		logger.Info("Google Sheets export enabled", "spreadsheet_id", cfg.GoogleSpreadsheetID)
	} else {
		logger.Info("Google Sheets disabled - no GOOGLE_SPREADSHEET_ID provided")
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", dlog.FieldError, err)
		os.Exit(1)
	}

	// Every event re-reads storage, so reports are not cached here.
	budgets := services.NewBudgetService(store.Store, nil, logger)
	processor := services.NewAlertProcessor(store.Store, budgets, exporter, services.AlertProcessorConfig{
		Threshold: cfg.BudgetAlertThreshold,
	}, logger)
	alerts := worker.NewAlertWorker(amqpClient, processor.Handle, logger)

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func(context.Context) {
		if err := amqpClient.Close(); err != nil {
			logger.Warn("AMQP close error", dlog.FieldError, err)
		}
		if store.Cleanup != nil {
			if err := store.Cleanup(); err != nil {
				logger.Warn("Backend cleanup error", dlog.FieldError, err)
			}
		}
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return alerts.Run(gctx) })
	g.Go(func() error {
		ticker := time.NewTicker(statsInterval)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				processed, failed := alerts.Stats()
				logger.Info("Worker stats", "processed", processed, "failed", failed)
			}
		}
	})

	if err := g.Wait(); err != nil {
		logger.Error("Message consumption failed", dlog.FieldError, err)
		os.Exit(1)
	}
	cli.WaitForShutdown(ctx, done)
	logger.Info("Worker stopped gracefully")
}
