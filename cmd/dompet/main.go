package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"dompet/internal/ai"
	"dompet/internal/amqp"
	"dompet/internal/cache"
	"dompet/internal/cli"
	apphttp "dompet/internal/http"
	dlog "dompet/internal/log"
	"dompet/internal/services"
	"dompet/internal/smartadd"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"), dlog.ComponentApp)
	cfg := cli.LoadAndValidateConfig(logger)

	startCtx, cancelStart := context.WithTimeout(context.Background(), 30*time.Second)
	store := cli.InitStore(startCtx, logger, cfg)

	// AMQP is optional; without it transactions are stored but no event is sent.
	var publisher services.Publisher
	var amqpClient *amqp.Client
	if cfg.AMQPURL != "" {
		c, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", dlog.FieldError, err)
			os.Exit(1)
		}
		amqpClient, publisher = c, c
		logger.Info("AMQP publishing enabled", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	} else {
		logger.Info("AMQP disabled - no AMQP_URL provided")
	}

	saOpts := []smartadd.Option{
		smartadd.WithReferenceCache(cfg.CacheTTL),
		smartadd.WithLogger(logger),
	}
	if cfg.AIEnabled() {
		gemini, err := ai.NewGemini(startCtx, cfg.GeminiAPIKey, cfg.GeminiModel, logger)
		if err != nil {
			logger.Error("Failed to initialize Gemini client", dlog.FieldError, err)
			os.Exit(1)
		}
		saOpts = append(saOpts, smartadd.WithExtractor(gemini, cfg.AITimeout))
		logger.Info("AI extraction enabled", "model", cfg.GeminiModel, "timeout", cfg.AITimeout)
	} else {
		logger.Info("AI extraction disabled - quick parse only")
	}
	cancelStart()

	reports := cache.NewLRU[services.MonthReport](cfg.CacheSize, cfg.CacheTTL)
	svc := apphttp.Services{
		SmartAdd:     smartadd.NewService(store.Store, store.Store, saOpts...),
		Transactions: services.NewTransactionService(store.Store, publisher, logger),
		Budgets:      services.NewBudgetService(store.Store, reports, logger),
		Reference:    store.Store,
		Ready:        store.Ready,
	}

	httpCfg := apphttp.DefaultConfig(":" + cfg.Port)
	httpCfg.ListCacheTTL = cfg.CacheTTL
	httpCfg.ListCacheSize = cfg.CacheSize
	srv, err := apphttp.NewServer(httpCfg, svc, logger)
	if err != nil {
		logger.Error("Failed to create HTTP server", dlog.FieldError, err)
		os.Exit(1)
	}

	caches := cache.NewManager(logger)
	caches.Register(reports)
	caches.Register(srv.ListCache())
	caches.Start(10 * time.Minute)

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func(ctx context.Context) {
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Server shutdown error", dlog.FieldError, err)
		}
		caches.Stop()
		if amqpClient != nil {
			if err := amqpClient.Close(); err != nil {
				logger.Warn("AMQP close error", dlog.FieldError, err)
			}
		}
		if store.Cleanup != nil {
			if err := store.Cleanup(); err != nil {
				logger.Warn("Backend cleanup error", dlog.FieldError, err)
			}
		}
	})

	go func() {
		logger.Info("Starting dompet server",
			"port", cfg.Port,
			"backend", cfg.DataBackend,
			dlog.FieldOperation, dlog.OpStartup)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server error", dlog.FieldError, err, "port", cfg.Port)
			os.Exit(1)
		}
	}()

	cli.WaitForShutdown(ctx, done)
	logger.Info("Server stopped gracefully")
}
