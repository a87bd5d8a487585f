package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"rewind/internal/amqp"
	"rewind/internal/config"
	"rewind/internal/export"
	applog "rewind/internal/log"
	"rewind/internal/services"
	"rewind/internal/storage"
	"rewind/internal/worker"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	// Setup structured logging
	logger := applog.New(applog.DefaultConfig())
	applog.SetDefault(logger)

	logger.Info("Starting rewind-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	store, err := storage.NewSQLiteRepository(cfg.SnapshotDBPath)
	if err != nil {
		logger.Error("Failed to initialize snapshot store", "error", err, "path", cfg.SnapshotDBPath)
		os.Exit(1)
	}
	defer store.Close()

	svc := services.NewWrappedService(cfg.LedgerDBPath, store, nil, cfg.CacheSize, cfg.CacheTTL)

	// The worker cannot run without its request queue.
	consumer, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPRecomputeQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP consumer", "error", err)
		os.Exit(1)
	}
	defer consumer.Close()

	// Completion announcements are advisory; keep running if the second
	// queue cannot be set up.
	var publisher worker.CompletionPublisher
	completedClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPCompletedQueue)
	if err != nil {
		logger.Warn("Completion queue unavailable", "error", err)
	} else {
		defer completedClient.Close()
		publisher = completedClient
	}

	// Initialize Google Sheets exporter (optional)
	var exporter worker.SnapshotExporter
	if cfg.SheetsExportEnabled() {
		sheetsExporter, err := export.NewFromEnv(context.Background(), cfg.GoogleSpreadsheetID, cfg.GoogleSheetName)
		if err != nil {
			logger.Error("Failed to initialize Sheets exporter", "error", err)
			os.Exit(1)
		}
		exporter = sheetsExporter
		logger.Info("Sheets exporter initialized", "spreadsheet_id", cfg.GoogleSpreadsheetID)
	} else {
		logger.Info("Sheets export disabled - no GOOGLE_SPREADSHEET_ID provided")
	}

	w := worker.NewRecomputeWorker(svc, publisher, exporter, cfg.CurrencySymbol)

	// Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Prime the default-year snapshot so the first API read is warm.
	warmupCtx, warmupCancel := context.WithTimeout(ctx, 2*time.Minute)
	if err := w.WarmupDefaultYear(warmupCtx, cfg.DefaultYear); err != nil {
		logger.Error("Warmup failed", "error", err, "year", cfg.DefaultYear)
		// Don't exit - the ledger may appear later; requests still work.
	}
	warmupCancel()

	go func() {
		err := consumer.ConsumeRecompute(ctx, func(msg *amqp.RecomputeMessage) error {
			return w.HandleRecomputeMessage(ctx, msg)
		})
		if err != nil && err != context.Canceled {
			logger.Error("Message consumption failed", "error", err)
		}
		cancel()
	}()

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Info("Shutdown signal received", "signal", sig.String())
	case <-ctx.Done():
		logger.Info("Context cancelled")
	}

	cancel()
	logger.Info("Worker stopped gracefully")
}
