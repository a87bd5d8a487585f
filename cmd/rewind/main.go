package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"rewind/internal/amqp"
	"rewind/internal/config"
	apphttp "rewind/internal/http"
	applog "rewind/internal/log"
	"rewind/internal/services"
	"rewind/internal/storage"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	// Setup structured logging
	logger := applog.New(applog.DefaultConfig())
	applog.SetDefault(logger)

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

	// The broker is optional for the API: without it, recompute requests run inline.
	var amqpClient *amqp.Client
	if cfg.AMQPURL != "" {
		amqpClient, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPRecomputeQueue)
		if err != nil {
			logger.Warn("AMQP unavailable, recomputes will run inline", "error", err)
			amqpClient = nil
		} else {
			logger.Info("AMQP client initialized", "queue", cfg.AMQPRecomputeQueue)
		}
	}

	svc := services.NewWrappedService(cfg.LedgerDBPath, store, amqpClient, cfg.CacheSize, cfg.CacheTTL)
	defer svc.Close()

	srv := apphttp.NewServer(":"+cfg.Port, svc, cfg.DefaultYear, cfg.CurrencySymbol)

	// Graceful shutdown handling
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		cancel()
	}()

	logger.Info("Starting rewind server",
		"port", cfg.Port,
		"ledger", cfg.LedgerDBPath,
		"default_year", cfg.DefaultYear)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}
