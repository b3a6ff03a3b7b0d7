package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"finbot/internal/amqp"
	"finbot/internal/config"
	"finbot/internal/journal"
	"finbot/internal/log"
	"finbot/internal/services"
	"finbot/internal/storage"
	"finbot/internal/worker"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	cfg := config.Load()

	logger := log.New(log.Config{
		Level:     log.ParseLevel(cfg.LogLevel),
		Component: log.ComponentWorker,
	})
	log.SetDefault(logger)

	logger.Info("Starting journal-worker", log.FieldOperation, log.OpStartup)

	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", log.FieldError, err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	jrnl, err := journal.New(cfg.JournalDir)
	if err != nil {
		logger.Error("Failed to initialize journal directory", log.FieldError, err, "dir", cfg.JournalDir)
		os.Exit(1)
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", log.FieldError, err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	reportService := services.NewReportService(repo)
	journalWorker := worker.NewJournalWorker(repo, reportService, jrnl, amqpClient)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("Consuming journal messages", "queue", cfg.AMQPQueue)
	if err := journalWorker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("journal-worker stopped with error", log.FieldError, err)
		os.Exit(1)
	}
	logger.Info("journal-worker stopped gracefully")
}
