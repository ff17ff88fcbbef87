package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"expensetracker/internal/amqp"
	"expensetracker/internal/backend"
	"expensetracker/internal/config"
	applog "expensetracker/internal/log"
	"expensetracker/internal/remote"
	"expensetracker/internal/worker"
)

func main() {
	_ = godotenv.Load()

	logger := applog.New(applog.Config{
		Level:     slog.LevelInfo,
		Component: applog.ComponentWorker,
	})
	applog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", applog.FieldError, err)
		os.Exit(1)
	}
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the audit worker")
		os.Exit(1)
	}

	ctx := context.Background()

	// Prefer the remote API as the transaction source so the worker can
	// run on a different host than the ledger's database.
	var source worker.TransactionFetcher
	if cfg.RemoteAPIURL != "" {
		source = remote.NewClient(cfg.RemoteAPIURL, cfg.RemoteTimeout)
		logger.Info("Using remote transaction source", "url", cfg.RemoteAPIURL)
	} else {
		factory := backend.NewFactory(logger.Logger)
		result, err := factory.CreateBackend(ctx, backend.Config{
			Type:         backend.Type(cfg.DataBackend),
			SQLiteDBPath: cfg.SQLiteDBPath,
			PostgresURL:  cfg.PostgresURL,
		})
		if err != nil {
			logger.Error("Failed to initialize backend",
				applog.FieldError, err, applog.FieldBackend, cfg.DataBackend)
			os.Exit(1)
		}
		defer func() {
			if result.Cleanup != nil {
				if err := result.Cleanup(); err != nil {
					logger.Error("Backend cleanup failed", applog.FieldError, err)
				}
			}
		}()
		source = result.Repository
		logger.Info("Using local transaction source", applog.FieldBackend, cfg.DataBackend)
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to connect to AMQP broker", applog.FieldError, err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	auditWorker, err := worker.NewAuditWorker(source, cfg.AuditLogPath, logger)
	if err != nil {
		logger.Error("Failed to open audit log", applog.FieldError, err)
		os.Exit(1)
	}
	defer auditWorker.Close()

	sigCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(sigCtx)

	g.Go(func() error {
		logger.Info("Consuming transaction events",
			applog.FieldExchange, cfg.AMQPExchange, applog.FieldQueue, cfg.AMQPQueue)
		return amqpClient.ConsumeTransactionEvents(gctx, func(msg *amqp.TransactionEventMessage) error {
			return auditWorker.HandleEvent(gctx, msg)
		})
	})

	g.Go(func() error {
		return auditWorker.RunPeriodicCatchUp(gctx, cfg.AuditInterval)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker error", applog.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Worker stopped gracefully")
}
