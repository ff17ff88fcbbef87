package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"expensetracker/internal/amqp"
	"expensetracker/internal/backend"
	"expensetracker/internal/config"
	apphttp "expensetracker/internal/http"
	"expensetracker/internal/ledger"
	applog "expensetracker/internal/log"
)

func main() {
	// Load .env for local development; ignore errors in production.
	_ = godotenv.Load()

	logger := applog.New(applog.DefaultConfig())
	applog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", applog.FieldError, err)
		os.Exit(1)
	}

	ctx := context.Background()

	factory := backend.NewFactory(logger.Logger)
	result, err := factory.CreateBackend(ctx, backend.Config{
		Type:         backend.Type(cfg.DataBackend),
		SQLiteDBPath: cfg.SQLiteDBPath,
		PostgresURL:  cfg.PostgresURL,
		SeedDemoData: cfg.SeedDemoData,
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

	// AMQP is optional: without it the service runs local-only.
	storeOpts := []ledger.Option{ledger.WithLogger(logger.Logger)}
	if cfg.AMQPURL != "" {
		amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Failed to initialize AMQP client, continuing without events",
				applog.FieldError, err)
		} else {
			defer amqpClient.Close()
			storeOpts = append(storeOpts, ledger.WithEventPublisher(amqpClient))
			logger.Info("Initialized AMQP client",
				applog.FieldExchange, cfg.AMQPExchange, applog.FieldQueue, cfg.AMQPQueue)
		}
	}

	store := ledger.New(result.Repository, storeOpts...)
	if err := store.Load(ctx); err != nil {
		logger.Error("Failed to load transactions", applog.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Transactions loaded", "count", store.Len())

	srv := apphttp.NewServer(":"+cfg.Port, store, result.Repository, logger)
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting server",
			"port", cfg.Port, applog.FieldBackend, cfg.DataBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		sigCtx, stop := signal.NotifyContext(gctx, syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		<-sigCtx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		logger.Info("Shutting down server")
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", applog.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}
