package backend

import (
	"context"
	"fmt"
	"log/slog"

	"expensetracker/internal/memory"
	"expensetracker/internal/postgres"
	"expensetracker/internal/storage"
)

type DefaultFactory struct {
	logger *slog.Logger
}

func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{logger: logger}
}

// CreateBackend implements Factory.
func (f *DefaultFactory) CreateBackend(ctx context.Context, cfg Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	switch cfg.Type {
	case SQLiteBackend:
		return f.createSQLite(ctx, cfg)
	case PostgresBackend:
		return f.createPostgres(ctx, cfg)
	case MemoryBackend:
		return f.createMemory(cfg)
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", cfg.Type)
	}
}

func (f *DefaultFactory) createSQLite(ctx context.Context, cfg Config) (*Result, error) {
	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("initialize sqlite repository: %w", err)
	}

	if cfg.SeedDemoData {
		if err := repo.SeedDemoData(ctx); err != nil {
			repo.Close()
			return nil, fmt.Errorf("seed demo data: %w", err)
		}
	}

	f.logger.Info("Initialized SQLite backend", "db_path", cfg.SQLiteDBPath)
	return &Result{Repository: repo, Cleanup: repo.Close}, nil
}

func (f *DefaultFactory) createPostgres(ctx context.Context, cfg Config) (*Result, error) {
	repo, err := postgres.NewRepository(ctx, cfg.PostgresURL)
	if err != nil {
		return nil, fmt.Errorf("initialize postgres repository: %w", err)
	}

	f.logger.Info("Initialized Postgres backend")
	return &Result{Repository: repo, Cleanup: repo.Close}, nil
}

func (f *DefaultFactory) createMemory(cfg Config) (*Result, error) {
	var store *memory.Store
	if cfg.SeedDemoData {
		store = memory.NewWithDemoData()
	} else {
		store = memory.New()
	}

	f.logger.Info("Initialized memory backend", "demo_data", cfg.SeedDemoData)
	return &Result{Repository: store, Cleanup: store.Close}, nil
}
