// Package backend selects and constructs the configured persistence backend.
package backend

import (
	"context"

	"expensetracker/internal/core"
	"expensetracker/internal/gateway"
)

// Repository is the full surface the API server needs from a backend: the
// gateway mutations plus the read operations the HTTP handlers serve
// directly.
type Repository interface {
	gateway.Gateway

	GetTransaction(ctx context.Context, id int) (core.Transaction, error)
	ListCategories(ctx context.Context) ([]core.Category, error)
	GetCategory(ctx context.Context, id int) (core.Category, error)
	MonthSummary(ctx context.Context, year, month int) (core.MonthSummary, error)
	Close() error
}

// CleanupFunc releases backend resources on shutdown.
type CleanupFunc func() error

// Result contains the constructed backend and its cleanup function.
type Result struct {
	Repository Repository
	Cleanup    CleanupFunc
}

// Factory creates backends from configuration.
type Factory interface {
	CreateBackend(ctx context.Context, cfg Config) (*Result, error)
}

// Config holds the knobs backend construction needs.
type Config struct {
	Type Type

	// SQLite specific
	SQLiteDBPath string
	SeedDemoData bool

	// Postgres specific
	PostgresURL string
}

// Type names a persistence backend.
type Type string

const (
	SQLiteBackend   Type = "sqlite"
	PostgresBackend Type = "postgres"
	MemoryBackend   Type = "memory"
)

func (t Type) String() string {
	return string(t)
}

func (t Type) IsValid() bool {
	switch t {
	case SQLiteBackend, PostgresBackend, MemoryBackend:
		return true
	default:
		return false
	}
}

// Types returns all valid backend types.
func Types() []Type {
	return []Type{SQLiteBackend, PostgresBackend, MemoryBackend}
}

// Validate checks that the config is complete for its backend type.
func (c Config) Validate() error {
	if !c.Type.IsValid() {
		return &InvalidConfigError{Field: "Type", Reason: "unknown backend type " + c.Type.String()}
	}
	switch c.Type {
	case SQLiteBackend:
		if c.SQLiteDBPath == "" {
			return &InvalidConfigError{Field: "SQLiteDBPath", Reason: "required for sqlite backend"}
		}
	case PostgresBackend:
		if c.PostgresURL == "" {
			return &InvalidConfigError{Field: "PostgresURL", Reason: "required for postgres backend"}
		}
	case MemoryBackend:
		// nothing beyond the type
	}
	return nil
}

// InvalidConfigError reports an unusable backend configuration.
type InvalidConfigError struct {
	Field  string
	Reason string
}

func (e *InvalidConfigError) Error() string {
	return "invalid backend config: " + e.Field + ": " + e.Reason
}
