// Package gateway defines the port between the transaction ledger and
// whatever concrete store holds committed data.
package gateway

import (
	"context"
	"errors"
	"fmt"

	"expensetracker/internal/core"
)

// Gateway is implemented by every backing store adapter: the embedded SQLite
// store, the Postgres store, the remote API client, and the in-memory store.
// Insert returns the authoritative id assigned by the store before the entry
// is considered applied; no provisional local ids exist.
type Gateway interface {
	FetchAll(ctx context.Context) ([]core.Transaction, error)
	Insert(ctx context.Context, t core.Transaction) (int, error)
	UpdateCategory(ctx context.Context, id, categoryID int) error
	Delete(ctx context.Context, id int) error
}

// ErrNotFound reports a mutation targeting an id the store does not hold.
// Treated as a no-op failure, never fatal.
var ErrNotFound = errors.New("transaction not found")

// PersistenceError wraps a failed store or transport call. In-memory state is
// always left unchanged when one is returned.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
