// Package worker consumes transaction change events and appends them to a
// durable audit export file.
package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"expensetracker/internal/amqp"
	"expensetracker/internal/core"
	"expensetracker/internal/gateway"
	"expensetracker/internal/ledger"
	applog "expensetracker/internal/log"
)

// TransactionFetcher is the read surface the worker needs from its source.
// Both local repositories and the remote API client satisfy it.
type TransactionFetcher interface {
	FetchAll(ctx context.Context) ([]core.Transaction, error)
}

// AuditRecord is one JSON line in the audit export.
type AuditRecord struct {
	Timestamp   time.Time `json:"timestamp"`
	Action      string    `json:"action"`
	ID          int       `json:"transactionId"`
	Date        string    `json:"date,omitempty"`
	Merchant    string    `json:"merchant,omitempty"`
	AmountCents int64     `json:"amountCents,omitempty"`
	Category    string    `json:"category,omitempty"`
	IsExpense   bool      `json:"isExpense,omitempty"`
}

type AuditWorker struct {
	source TransactionFetcher
	logger *applog.Logger

	mu   sync.Mutex
	file *os.File
}

func NewAuditWorker(source TransactionFetcher, auditPath string, logger *applog.Logger) (*AuditWorker, error) {
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	if err := os.MkdirAll(filepath.Dir(auditPath), 0755); err != nil {
		return nil, fmt.Errorf("create audit directory: %w", err)
	}
	f, err := os.OpenFile(auditPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("open audit file: %w", err)
	}
	return &AuditWorker{
		source: source,
		logger: logger.WithComponent(applog.ComponentWorker),
		file:   f,
	}, nil
}

func (w *AuditWorker) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.file.Close()
}

// HandleEvent appends one audit record per consumed event. For anything but a
// delete, the current transaction is fetched so the record carries a snapshot
// of what the event produced.
func (w *AuditWorker) HandleEvent(ctx context.Context, msg *amqp.TransactionEventMessage) error {
	rec := AuditRecord{
		Timestamp: msg.Timestamp,
		Action:    msg.Action,
		ID:        msg.ID,
	}

	if msg.Action != ledger.ActionDeleted {
		t, err := w.find(ctx, msg.ID)
		if err != nil {
			return fmt.Errorf("fetch transaction %d: %w", msg.ID, err)
		}
		if t != nil {
			rec.Date = t.Date.String()
			rec.Merchant = t.Merchant
			rec.AmountCents = t.Amount.Cents
			rec.Category = t.Category
			rec.IsExpense = t.IsExpense
		} else {
			// Deleted between the event and the fetch. Keep the bare record.
			w.logger.WarnContext(ctx, "Transaction gone before audit fetch",
				applog.FieldTransaction, msg.ID, applog.FieldAction, msg.Action)
		}
	}

	if err := w.append(rec); err != nil {
		return err
	}

	w.logger.InfoContext(ctx, "Audit record written",
		applog.FieldAction, rec.Action, applog.FieldTransaction, rec.ID)
	return nil
}

// RunPeriodicCatchUp writes a snapshot marker on every tick. It doubles as a
// connectivity check against the source; a failed fetch is logged and retried
// on the next tick. Blocks until ctx is cancelled.
func (w *AuditWorker) RunPeriodicCatchUp(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			txs, err := w.source.FetchAll(ctx)
			if err != nil {
				w.logger.WarnContext(ctx, "Catch-up fetch failed", applog.FieldError, err)
				continue
			}
			rec := AuditRecord{
				Timestamp: time.Now(),
				Action:    "snapshot",
				ID:        len(txs),
			}
			if err := w.append(rec); err != nil {
				w.logger.ErrorContext(ctx, "Snapshot record failed", applog.FieldError, err)
			}
		}
	}
}

// find returns nil without error when the id is absent. Sources with a direct
// lookup are used as-is; otherwise the full list is scanned, which is fine at
// personal-ledger volume.
func (w *AuditWorker) find(ctx context.Context, id int) (*core.Transaction, error) {
	if getter, ok := w.source.(interface {
		GetTransaction(ctx context.Context, id int) (core.Transaction, error)
	}); ok {
		t, err := getter.GetTransaction(ctx, id)
		if errors.Is(err, gateway.ErrNotFound) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		return &t, nil
	}

	txs, err := w.source.FetchAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range txs {
		if txs[i].ID == id {
			return &txs[i], nil
		}
	}
	return nil, nil
}

func (w *AuditWorker) append(rec AuditRecord) error {
	line, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal audit record: %w", err)
	}
	line = append(line, '\n')

	w.mu.Lock()
	defer w.mu.Unlock()
	if _, err := w.file.Write(line); err != nil {
		return fmt.Errorf("append audit record: %w", err)
	}
	return nil
}
