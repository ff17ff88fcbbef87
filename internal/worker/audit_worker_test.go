package worker

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"expensetracker/internal/amqp"
	"expensetracker/internal/core"
	"expensetracker/internal/ledger"
)

type fakeFetcher struct {
	txs      []core.Transaction
	fetchErr error
}

func (f *fakeFetcher) FetchAll(_ context.Context) ([]core.Transaction, error) {
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return f.txs, nil
}

func newTestWorker(t *testing.T, src TransactionFetcher) (*AuditWorker, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "audit.jsonl")
	w, err := NewAuditWorker(src, path, nil)
	if err != nil {
		t.Fatalf("NewAuditWorker: %v", err)
	}
	t.Cleanup(func() { w.Close() })
	return w, path
}

func readRecords(t *testing.T, path string) []AuditRecord {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open audit file: %v", err)
	}
	defer f.Close()

	var out []AuditRecord
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var rec AuditRecord
		if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
			t.Fatalf("parse audit line %q: %v", scanner.Text(), err)
		}
		out = append(out, rec)
	}
	return out
}

func TestHandleEventWritesSnapshotRecord(t *testing.T) {
	src := &fakeFetcher{txs: []core.Transaction{{
		ID:        7,
		Date:      core.NewDate(2022, 2, 16),
		Merchant:  "STM",
		Amount:    core.Money{Cents: 650},
		Category:  "Public Transportation",
		IsExpense: true,
	}}}
	w, path := newTestWorker(t, src)

	msg := amqp.NewTransactionEventMessage(ledger.ActionCreated, 7)
	if err := w.HandleEvent(context.Background(), msg); err != nil {
		t.Fatalf("HandleEvent: %v", err)
	}

	recs := readRecords(t, path)
	if len(recs) != 1 {
		t.Fatalf("got %d records, want 1", len(recs))
	}
	rec := recs[0]
	if rec.Action != ledger.ActionCreated || rec.ID != 7 {
		t.Errorf("record = %+v", rec)
	}
	if rec.Merchant != "STM" || rec.AmountCents != 650 || rec.Date != "02/16/2022" {
		t.Errorf("snapshot fields = %+v", rec)
	}
}

func TestHandleEventDeleteSkipsFetch(t *testing.T) {
	src := &fakeFetcher{fetchErr: errors.New("source down")}
	w, path := newTestWorker(t, src)

	msg := amqp.NewTransactionEventMessage(ledger.ActionDeleted, 3)
	if err := w.HandleEvent(context.Background(), msg); err != nil {
		t.Fatalf("HandleEvent for delete should not fetch: %v", err)
	}

	recs := readRecords(t, path)
	if len(recs) != 1 || recs[0].Action != ledger.ActionDeleted || recs[0].Merchant != "" {
		t.Errorf("records = %+v", recs)
	}
}

func TestHandleEventMissingTransactionStillRecorded(t *testing.T) {
	w, path := newTestWorker(t, &fakeFetcher{})

	msg := amqp.NewTransactionEventMessage(ledger.ActionCategoryChanged, 99)
	if err := w.HandleEvent(context.Background(), msg); err != nil {
		t.Fatalf("HandleEvent: %v", err)
	}

	recs := readRecords(t, path)
	if len(recs) != 1 || recs[0].ID != 99 || recs[0].Merchant != "" {
		t.Errorf("records = %+v", recs)
	}
}

func TestHandleEventSourceFailurePropagates(t *testing.T) {
	src := &fakeFetcher{fetchErr: errors.New("source down")}
	w, path := newTestWorker(t, src)

	msg := amqp.NewTransactionEventMessage(ledger.ActionCreated, 1)
	if err := w.HandleEvent(context.Background(), msg); err == nil {
		t.Fatal("expected error from failing source")
	}
	if recs := readRecords(t, path); len(recs) != 0 {
		t.Errorf("failed event still wrote %d records", len(recs))
	}
}

func TestPeriodicCatchUpWritesSnapshots(t *testing.T) {
	src := &fakeFetcher{txs: make([]core.Transaction, 5)}
	w, path := newTestWorker(t, src)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Millisecond)
	defer cancel()
	if err := w.RunPeriodicCatchUp(ctx, 20*time.Millisecond); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("RunPeriodicCatchUp returned %v", err)
	}

	recs := readRecords(t, path)
	if len(recs) == 0 {
		t.Fatal("no snapshot records written")
	}
	if recs[0].Action != "snapshot" || recs[0].ID != 5 {
		t.Errorf("snapshot record = %+v", recs[0])
	}
}
