package storage

import (
	"context"
	"fmt"
	"log/slog"

	"expensetracker/internal/core"
)

// SeedDemoData loads the reference transaction set into an empty database.
// It is a no-op when any transactions already exist, so restarting with
// SEED_DEMO_DATA enabled never duplicates rows.
func (r *SQLiteRepository) SeedDemoData(ctx context.Context) error {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM Transactions`).Scan(&count); err != nil {
		return fmt.Errorf("count transactions: %w", err)
	}
	if count > 0 {
		slog.InfoContext(ctx, "Demo seed skipped, transactions already present", "count", count)
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO Transactions
			(id, date, institution, account, merchant, amount_cents, type,
			 categoryId, category, isPending, isTransfer, isExpense, isEdited)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare seed insert: %w", err)
	}
	defer stmt.Close()

	demo := core.DemoTransactions()
	for _, t := range demo {
		_, err := stmt.ExecContext(ctx,
			t.ID, t.Date.Format(dbDateLayout), t.Institution, t.Account, t.Merchant,
			t.Amount.Cents, string(t.Type), t.CategoryID, t.Category,
			boolToInt(t.IsPending), boolToInt(t.IsTransfer), boolToInt(t.IsExpense), boolToInt(t.IsEdited))
		if err != nil {
			return fmt.Errorf("seed transaction %d: %w", t.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed: %w", err)
	}

	slog.InfoContext(ctx, "Demo data seeded", "transactions", len(demo))
	return nil
}
