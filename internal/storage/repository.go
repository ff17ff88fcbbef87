// Package storage implements the persistence gateway on an embedded SQLite
// database.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"expensetracker/internal/core"
	"expensetracker/internal/gateway"

	_ "modernc.org/sqlite"
)

// dbDateLayout keeps dates lexicographically sortable in SQLite.
const dbDateLayout = "2006-01-02"

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

const transactionColumns = `id, date, institution, account, merchant, amount_cents, type,
	categoryId, category, isPending, isTransfer, isExpense, isEdited`

// FetchAll implements gateway.Gateway. Rows come back newest first; ties on
// the date keep insertion order.
func (r *SQLiteRepository) FetchAll(ctx context.Context) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+transactionColumns+`
		FROM Transactions
		ORDER BY date DESC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return out, nil
}

// Insert implements gateway.Gateway. The database assigns the id.
func (r *SQLiteRepository) Insert(ctx context.Context, t core.Transaction) (int, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO Transactions
			(date, institution, account, merchant, amount_cents, type,
			 categoryId, category, isPending, isTransfer, isExpense, isEdited)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.Date.Format(dbDateLayout), t.Institution, t.Account, t.Merchant,
		t.Amount.Cents, string(t.Type), t.CategoryID, t.Category,
		boolToInt(t.IsPending), boolToInt(t.IsTransfer), boolToInt(t.IsExpense), boolToInt(t.IsEdited))
	if err != nil {
		return 0, fmt.Errorf("insert transaction: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("read inserted id: %w", err)
	}

	slog.InfoContext(ctx, "Transaction saved to SQLite",
		"id", id, "merchant", t.Merchant, "amount_cents", t.Amount.Cents, "date", t.Date.String())
	return int(id), nil
}

// UpdateCategory implements gateway.Gateway. The denormalized name is
// refreshed from the Category table in the same statement so the pair never
// drifts apart.
func (r *SQLiteRepository) UpdateCategory(ctx context.Context, id, categoryID int) error {
	if _, err := r.GetCategory(ctx, categoryID); err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE Transactions
		SET categoryId = ?,
		    category = (SELECT name FROM Category WHERE id = ?),
		    isEdited = 1
		WHERE id = ?`, categoryID, categoryID, id)
	if err != nil {
		return fmt.Errorf("update transaction category: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("read affected rows: %w", err)
	}
	if n == 0 {
		return gateway.ErrNotFound
	}

	slog.InfoContext(ctx, "Transaction category updated", "id", id, "category_id", categoryID)
	return nil
}

// Delete implements gateway.Gateway.
func (r *SQLiteRepository) Delete(ctx context.Context, id int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM Transactions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("read affected rows: %w", err)
	}
	if n == 0 {
		return gateway.ErrNotFound
	}

	slog.InfoContext(ctx, "Transaction deleted", "id", id)
	return nil
}

// GetTransaction retrieves a single transaction by id.
func (r *SQLiteRepository) GetTransaction(ctx context.Context, id int) (core.Transaction, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+transactionColumns+`
		FROM Transactions
		WHERE id = ?`, id)
	t, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, gateway.ErrNotFound
	}
	return t, err
}

// ListCategories returns all categories ordered by id.
func (r *SQLiteRepository) ListCategories(ctx context.Context) ([]core.Category, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, icon, COALESCE(mainCategoryId, 0)
		FROM Category
		ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	var out []core.Category
	for rows.Next() {
		var c core.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Icon, &c.MainCategoryID); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// GetCategory returns a category by id.
func (r *SQLiteRepository) GetCategory(ctx context.Context, id int) (core.Category, error) {
	var c core.Category
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, icon, COALESCE(mainCategoryId, 0)
		FROM Category
		WHERE id = ?`, id).Scan(&c.ID, &c.Name, &c.Icon, &c.MainCategoryID)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Category{}, gateway.ErrNotFound
	}
	if err != nil {
		return core.Category{}, fmt.Errorf("get category: %w", err)
	}
	return c, nil
}

// MonthSummary aggregates one calendar month directly in SQL.
func (r *SQLiteRepository) MonthSummary(ctx context.Context, year, month int) (core.MonthSummary, error) {
	sum := core.MonthSummary{Year: year, Month: month}
	prefix := fmt.Sprintf("%04d-%02d-", year, month)

	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COALESCE(SUM(CASE WHEN isExpense = 1 THEN amount_cents ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN isExpense = 0 THEN amount_cents ELSE 0 END), 0)
		FROM Transactions
		WHERE date LIKE ? || '%'`, prefix).
		Scan(&sum.Transactions, &sum.Expense.Cents, &sum.Income.Cents)
	if err != nil {
		return sum, fmt.Errorf("month totals: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT categoryId, category, SUM(amount_cents)
		FROM Transactions
		WHERE date LIKE ? || '%' AND isExpense = 1
		GROUP BY categoryId, category
		ORDER BY SUM(amount_cents) DESC`, prefix)
	if err != nil {
		return sum, fmt.Errorf("month category totals: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var ct core.CategoryTotal
		if err := rows.Scan(&ct.CategoryID, &ct.Name, &ct.Amount.Cents); err != nil {
			return sum, fmt.Errorf("scan category total: %w", err)
		}
		sum.ByCategory = append(sum.ByCategory, ct)
	}
	return sum, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (core.Transaction, error) {
	var (
		t                                      core.Transaction
		dateStr, typ                           string
		isPending, isTransfer, isExp, isEdited int
	)
	err := row.Scan(&t.ID, &dateStr, &t.Institution, &t.Account, &t.Merchant,
		&t.Amount.Cents, &typ, &t.CategoryID, &t.Category,
		&isPending, &isTransfer, &isExp, &isEdited)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.Transaction{}, err
		}
		return core.Transaction{}, fmt.Errorf("scan transaction: %w", err)
	}

	parsed, err := time.Parse(dbDateLayout, dateStr)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("parse stored date %q: %w", dateStr, err)
	}
	t.Date = core.Date{Time: parsed}
	t.Type = core.TransactionType(typ)
	t.IsPending = isPending != 0
	t.IsTransfer = isTransfer != 0
	t.IsExpense = isExp != 0
	t.IsEdited = isEdited != 0
	return t, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
