// Package postgres implements the persistence gateway on a PostgreSQL
// connection pool.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"expensetracker/internal/core"
	"expensetracker/internal/gateway"
)

type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(ctx context.Context, url string) (*Repository, error) {
	if err := RunMigrations(url); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &Repository{pool: pool}, nil
}

func (r *Repository) Close() error {
	r.pool.Close()
	return nil
}

const transactionColumns = `id, date, institution, account, merchant, amount_cents, type,
	category_id, category, is_pending, is_transfer, is_expense, is_edited`

// FetchAll implements gateway.Gateway.
func (r *Repository) FetchAll(ctx context.Context) ([]core.Transaction, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+transactionColumns+`
		FROM transactions
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

// Insert implements gateway.Gateway. The id comes back from the insert itself.
func (r *Repository) Insert(ctx context.Context, t core.Transaction) (int, error) {
	var id int
	err := r.pool.QueryRow(ctx, `
		INSERT INTO transactions
			(date, institution, account, merchant, amount_cents, type,
			 category_id, category, is_pending, is_transfer, is_expense, is_edited)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id`,
		t.Date.Time, t.Institution, t.Account, t.Merchant,
		t.Amount.Cents, string(t.Type), t.CategoryID, t.Category,
		t.IsPending, t.IsTransfer, t.IsExpense, t.IsEdited).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction saved to Postgres",
		"id", id, "merchant", t.Merchant, "amount_cents", t.Amount.Cents, "date", t.Date.String())
	return id, nil
}

// UpdateCategory implements gateway.Gateway.
func (r *Repository) UpdateCategory(ctx context.Context, id, categoryID int) error {
	if _, err := r.GetCategory(ctx, categoryID); err != nil {
		return err
	}

	tag, err := r.pool.Exec(ctx, `
		UPDATE transactions
		SET category_id = $1,
		    category = (SELECT name FROM category WHERE id = $1),
		    is_edited = TRUE
		WHERE id = $2`, categoryID, id)
	if err != nil {
		return fmt.Errorf("update transaction category: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return gateway.ErrNotFound
	}

	slog.InfoContext(ctx, "Transaction category updated", "id", id, "category_id", categoryID)
	return nil
}

// Delete implements gateway.Gateway.
func (r *Repository) Delete(ctx context.Context, id int) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM transactions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return gateway.ErrNotFound
	}

	slog.InfoContext(ctx, "Transaction deleted", "id", id)
	return nil
}

// GetTransaction retrieves a single transaction by id.
func (r *Repository) GetTransaction(ctx context.Context, id int) (core.Transaction, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+transactionColumns+`
		FROM transactions
		WHERE id = $1`, id)
	t, err := scanTransaction(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return core.Transaction{}, gateway.ErrNotFound
	}
	return t, err
}

// ListCategories returns all categories ordered by id.
func (r *Repository) ListCategories(ctx context.Context) ([]core.Category, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, icon, COALESCE(main_category_id, 0)
		FROM category
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
func (r *Repository) GetCategory(ctx context.Context, id int) (core.Category, error) {
	var c core.Category
	err := r.pool.QueryRow(ctx, `
		SELECT id, name, icon, COALESCE(main_category_id, 0)
		FROM category
		WHERE id = $1`, id).Scan(&c.ID, &c.Name, &c.Icon, &c.MainCategoryID)
	if errors.Is(err, pgx.ErrNoRows) {
		return core.Category{}, gateway.ErrNotFound
	}
	if err != nil {
		return core.Category{}, fmt.Errorf("get category: %w", err)
	}
	return c, nil
}

// MonthSummary aggregates one calendar month directly in SQL.
func (r *Repository) MonthSummary(ctx context.Context, year, month int) (core.MonthSummary, error) {
	sum := core.MonthSummary{Year: year, Month: month}

	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*),
		       COALESCE(SUM(amount_cents) FILTER (WHERE is_expense), 0),
		       COALESCE(SUM(amount_cents) FILTER (WHERE NOT is_expense), 0)
		FROM transactions
		WHERE EXTRACT(YEAR FROM date) = $1 AND EXTRACT(MONTH FROM date) = $2`,
		year, month).
		Scan(&sum.Transactions, &sum.Expense.Cents, &sum.Income.Cents)
	if err != nil {
		return sum, fmt.Errorf("month totals: %w", err)
	}

	rows, err := r.pool.Query(ctx, `
		SELECT category_id, category, SUM(amount_cents)
		FROM transactions
		WHERE EXTRACT(YEAR FROM date) = $1 AND EXTRACT(MONTH FROM date) = $2
		  AND is_expense
		GROUP BY category_id, category
		ORDER BY SUM(amount_cents) DESC`, year, month)
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

func scanTransaction(row pgx.Row) (core.Transaction, error) {
	var (
		t    core.Transaction
		date time.Time
		typ  string
	)
	err := row.Scan(&t.ID, &date, &t.Institution, &t.Account, &t.Merchant,
		&t.Amount.Cents, &typ, &t.CategoryID, &t.Category,
		&t.IsPending, &t.IsTransfer, &t.IsExpense, &t.IsEdited)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return core.Transaction{}, err
		}
		return core.Transaction{}, fmt.Errorf("scan transaction: %w", err)
	}

	t.Date = core.NewDate(date.Year(), int(date.Month()), date.Day())
	t.Type = core.TransactionType(typ)
	return t, nil
}
