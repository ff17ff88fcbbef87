// Package memory provides an in-memory backing store, used as the dev
// backend and by tests.
package memory

import (
	"context"
	"sync"

	"expensetracker/internal/core"
	"expensetracker/internal/gateway"
)

type Store struct {
	mu     sync.Mutex
	nextID int
	txs    []core.Transaction
	cats   []core.Category
}

// New returns a store seeded with the default category set.
func New() *Store {
	return &Store{
		nextID: 1,
		cats:   core.DefaultCategories(),
	}
}

// NewWithDemoData returns a store seeded with categories and the reference
// transaction set.
func NewWithDemoData() *Store {
	s := New()
	s.txs = core.DemoTransactions()
	for _, t := range s.txs {
		if t.ID >= s.nextID {
			s.nextID = t.ID + 1
		}
	}
	return s
}

// FetchAll implements gateway.Gateway.
func (s *Store) FetchAll(_ context.Context) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Transaction, len(s.txs))
	copy(out, s.txs)
	return out, nil
}

// Insert implements gateway.Gateway. The store assigns the id.
func (s *Store) Insert(_ context.Context, t core.Transaction) (int, error) {
	if err := t.Validate(); err != nil {
		return 0, &gateway.PersistenceError{Op: "insert", Err: err}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := core.CategoryByID(s.cats, t.CategoryID); !ok {
		return 0, &gateway.PersistenceError{Op: "insert", Err: core.ErrUnknownCategory}
	}
	t.ID = s.nextID
	s.nextID++
	s.txs = append(s.txs, t)
	return t.ID, nil
}

// UpdateCategory implements gateway.Gateway. The denormalized category name
// and the edited flag move together with the id.
func (s *Store) UpdateCategory(_ context.Context, id, categoryID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cat, ok := core.CategoryByID(s.cats, categoryID)
	if !ok {
		return &gateway.PersistenceError{Op: "update", Err: core.ErrUnknownCategory}
	}
	for i := range s.txs {
		if s.txs[i].ID == id {
			s.txs[i].CategoryID = cat.ID
			s.txs[i].Category = cat.Name
			s.txs[i].IsEdited = true
			return nil
		}
	}
	return gateway.ErrNotFound
}

// Delete implements gateway.Gateway.
func (s *Store) Delete(_ context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.txs {
		if s.txs[i].ID == id {
			s.txs = append(s.txs[:i], s.txs[i+1:]...)
			return nil
		}
	}
	return gateway.ErrNotFound
}

// GetTransaction returns a single transaction by id.
func (s *Store) GetTransaction(_ context.Context, id int) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.txs {
		if t.ID == id {
			return t, nil
		}
	}
	return core.Transaction{}, gateway.ErrNotFound
}

// ListCategories returns the category set.
func (s *Store) ListCategories(_ context.Context) ([]core.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Category, len(s.cats))
	copy(out, s.cats)
	return out, nil
}

// GetCategory returns a category by id.
func (s *Store) GetCategory(_ context.Context, id int) (core.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := core.CategoryByID(s.cats, id); ok {
		return c, nil
	}
	return core.Category{}, gateway.ErrNotFound
}

// MonthSummary aggregates a calendar month.
func (s *Store) MonthSummary(_ context.Context, year, month int) (core.MonthSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sum := core.MonthSummary{Year: year, Month: month}
	byCat := map[int]*core.CategoryTotal{}
	var catOrder []int
	for _, t := range s.txs {
		if t.Date.Year() != year || int(t.Date.Month()) != month {
			continue
		}
		sum.Transactions++
		if t.IsExpense {
			sum.Expense.Cents += t.Amount.Cents
			ct, ok := byCat[t.CategoryID]
			if !ok {
				ct = &core.CategoryTotal{CategoryID: t.CategoryID, Name: t.Category}
				byCat[t.CategoryID] = ct
				catOrder = append(catOrder, t.CategoryID)
			}
			ct.Amount.Cents += t.Amount.Cents
		} else {
			sum.Income.Cents += t.Amount.Cents
		}
	}
	for _, id := range catOrder {
		sum.ByCategory = append(sum.ByCategory, *byCat[id])
	}
	return sum, nil
}

func (s *Store) Close() error { return nil }
