// Package ledger owns the authoritative in-memory transaction collection and
// keeps it synchronized with a backing store through the persistence gateway.
package ledger

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"expensetracker/internal/core"
	"expensetracker/internal/gateway"
)

// Defaults applied when an AddRequest leaves the source fields blank,
// matching the reference client's quick-add form.
const (
	DefaultInstitution = "Bank"
	DefaultAccount     = "Checking"
)

// EventPublisher receives change notifications after a mutation has been
// committed. Publishing is best effort: a failure is logged and never fails
// the mutation.
type EventPublisher interface {
	PublishTransactionEvent(ctx context.Context, action string, id int) error
}

// Event actions.
const (
	ActionCreated         = "created"
	ActionCategoryChanged = "category_changed"
	ActionDeleted         = "deleted"
)

// AddRequest carries a validated user submission.
type AddRequest struct {
	Date        core.Date
	Merchant    string
	Amount      core.Money
	Category    core.Category
	// Type is stored as submitted when present; when empty it is derived
	// from IsExpense. Debit rows with IsExpense=false exist (transfer legs).
	Type        core.TransactionType
	IsExpense   bool
	IsPending   bool
	IsTransfer  bool
	Institution string
	Account     string
}

// Validate checks the request before any I/O happens.
func (r AddRequest) Validate() error {
	if strings.TrimSpace(r.Merchant) == "" {
		return core.ErrEmptyMerchant
	}
	if err := r.Amount.Validate(); err != nil {
		return err
	}
	if err := r.Date.Validate(); err != nil {
		return err
	}
	if r.Type != "" && !r.Type.IsValid() {
		return core.ErrInvalidType
	}
	if r.Category.ID <= 0 {
		return core.ErrUnknownCategory
	}
	return nil
}

// Store is the single source of truth for the current transaction
// collection. Every mutation is serialized: the submit-to-gateway then
// apply-to-memory sequence of one mutation never interleaves with another.
// Reads take a snapshot and never block behind gateway I/O.
type Store struct {
	gw     gateway.Gateway
	events EventPublisher
	logger *slog.Logger

	opMu sync.Mutex   // serializes whole mutations, held across gateway calls
	mu   sync.RWMutex // guards txs for snapshot reads
	txs  []core.Transaction
}

// Option configures a Store.
type Option func(*Store)

// WithEventPublisher attaches a change-event publisher.
func WithEventPublisher(p EventPublisher) Option {
	return func(s *Store) { s.events = p }
}

// WithLogger overrides the default logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

func New(gw gateway.Gateway, opts ...Option) *Store {
	s := &Store{gw: gw, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load replaces the collection with the backing store's committed state,
// sorted by date descending. On failure the collection is left as it was.
func (s *Store) Load(ctx context.Context) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	txs, err := s.gw.FetchAll(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "Load failed", "error", err)
		return &gateway.PersistenceError{Op: "fetch", Err: err}
	}
	sortByDateDesc(txs)

	s.mu.Lock()
	s.txs = txs
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "Transactions loaded", "count", len(txs))
	return nil
}

// Add validates the request, inserts it through the gateway, and appends the
// stored transaction with its authoritative id. Validation failures perform
// no I/O; gateway failures leave the collection untouched.
func (s *Store) Add(ctx context.Context, req AddRequest) (core.Transaction, error) {
	if err := req.Validate(); err != nil {
		return core.Transaction{}, err
	}

	typ := req.Type
	if typ == "" {
		typ = core.TypeForDirection(req.IsExpense)
	}

	t := core.Transaction{
		Date:        req.Date,
		Institution: req.Institution,
		Account:     req.Account,
		Merchant:    strings.TrimSpace(req.Merchant),
		Amount:      req.Amount,
		Type:        typ,
		CategoryID:  req.Category.ID,
		Category:    req.Category.Name,
		IsExpense:   req.IsExpense,
		IsPending:   req.IsPending,
		IsTransfer:  req.IsTransfer,
	}
	if t.Institution == "" {
		t.Institution = DefaultInstitution
	}
	if t.Account == "" {
		t.Account = DefaultAccount
	}

	s.opMu.Lock()
	defer s.opMu.Unlock()

	id, err := s.gw.Insert(ctx, t)
	if err != nil {
		s.logger.ErrorContext(ctx, "Insert failed", "merchant", t.Merchant, "error", err)
		return core.Transaction{}, asPersistence("insert", err)
	}
	t.ID = id

	s.mu.Lock()
	s.txs = append(s.txs, t)
	sortByDateDesc(s.txs)
	s.mu.Unlock()

	s.publish(ctx, ActionCreated, id)
	s.logger.InfoContext(ctx, "Transaction added",
		"id", id, "merchant", t.Merchant, "amount_cents", t.Amount.Cents, "date", t.Date.String())
	return t, nil
}

// UpdateCategory reassigns a transaction's category. Selecting the current
// category is a no-op. The id, the denormalized name, and the edited flag are
// updated together, never independently.
func (s *Store) UpdateCategory(ctx context.Context, id int, category core.Category) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return gateway.ErrNotFound
	}
	s.mu.RLock()
	current := s.txs[i].CategoryID
	s.mu.RUnlock()
	if current == category.ID {
		return nil
	}

	if err := s.gw.UpdateCategory(ctx, id, category.ID); err != nil {
		s.logger.ErrorContext(ctx, "Category update failed", "id", id, "category_id", category.ID, "error", err)
		return asPersistence("update", err)
	}

	s.mu.Lock()
	s.txs[i].CategoryID = category.ID
	s.txs[i].Category = category.Name
	s.txs[i].IsEdited = true
	s.mu.Unlock()

	s.publish(ctx, ActionCategoryChanged, id)
	s.logger.InfoContext(ctx, "Transaction recategorized", "id", id, "category_id", category.ID, "category", category.Name)
	return nil
}

// Delete removes a transaction, backing store first. Deleting an absent id
// is a no-op failure, and a gateway failure keeps the entry in place.
func (s *Store) Delete(ctx context.Context, id int) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return gateway.ErrNotFound
	}

	if err := s.gw.Delete(ctx, id); err != nil {
		s.logger.ErrorContext(ctx, "Delete failed", "id", id, "error", err)
		return asPersistence("delete", err)
	}

	s.mu.Lock()
	s.txs = append(s.txs[:i], s.txs[i+1:]...)
	s.mu.Unlock()

	s.publish(ctx, ActionDeleted, id)
	s.logger.InfoContext(ctx, "Transaction deleted", "id", id)
	return nil
}

// Snapshot returns a copy of the current collection.
func (s *Store) Snapshot() []core.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.Transaction, len(s.txs))
	copy(out, s.txs)
	return out
}

// Len returns the current collection size.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.txs)
}

// Get returns a transaction by id from the current snapshot.
func (s *Store) Get(id int) (core.Transaction, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, t := range s.txs {
		if t.ID == id {
			return t, true
		}
	}
	return core.Transaction{}, false
}

// GroupedByMonth groups the current snapshot into calendar-month buckets.
func (s *Store) GroupedByMonth() core.MonthGroups {
	return core.GroupByMonth(s.Snapshot())
}

// DailyBalance computes the cumulative spending curve for asOf's month over
// the current snapshot.
func (s *Store) DailyBalance(asOf core.Date) []core.DailyBalance {
	return core.CumulativeDailyBalance(s.Snapshot(), asOf)
}

// indexOf scans for an id. Linear on purpose: the collection is bounded by
// personal-transaction volume.
func (s *Store) indexOf(id int) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.txs {
		if s.txs[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) publish(ctx context.Context, action string, id int) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishTransactionEvent(ctx, action, id); err != nil {
		s.logger.WarnContext(ctx, "Event publish failed", "action", action, "id", id, "error", err)
	}
}

// sortByDateDesc stable-sorts newest first, preserving store return order for
// equal dates.
func sortByDateDesc(txs []core.Transaction) {
	sort.SliceStable(txs, func(i, j int) bool {
		return txs[i].Date.After(txs[j].Date.Time)
	})
}

// asPersistence classifies a gateway failure, passing through not-found and
// already-wrapped errors.
func asPersistence(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gateway.ErrNotFound) {
		return err
	}
	var pe *gateway.PersistenceError
	if errors.As(err, &pe) {
		return err
	}
	return &gateway.PersistenceError{Op: op, Err: err}
}
