package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"expensetracker/internal/core"
	"expensetracker/internal/gateway"
	"expensetracker/internal/ledger"
	applog "expensetracker/internal/log"
	"expensetracker/internal/remote"
)

func (s *Server) handleAPI(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handleList(w, r)
	case http.MethodPost:
		s.handleCreate(w, r)
	case http.MethodPut:
		s.handleUpdateCategory(w, r)
	case http.MethodDelete:
		s.handleDelete(w, r)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	txs := s.store.Snapshot()
	wire := make([]remote.WireTransaction, 0, len(txs))
	for _, t := range txs {
		wire = append(wire, remote.Encode(t))
	}
	writeJSON(w, http.StatusOK, wire)
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := applog.FromContext(ctx)

	var body remote.WireTransaction
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "malformed JSON body: "+err.Error(), http.StatusUnprocessableEntity)
		return
	}

	date, err := core.ParseDate(body.Date)
	if err != nil {
		http.Error(w, fmt.Sprintf("invalid date %q", body.Date), http.StatusUnprocessableEntity)
		return
	}
	cents, err := core.ParseDecimalToCents(body.Amount.String())
	if err != nil {
		http.Error(w, fmt.Sprintf("invalid amount %q", body.Amount), http.StatusUnprocessableEntity)
		return
	}

	cat, err := s.repo.GetCategory(ctx, body.CategoryID)
	if err != nil {
		if errors.Is(err, gateway.ErrNotFound) {
			http.Error(w, fmt.Sprintf("unknown category %d", body.CategoryID), http.StatusUnprocessableEntity)
			return
		}
		s.serverError(w, r, "category lookup failed", err)
		return
	}

	t, err := s.store.Add(ctx, ledger.AddRequest{
		Date:        date,
		Merchant:    body.Merchant,
		Amount:      core.Money{Cents: cents},
		Category:    cat,
		Type:        core.TransactionType(body.Type),
		IsExpense:   bool(body.IsExpense),
		IsPending:   bool(body.IsPending),
		IsTransfer:  bool(body.IsTransfer),
		Institution: body.Institution,
		Account:     body.Account,
	})
	if err != nil {
		if isValidationError(err) {
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}
		s.serverError(w, r, "insert failed", err)
		return
	}

	s.summaryCache.Purge()
	logger.InfoContext(ctx, "Transaction created",
		applog.FieldTransaction, t.ID,
		applog.FieldMerchant, t.Merchant,
		applog.FieldAmountCents, t.Amount.Cents)
	writeJSON(w, http.StatusOK, map[string]int{"id": t.ID})
}

func (s *Server) handleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var body struct {
		ID         int `json:"id"`
		CategoryID int `json:"categoryId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "malformed JSON body: "+err.Error(), http.StatusUnprocessableEntity)
		return
	}

	cat, err := s.repo.GetCategory(ctx, body.CategoryID)
	if err != nil {
		if errors.Is(err, gateway.ErrNotFound) {
			http.Error(w, fmt.Sprintf("unknown category %d", body.CategoryID), http.StatusUnprocessableEntity)
			return
		}
		s.serverError(w, r, "category lookup failed", err)
		return
	}

	if err := s.store.UpdateCategory(ctx, body.ID, cat); err != nil {
		if errors.Is(err, gateway.ErrNotFound) {
			http.Error(w, fmt.Sprintf("no transaction with id %d", body.ID), http.StatusNotFound)
			return
		}
		s.serverError(w, r, "category update failed", err)
		return
	}

	s.summaryCache.Purge()
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var body struct {
		ID int `json:"id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "malformed JSON body: "+err.Error(), http.StatusUnprocessableEntity)
		return
	}

	if err := s.store.Delete(ctx, body.ID); err != nil {
		if errors.Is(err, gateway.ErrNotFound) {
			http.Error(w, fmt.Sprintf("no transaction with id %d", body.ID), http.StatusNotFound)
			return
		}
		s.serverError(w, r, "delete failed", err)
		return
	}

	s.summaryCache.Purge()
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type summaryResponse struct {
	Year         int                  `json:"year"`
	Month        int                  `json:"month"`
	ExpenseCents int64                `json:"expenseCents"`
	IncomeCents  int64                `json:"incomeCents"`
	Transactions int                  `json:"transactions"`
	ByCategory   []categoryTotalEntry `json:"byCategory"`
}

type categoryTotalEntry struct {
	CategoryID  int    `json:"categoryId"`
	Name        string `json:"name"`
	AmountCents int64  `json:"amountCents"`
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	ctx := r.Context()
	logger := applog.FromContext(ctx)

	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil || year < 1970 || year > 9999 {
		http.Error(w, "invalid or missing year", http.StatusUnprocessableEntity)
		return
	}
	month, err := strconv.Atoi(r.URL.Query().Get("month"))
	if err != nil || month < 1 || month > 12 {
		http.Error(w, "invalid or missing month", http.StatusUnprocessableEntity)
		return
	}

	key := fmt.Sprintf("%04d-%02d", year, month)
	sum, ok := s.summaryCache.Get(key)
	if !ok {
		sum, err = s.repo.MonthSummary(ctx, year, month)
		if err != nil {
			s.serverError(w, r, "month summary failed", err)
			return
		}
		s.summaryCache.Set(key, sum)
		logger.DebugContext(ctx, "Summary cached",
			applog.FieldYear, year, applog.FieldMonth, month)
	}

	resp := summaryResponse{
		Year:         sum.Year,
		Month:        sum.Month,
		ExpenseCents: sum.Expense.Cents,
		IncomeCents:  sum.Income.Cents,
		Transactions: sum.Transactions,
		ByCategory:   make([]categoryTotalEntry, 0, len(sum.ByCategory)),
	}
	for _, ct := range sum.ByCategory {
		resp.ByCategory = append(resp.ByCategory, categoryTotalEntry{
			CategoryID:  ct.CategoryID,
			Name:        ct.Name,
			AmountCents: ct.Amount.Cents,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	cats, err := s.repo.ListCategories(r.Context())
	if err != nil {
		s.serverError(w, r, "category list failed", err)
		return
	}

	type categoryEntry struct {
		ID             int    `json:"id"`
		Name           string `json:"name"`
		Icon           string `json:"icon"`
		MainCategoryID int    `json:"mainCategoryId"`
	}
	out := make([]categoryEntry, 0, len(cats))
	for _, c := range cats {
		out = append(out, categoryEntry{c.ID, c.Name, c.Icon, c.MainCategoryID})
	}
	writeJSON(w, http.StatusOK, out)
}

// handleBalance serves the cumulative daily balance curve the mobile client
// renders as the month's spending trend.
func (s *Server) handleBalance(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	asOfParam := r.URL.Query().Get("asOf")
	if asOfParam == "" {
		http.Error(w, "missing asOf parameter (MM/DD/YYYY)", http.StatusUnprocessableEntity)
		return
	}
	asOf, err := core.ParseDate(asOfParam)
	if err != nil {
		http.Error(w, fmt.Sprintf("invalid asOf date %q", asOfParam), http.StatusUnprocessableEntity)
		return
	}

	type balanceEntry struct {
		Date         string `json:"date"`
		BalanceCents int64  `json:"balanceCents"`
	}
	curve := s.store.DailyBalance(asOf)
	out := make([]balanceEntry, 0, len(curve))
	for _, p := range curve {
		out = append(out, balanceEntry{Date: p.Date.String(), BalanceCents: p.Balance.Cents})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) serverError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	applog.FromContext(r.Context()).ErrorContext(r.Context(), msg, applog.FieldError, err)
	http.Error(w, "operation failed", http.StatusInternalServerError)
}

func isValidationError(err error) bool {
	return errors.Is(err, core.ErrEmptyMerchant) ||
		errors.Is(err, core.ErrInvalidAmount) ||
		errors.Is(err, core.ErrInvalidDate) ||
		errors.Is(err, core.ErrInvalidType) ||
		errors.Is(err, core.ErrUnknownCategory)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
