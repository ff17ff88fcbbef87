package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"expensetracker/internal/core"
	"expensetracker/internal/ledger"
	"expensetracker/internal/memory"
)

func newTestServer(t *testing.T) (*Server, *memory.Store) {
	t.Helper()
	repo := memory.NewWithDemoData()
	store := ledger.New(repo)
	if err := store.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}

	s := NewServer(":0", store, repo, nil)
	t.Cleanup(func() { _ = s.Shutdown(context.Background()) })
	return s, repo
}

func doRequest(s *Server, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	s.Server.Handler.ServeHTTP(rec, req)
	return rec
}

func TestListTransactionsWireShape(t *testing.T) {
	s, _ := newTestServer(t)

	rec := doRequest(s, http.MethodGet, "/api", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}

	var wire []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &wire); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(wire) != 25 {
		t.Fatalf("got %d records, want 25", len(wire))
	}

	first := wire[0]
	if first["date"] != "02/16/2022" {
		t.Errorf("first date = %v, want newest first", first["date"])
	}
	// Flags ride as 0/1 integers, not JSON booleans.
	if !strings.Contains(rec.Body.String(), `"isExpense":1`) {
		t.Error("flags not encoded as 0/1 integers")
	}
}

func TestCreateTransaction(t *testing.T) {
	s, _ := newTestServer(t)

	rec := doRequest(s, http.MethodPost, "/api", `{
		"date": "02/20/2022", "merchant": "Metro", "amount": 45.20,
		"type": "debit", "categoryId": 501,
		"isPending": 0, "isTransfer": 0, "isExpense": 1, "isEdited": 0
	}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}

	var resp map[string]int
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp["id"] <= 0 {
		t.Fatalf("id = %d", resp["id"])
	}

	got, ok := s.store.Get(resp["id"])
	if !ok {
		t.Fatal("created transaction missing from store")
	}
	if got.Amount.Cents != 4520 || got.Category != "Groceries" {
		t.Errorf("created = %+v", got)
	}
	if got.Institution != ledger.DefaultInstitution || got.Account != ledger.DefaultAccount {
		t.Errorf("defaults not applied: %q %q", got.Institution, got.Account)
	}
	if s.store.Len() != 26 {
		t.Errorf("store has %d entries, want 26", s.store.Len())
	}
}

// The submitted type must be stored verbatim: the reference data has debit
// rows that are not expenses (credit card payment transfer legs), so the
// type is not derivable from the direction flag.
func TestCreateStoresSubmittedType(t *testing.T) {
	s, _ := newTestServer(t)

	rec := doRequest(s, http.MethodPost, "/api", `{
		"date": "02/21/2022", "merchant": "Credit Card Payment", "amount": 1000,
		"type": "debit", "categoryId": 901,
		"isPending": 0, "isTransfer": 1, "isExpense": 0, "isEdited": 0
	}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}

	var resp map[string]int
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	got, ok := s.store.Get(resp["id"])
	if !ok {
		t.Fatal("created transaction missing from store")
	}
	if got.Type != core.Debit {
		t.Errorf("type = %q, want %q", got.Type, core.Debit)
	}
	if got.IsExpense || !got.IsTransfer {
		t.Errorf("flags not stored as submitted: %+v", got)
	}
}

func TestCreateValidationErrors(t *testing.T) {
	s, _ := newTestServer(t)

	cases := []struct {
		name string
		body string
	}{
		{"empty merchant", `{"date": "02/20/2022", "merchant": "", "amount": 10, "type": "debit", "categoryId": 501, "isPending": 0, "isTransfer": 0, "isExpense": 1, "isEdited": 0}`},
		{"zero amount", `{"date": "02/20/2022", "merchant": "Store", "amount": 0, "type": "debit", "categoryId": 501, "isPending": 0, "isTransfer": 0, "isExpense": 1, "isEdited": 0}`},
		{"negative amount", `{"date": "02/20/2022", "merchant": "Store", "amount": -5, "type": "debit", "categoryId": 501, "isPending": 0, "isTransfer": 0, "isExpense": 1, "isEdited": 0}`},
		{"bad date", `{"date": "2022-02-20", "merchant": "Store", "amount": 10, "type": "debit", "categoryId": 501, "isPending": 0, "isTransfer": 0, "isExpense": 1, "isEdited": 0}`},
		{"unknown category", `{"date": "02/20/2022", "merchant": "Store", "amount": 10, "type": "debit", "categoryId": 9999, "isPending": 0, "isTransfer": 0, "isExpense": 1, "isEdited": 0}`},
		{"bad type", `{"date": "02/20/2022", "merchant": "Store", "amount": 10, "type": "withdrawal", "categoryId": 501, "isPending": 0, "isTransfer": 0, "isExpense": 1, "isEdited": 0}`},
		{"not json", `{{{`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := doRequest(s, http.MethodPost, "/api", tc.body)
			if rec.Code != http.StatusUnprocessableEntity {
				t.Errorf("status = %d, want 422 (body %s)", rec.Code, rec.Body)
			}
		})
	}
	if s.store.Len() != 25 {
		t.Errorf("rejected submissions mutated the store: %d entries", s.store.Len())
	}
}

func TestUpdateCategory(t *testing.T) {
	s, _ := newTestServer(t)

	rec := doRequest(s, http.MethodPut, "/api", `{"id": 2, "categoryId": 501}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}

	got, _ := s.store.Get(2)
	if got.CategoryID != 501 || got.Category != "Groceries" || !got.IsEdited {
		t.Errorf("after update: %+v", got)
	}
}

func TestUpdateCategoryNotFound(t *testing.T) {
	s, _ := newTestServer(t)

	rec := doRequest(s, http.MethodPut, "/api", `{"id": 999, "categoryId": 501}`)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestDeleteTransaction(t *testing.T) {
	s, _ := newTestServer(t)

	rec := doRequest(s, http.MethodDelete, "/api", `{"id": 25}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	if s.store.Len() != 24 {
		t.Errorf("store has %d entries, want 24", s.store.Len())
	}

	rec = doRequest(s, http.MethodDelete, "/api", `{"id": 25}`)
	if rec.Code != http.StatusNotFound {
		t.Errorf("second delete status = %d, want 404", rec.Code)
	}
}

func TestSummaryEndpoint(t *testing.T) {
	s, _ := newTestServer(t)

	rec := doRequest(s, http.MethodGet, "/api/summary?year=2022&month=2", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}

	var resp summaryResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Transactions != 10 {
		t.Errorf("transactions = %d, want 10", resp.Transactions)
	}
	if resp.ExpenseCents != 99178 {
		t.Errorf("expense = %d, want 99178", resp.ExpenseCents)
	}

	// A mutation must invalidate the cached summary.
	doRequest(s, http.MethodDelete, "/api", `{"id": 25}`)
	rec = doRequest(s, http.MethodGet, "/api/summary?year=2022&month=2", "")
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Transactions != 9 {
		t.Errorf("transactions after delete = %d, want 9", resp.Transactions)
	}
}

func TestSummaryRejectsBadParams(t *testing.T) {
	s, _ := newTestServer(t)
	for _, target := range []string{
		"/api/summary",
		"/api/summary?year=2022",
		"/api/summary?year=2022&month=13",
		"/api/summary?year=banana&month=2",
	} {
		if rec := doRequest(s, http.MethodGet, target, ""); rec.Code != http.StatusUnprocessableEntity {
			t.Errorf("%s: status = %d, want 422", target, rec.Code)
		}
	}
}

func TestCategoriesEndpoint(t *testing.T) {
	s, _ := newTestServer(t)

	rec := doRequest(s, http.MethodGet, "/api/categories", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var cats []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &cats); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(cats) != 13 {
		t.Errorf("got %d categories, want 13", len(cats))
	}
}

func TestBalanceEndpoint(t *testing.T) {
	s, _ := newTestServer(t)

	rec := doRequest(s, http.MethodGet, "/api/balance?asOf=02/17/2022", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	var curve []struct {
		Date         string `json:"date"`
		BalanceCents int64  `json:"balanceCents"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &curve); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(curve) != 16 {
		t.Fatalf("got %d entries, want 16 (02/01 through 02/16)", len(curve))
	}
	if curve[0].Date != "02/01/2022" || curve[15].Date != "02/16/2022" {
		t.Errorf("range = %s .. %s", curve[0].Date, curve[15].Date)
	}

	if rec := doRequest(s, http.MethodGet, "/api/balance", ""); rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("missing asOf: status = %d, want 422", rec.Code)
	}
}

func TestHealthAndReadiness(t *testing.T) {
	s, _ := newTestServer(t)

	if rec := doRequest(s, http.MethodGet, "/healthz", ""); rec.Code != http.StatusOK {
		t.Errorf("healthz = %d", rec.Code)
	}
	if rec := doRequest(s, http.MethodGet, "/readyz", ""); rec.Code != http.StatusOK {
		t.Errorf("readyz = %d", rec.Code)
	}
}

func TestSecurityHeadersAndRequestID(t *testing.T) {
	s, _ := newTestServer(t)

	rec := doRequest(s, http.MethodGet, "/api", "")
	if rec.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Error("missing X-Content-Type-Options header")
	}
	if rec.Header().Get("X-Frame-Options") != "DENY" {
		t.Error("missing X-Frame-Options header")
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("missing X-Request-ID header")
	}
}

func TestRateLimitOnMutatingRequests(t *testing.T) {
	s, _ := newTestServer(t)

	var last int
	for i := 0; i < rateLimitPerMinute+1; i++ {
		rec := doRequest(s, http.MethodDelete, "/api", `{"id": 0}`)
		last = rec.Code
	}
	if last != http.StatusTooManyRequests {
		t.Errorf("request %d status = %d, want 429", rateLimitPerMinute+1, last)
	}

	// Reads stay unthrottled.
	if rec := doRequest(s, http.MethodGet, "/api", ""); rec.Code != http.StatusOK {
		t.Errorf("GET after limit = %d, want 200", rec.Code)
	}
}
