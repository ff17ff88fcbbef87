// Package remote implements the persistence gateway against the /api wire
// protocol of a remote transaction service.
//
// The wire shape is JSON with boolean flags transmitted as 0/1 integers,
// dates as MM/DD/YYYY strings and amounts as decimal numbers. Decoding is
// schema-validated and fails fast on missing or malformed required fields
// instead of substituting defaults.
package remote

import (
	"encoding/json"
	"fmt"
	"strconv"

	"expensetracker/internal/core"
)

// IntBool is a boolean carried as 0/1 on the wire. Plain JSON booleans are
// accepted on input for interoperability.
type IntBool bool

func (b IntBool) MarshalJSON() ([]byte, error) {
	if b {
		return []byte("1"), nil
	}
	return []byte("0"), nil
}

func (b *IntBool) UnmarshalJSON(data []byte) error {
	switch string(data) {
	case "0", "false":
		*b = false
	case "1", "true":
		*b = true
	default:
		return fmt.Errorf("invalid boolean flag %q", data)
	}
	return nil
}

// WireTransaction is the JSON shape exchanged with the /api endpoint.
type WireTransaction struct {
	ID          int         `json:"id,omitempty"`
	Date        string      `json:"date"`
	Institution string      `json:"institution"`
	Account     string      `json:"account"`
	Merchant    string      `json:"merchant"`
	Amount      json.Number `json:"amount"`
	Type        string      `json:"type"`
	CategoryID  int         `json:"categoryId"`
	Category    string      `json:"category"`
	IsPending   IntBool     `json:"isPending"`
	IsTransfer  IntBool     `json:"isTransfer"`
	IsExpense   IntBool     `json:"isExpense"`
	IsEdited    IntBool     `json:"isEdited"`
}

// Encode converts a domain transaction to its wire shape.
func Encode(t core.Transaction) WireTransaction {
	return WireTransaction{
		ID:          t.ID,
		Date:        t.Date.String(),
		Institution: t.Institution,
		Account:     t.Account,
		Merchant:    t.Merchant,
		Amount:      json.Number(strconv.FormatFloat(t.Amount.Float(), 'f', 2, 64)),
		Type:        string(t.Type),
		CategoryID:  t.CategoryID,
		Category:    t.Category,
		IsPending:   IntBool(t.IsPending),
		IsTransfer:  IntBool(t.IsTransfer),
		IsExpense:   IntBool(t.IsExpense),
		IsEdited:    IntBool(t.IsEdited),
	}
}

// Decode validates the wire shape and converts it to a domain transaction.
// requireID rejects records without an id, which every fetched record must
// carry.
func (w WireTransaction) Decode(requireID bool) (core.Transaction, error) {
	if requireID && w.ID <= 0 {
		return core.Transaction{}, fmt.Errorf("missing transaction id")
	}

	date, err := core.ParseDate(w.Date)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("field date %q: %w", w.Date, err)
	}

	cents, err := core.ParseDecimalToCents(w.Amount.String())
	if err != nil {
		return core.Transaction{}, fmt.Errorf("field amount %q: %w", w.Amount, err)
	}

	t := core.Transaction{
		ID:          w.ID,
		Date:        date,
		Institution: w.Institution,
		Account:     w.Account,
		Merchant:    w.Merchant,
		Amount:      core.Money{Cents: cents},
		Type:        core.TransactionType(w.Type),
		CategoryID:  w.CategoryID,
		Category:    w.Category,
		IsPending:   bool(w.IsPending),
		IsTransfer:  bool(w.IsTransfer),
		IsExpense:   bool(w.IsExpense),
		IsEdited:    bool(w.IsEdited),
	}
	if err := t.Validate(); err != nil {
		return core.Transaction{}, fmt.Errorf("invalid transaction record: %w", err)
	}
	return t, nil
}
