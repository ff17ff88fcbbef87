package core

import (
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("02/16/2022")
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if d.Year() != 2022 || d.Month() != time.February || d.Day() != 16 {
		t.Fatalf("unexpected date %v", d)
	}
	if got := d.String(); got != "02/16/2022" {
		t.Fatalf("round trip mismatch: %q", got)
	}

	for _, bad := range []string{"", "2022-02-16", "13/01/2022", "garbage"} {
		if _, err := ParseDate(bad); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}

func TestDateMonthKey(t *testing.T) {
	if got := NewDate(2022, 1, 31).MonthKey(); got != "January 2022" {
		t.Fatalf("unexpected month key %q", got)
	}
	if got := NewDate(2022, 2, 1).MonthKey(); got != "February 2022" {
		t.Fatalf("unexpected month key %q", got)
	}
}

func TestDateMonthStartAndNext(t *testing.T) {
	d := NewDate(2022, 2, 17)
	if got := d.MonthStart(); !got.Equal(NewDate(2022, 2, 1).Time) {
		t.Fatalf("unexpected month start %v", got)
	}
	if got := NewDate(2022, 1, 31).Next(); !got.Equal(NewDate(2022, 2, 1).Time) {
		t.Fatalf("unexpected next day %v", got)
	}
}

func TestMoneyValidate(t *testing.T) {
	if err := (Money{Cents: 1}).Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (Money{Cents: 0}).Validate(); err == nil {
		t.Fatalf("expected error for zero")
	}
	if err := (Money{Cents: -100}).Validate(); err == nil {
		t.Fatalf("expected error for negative")
	}
}

func TestTransactionValidate(t *testing.T) {
	good := Transaction{
		Date:       NewDate(2022, 2, 16),
		Merchant:   "STM",
		Amount:     Money{Cents: 650},
		Type:       Debit,
		CategoryID: 101,
		Category:   "Public Transportation",
		IsExpense:  true,
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	cases := []struct {
		name string
		mut  func(*Transaction)
		want error
	}{
		{"zero date", func(tx *Transaction) { tx.Date = Date{} }, ErrInvalidDate},
		{"empty merchant", func(tx *Transaction) { tx.Merchant = "  " }, ErrEmptyMerchant},
		{"zero amount", func(tx *Transaction) { tx.Amount = Money{} }, ErrInvalidAmount},
		{"no category", func(tx *Transaction) { tx.CategoryID = 0 }, ErrUnknownCategory},
	}
	for _, tc := range cases {
		tx := good
		tc.mut(&tx)
		if err := tx.Validate(); err != tc.want {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}
}

func TestSignedCents(t *testing.T) {
	expense := Transaction{Amount: Money{Cents: 650}, IsExpense: true}
	if got := expense.SignedCents(); got != -650 {
		t.Fatalf("expected -650, got %d", got)
	}
	income := Transaction{Amount: Money{Cents: 200000}}
	if got := income.SignedCents(); got != 200000 {
		t.Fatalf("expected 200000, got %d", got)
	}
}

func TestTypeForDirection(t *testing.T) {
	if TypeForDirection(true) != Debit {
		t.Fatalf("expense should map to debit")
	}
	if TypeForDirection(false) != Credit {
		t.Fatalf("income should map to credit")
	}
}

func TestCategoryByID(t *testing.T) {
	cats := DefaultCategories()
	c, ok := CategoryByID(cats, 502)
	if !ok || c.Name != "Restaurants" {
		t.Fatalf("unexpected lookup result %+v %v", c, ok)
	}
	if _, ok := CategoryByID(cats, 999); ok {
		t.Fatalf("expected miss for unknown id")
	}
}
