package core

import "testing"

func TestCumulativeDailyBalanceEmpty(t *testing.T) {
	if got := CumulativeDailyBalance(nil, NewDate(2022, 2, 17)); len(got) != 0 {
		t.Fatalf("expected empty result, got %d entries", len(got))
	}
}

func TestCumulativeDailyBalanceRange(t *testing.T) {
	input := []Transaction{
		tx(1, NewDate(2022, 2, 1), "Rent", 80000, true),
	}
	got := CumulativeDailyBalance(input, NewDate(2022, 2, 17))
	// Half-open range [02/01, 02/17): sixteen days, asOf excluded.
	if len(got) != 16 {
		t.Fatalf("expected 16 entries, got %d", len(got))
	}
	if got[0].Label() != "02/01/2022" {
		t.Fatalf("unexpected first label %q", got[0].Label())
	}
	if got[15].Label() != "02/16/2022" {
		t.Fatalf("unexpected last label %q", got[15].Label())
	}
}

func TestCumulativeDailyBalanceRecurrence(t *testing.T) {
	input := []Transaction{
		tx(4, NewDate(2022, 2, 3), "Amazon", 1469, true),
		tx(3, NewDate(2022, 2, 3), "Telus", 6146, true),
		tx(2, NewDate(2022, 2, 2), "Payroll", 200000, false), // income, ignored
		tx(1, NewDate(2022, 2, 1), "Rent", 80000, true),
	}
	got := CumulativeDailyBalance(input, NewDate(2022, 2, 5))
	if len(got) != 4 {
		t.Fatalf("expected 4 entries, got %d", len(got))
	}

	// Day 1: -800.00
	if got[0].Balance.Cents != -80000 {
		t.Fatalf("day 1 balance %d", got[0].Balance.Cents)
	}
	// Day 2: only income posted, balance unchanged.
	if got[1].Balance.Cents != got[0].Balance.Cents {
		t.Fatalf("day 2 should be unchanged, got %d", got[1].Balance.Cents)
	}
	// Day 3: minus both expenses.
	if want := got[1].Balance.Cents - 1469 - 6146; got[2].Balance.Cents != want {
		t.Fatalf("day 3 expected %d, got %d", want, got[2].Balance.Cents)
	}
	// Day 4: no expenses, carried forward.
	if got[3].Balance.Cents != got[2].Balance.Cents {
		t.Fatalf("day 4 should carry forward, got %d", got[3].Balance.Cents)
	}
}

func TestCumulativeDailyBalanceIncludesTransfers(t *testing.T) {
	// Transfers are flagged but intentionally not filtered out of the
	// daily expense total.
	transfer := tx(1, NewDate(2022, 2, 3), "Bill payment", 100000, true)
	transfer.IsTransfer = true
	got := CumulativeDailyBalance([]Transaction{transfer}, NewDate(2022, 2, 5))
	if got[2].Balance.Cents != -100000 {
		t.Fatalf("transfer expense should count, got %d", got[2].Balance.Cents)
	}
}
