package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Debit  TransactionType = "debit"
	Credit TransactionType = "credit"
)

type (
	// TransactionType distinguishes money leaving an account from money
	// entering it. It is independent of the category.
	TransactionType string

	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	// Transaction is one posted or pending financial event.
	Transaction struct {
		ID          int
		Date        Date
		Institution string
		Account     string
		Merchant    string
		Amount      Money // magnitude, never negative
		Type        TransactionType
		CategoryID  int
		Category    string // denormalized name, kept in sync with CategoryID
		IsPending   bool
		IsTransfer  bool
		IsExpense   bool
		IsEdited    bool
	}

	// Category is a user-facing classification label, optionally nested
	// under a parent category (MainCategoryID == 0 means top level).
	Category struct {
		ID             int
		Name           string
		Icon           string
		MainCategoryID int
	}
)

var (
	ErrInvalidDate     = errors.New("invalid date")
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrInvalidType     = errors.New("invalid transaction type")
	ErrEmptyMerchant   = errors.New("empty merchant")
	ErrUnknownCategory = errors.New("unknown category")
)

// DateLayout is the wire and display format for dates ("02/16/2022").
const DateLayout = "01/02/2006"

// MonthKeyLayout is the format for month grouping keys ("February 2022").
const MonthKeyLayout = "January 2006"

// NewDate creates a Date at UTC midnight.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses an MM/DD/YYYY string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// String renders the date in wire format.
func (d Date) String() string {
	return d.Format(DateLayout)
}

// MonthKey returns the calendar-month grouping key for the date.
func (d Date) MonthKey() string {
	return d.Format(MonthKeyLayout)
}

// MonthStart returns the first day of the date's month.
func (d Date) MonthStart() Date {
	y, m, _ := d.Date()
	return NewDate(y, int(m), 1)
}

// Next returns the following calendar day.
func (d Date) Next() Date {
	return Date{Time: d.AddDate(0, 0, 1)}
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (t TransactionType) IsValid() bool {
	return t == Debit || t == Credit
}

// TypeForDirection maps the expense/income direction onto a transaction type.
func TypeForDirection(isExpense bool) TransactionType {
	if isExpense {
		return Debit
	}
	return Credit
}

// MonthKey returns the grouping key for the transaction's month.
func (t Transaction) MonthKey() string {
	return t.Date.MonthKey()
}

// SignedCents returns the amount signed by direction: negative for expenses,
// positive otherwise.
func (t Transaction) SignedCents() int64 {
	if t.IsExpense {
		return -t.Amount.Cents
	}
	return t.Amount.Cents
}

func (t Transaction) Validate() error {
	if err := t.Date.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(t.Merchant) == "" {
		return ErrEmptyMerchant
	}
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	if !t.Type.IsValid() {
		return ErrInvalidType
	}
	if t.CategoryID <= 0 {
		return ErrUnknownCategory
	}
	return nil
}
