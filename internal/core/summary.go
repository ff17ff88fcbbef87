package core

// CategoryTotal is one category's share of a month's spending.
type CategoryTotal struct {
	CategoryID int
	Name       string
	Amount     Money
}

// MonthSummary aggregates one calendar month for the summary endpoint.
type MonthSummary struct {
	Year         int
	Month        int
	Expense      Money // total debit magnitude where IsExpense
	Income       Money // total credit magnitude
	Transactions int
	ByCategory   []CategoryTotal
}
