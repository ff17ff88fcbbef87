package core

// DailyBalance is one day's entry in the cumulative spending curve.
type DailyBalance struct {
	Date    Date
	Balance Money
}

// Label returns the MM/DD/YYYY display label for the entry.
func (b DailyBalance) Label() string {
	return b.Date.String()
}

// CumulativeDailyBalance computes the running spending balance for each day
// from the first of asOf's month up to, but not including, asOf. Each day's
// total expense magnitude is subtracted from the sum carried over from the
// previous day, which starts at zero. Transfers flagged IsTransfer are not
// excluded from the total.
//
// The result has one entry per day in [monthStart, asOf), in ascending date
// order. Deterministic for a fixed collection and asOf.
func CumulativeDailyBalance(transactions []Transaction, asOf Date) []DailyBalance {
	if len(transactions) == 0 {
		return nil
	}

	// Index expense totals by day to avoid rescanning the collection per day.
	totals := make(map[string]int64, len(transactions))
	for _, t := range transactions {
		if t.IsExpense {
			totals[t.Date.String()] += t.Amount.Cents
		}
	}

	var sum int64
	var out []DailyBalance
	for day := asOf.MonthStart(); day.Before(asOf.Time); day = day.Next() {
		sum -= totals[day.String()]
		out = append(out, DailyBalance{Date: day, Balance: Money{Cents: sum}})
	}
	return out
}
