package core

// MonthGroup is one calendar month's slice of the collection.
type MonthGroup struct {
	Month        string // e.g. "January 2022"
	Transactions []Transaction
}

// MonthGroups is an ordered set of month buckets. Key order follows first
// occurrence in the input, so a date-descending collection yields the most
// recent month first.
type MonthGroups []MonthGroup

// GroupByMonth partitions transactions into calendar-month buckets. Input
// order is preserved within each bucket. Empty input yields empty groups.
func GroupByMonth(transactions []Transaction) MonthGroups {
	if len(transactions) == 0 {
		return nil
	}
	index := make(map[string]int, 4)
	groups := make(MonthGroups, 0, 4)
	for _, t := range transactions {
		key := t.MonthKey()
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, MonthGroup{Month: key})
		}
		groups[i].Transactions = append(groups[i].Transactions, t)
	}
	return groups
}

// Get returns the bucket for a month key.
func (g MonthGroups) Get(month string) ([]Transaction, bool) {
	for _, mg := range g {
		if mg.Month == month {
			return mg.Transactions, true
		}
	}
	return nil, false
}
