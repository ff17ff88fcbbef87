package core

// DefaultCategories is the seed category set. Ids follow the hundred-block
// scheme from the reference data, leaving room for subcategories under each
// block.
func DefaultCategories() []Category {
	return []Category{
		{ID: 101, Name: "Public Transportation"},
		{ID: 102, Name: "Taxi"},
		{ID: 201, Name: "Mobile Phone"},
		{ID: 301, Name: "Movies & DVDs"},
		{ID: 401, Name: "Bank Fee"},
		{ID: 402, Name: "Finance Charge"},
		{ID: 501, Name: "Groceries"},
		{ID: 502, Name: "Restaurants"},
		{ID: 601, Name: "Rent"},
		{ID: 602, Name: "Home Supplies"},
		{ID: 701, Name: "Paycheque"},
		{ID: 801, Name: "Software"},
		{ID: 901, Name: "Credit Card Payment"},
	}
}

// CategoryByID looks a category up in a set by id.
func CategoryByID(categories []Category, id int) (Category, bool) {
	for _, c := range categories {
		if c.ID == id {
			return c, true
		}
	}
	return Category{}, false
}
