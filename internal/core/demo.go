package core

func demo(id int, date string, account, merchant string, cents int64, typ TransactionType, categoryID int, category string, pending, transfer, expense bool) Transaction {
	d, err := ParseDate(date)
	if err != nil {
		panic("demo: bad date " + date)
	}
	return Transaction{
		ID:          id,
		Date:        d,
		Institution: "Desjardins",
		Account:     account,
		Merchant:    merchant,
		Amount:      Money{Cents: cents},
		Type:        typ,
		CategoryID:  categoryID,
		Category:    category,
		IsPending:   pending,
		IsTransfer:  transfer,
		IsExpense:   expense,
	}
}

// DemoTransactions is the reference data set: 25 transactions spanning
// January 1 to February 16, 2022, already ordered date-descending.
func DemoTransactions() []Transaction {
	const (
		visa     = "Visa Desjardins"
		chequing = "Personal chequing account"
	)
	return []Transaction{
		demo(25, "02/16/2022", visa, "STM", 650, Debit, 101, "Public Transportation", true, false, true),
		demo(24, "02/16/2022", visa, "Copper Branch", 2386, Debit, 502, "Restaurants", false, false, true),
		demo(23, "02/15/2022", chequing, "Payroll", 200000, Credit, 701, "Paycheque", false, false, false),
		demo(22, "02/14/2022", visa, "Interest Charges", 7492, Debit, 402, "Finance Charge", false, false, true),
		demo(21, "02/04/2022", visa, "Uber.com", 1035, Debit, 102, "Taxi", false, false, true),
		demo(20, "02/03/2022", visa, "Payment", 100000, Credit, 901, "Credit Card Payment", false, true, false),
		demo(19, "02/03/2022", chequing, "Bill payment - Desjardins Visa Or Modulo", 100000, Debit, 901, "Credit Card Payment", false, true, false),
		demo(18, "02/02/2022", visa, "Telus Mobility", 6146, Debit, 201, "Mobile Phone", false, false, true),
		demo(17, "02/01/2022", visa, "Amazon", 1469, Debit, 602, "Home Supplies", false, false, true),
		demo(16, "02/01/2022", chequing, "Rent", 80000, Debit, 601, "Rent", false, false, true),
		demo(15, "01/31/2022", chequing, "Costco", 13528, Debit, 501, "Groceries", false, false, true),
		demo(14, "01/31/2022", chequing, "Payroll", 200000, Credit, 701, "Paycheque", false, false, false),
		demo(13, "01/31/2022", chequing, "Fixed service charges", 795, Debit, 401, "Bank Fee", false, false, true),
		demo(12, "01/25/2022", visa, "Uber.com", 1160, Debit, 102, "Taxi", false, false, true),
		demo(11, "01/24/2022", visa, "Apple", 1149, Debit, 801, "Software", false, false, true),
		demo(10, "01/24/2022", visa, "Netflix", 1649, Debit, 301, "Movies & DVDs", false, false, true),
		demo(9, "01/21/2022", visa, "IGA", 5046, Debit, 501, "Groceries", false, false, true),
		demo(8, "01/17/2022", visa, "Interest Charges", 7623, Debit, 402, "Finance Charge", false, false, true),
		demo(7, "01/14/2022", chequing, "Payroll", 200000, Credit, 701, "Paycheque", false, false, false),
		demo(6, "01/07/2022", visa, "Payment", 100000, Credit, 901, "Credit Card Payment", false, true, false),
		demo(5, "01/07/2022", chequing, "Bill payment - Desjardins Visa Or Modulo", 100000, Debit, 901, "Credit Card Payment", false, true, false),
		demo(4, "01/04/2022", visa, "Telus Mobility", 6146, Debit, 201, "Mobile Phone", false, false, true),
		demo(3, "01/04/2022", visa, "Apple", 459, Debit, 801, "Software", false, false, true),
		demo(2, "01/03/2022", visa, "Uber Eats", 5996, Debit, 502, "Restaurants", false, false, true),
		demo(1, "01/01/2022", chequing, "Rent", 80000, Debit, 601, "Rent", false, false, true),
	}
}
