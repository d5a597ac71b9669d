package handler

// InventorySummary is the view model of the statistics screen
type InventorySummary struct {
	Materials           int
	MaterialCapacity    int
	Active              int
	Expired             int
	UnitsInStock        int
	Transactions        int
	TransactionCapacity int
	NextTransactionID   string
}

// CounterRow is one session counter shown on the statistics screen
type CounterRow struct {
	Name  string
	Value float64
}
