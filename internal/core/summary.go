package core

// CategoryAmount represents a subtotal sum aggregated by category name.
type CategoryAmount struct {
	Name   string
	Amount Money
}

// MonthOverview is a compact summary for a 1-12 month: the accumulated
// subtotal plus the per-category breakdown. Recomputed from store contents on
// demand, never cached.
type MonthOverview struct {
	Month      int
	Total      Money
	ByCategory []CategoryAmount
}
