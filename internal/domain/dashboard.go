package domain

import "time"

// DayCost is one line of the dashboard's per-day breakdown.
type DayCost struct {
	Date  time.Time
	Total float64
}

// CategoryCost is one line of the per-activity-category breakdown.
type CategoryCost struct {
	Category ActivityCategory
	Total    float64
}

// CostDashboard is the derived financial summary of a finalized trip.
//
// Every field is reconstructible from the booking ledger and the daily
// registries at generation time; the dashboard is a cache, never a source of
// truth, and regenerating it with unchanged inputs yields an identical value.
type CostDashboard struct {
	Currency string

	HotelTotal    float64
	FlightTotal   float64
	OtherTotal    float64
	ActivityTotal float64

	GrandTotal float64

	Budget float64
	// Variance is Budget minus GrandTotal: positive means under budget.
	Variance float64
	// PercentOfBudget is GrandTotal/Budget * 100. When Budget is zero the
	// ratio is undefined; it is reported as 0 with BudgetUndefined set
	// instead of dividing by zero.
	PercentOfBudget float64
	BudgetUndefined bool

	// DayBreakdown is sorted by date ascending; CategoryBreakdown follows
	// ActivityCategories order with zero-total categories omitted.
	DayBreakdown      []DayCost
	CategoryBreakdown []CategoryCost

	// MaxSpendDay / MaxSpendCategory are nil when there is nothing to rank.
	// Ties resolve to the first seen in scan order.
	MaxSpendDay      *DayCost
	MaxSpendCategory *CategoryCost

	GeneratedAt time.Time
}
