package domain

import "time"

// Destination is where a trip goes. Both fields must be set before the trip
// can leave the planning phase.
type Destination struct {
	Country string
	City    string
}

// Trip is the aggregate root of the lifecycle engine.
//
// ID is nil while the trip exists only client-side ("placeholder" trip).
// Materialization (obtaining a durable identity from the store) happens on
// the Planning→Bookings transition and is modeled as presence of ID, never as
// a magic id prefix.
type Trip struct {
	ID    *TripID
	Owner OwnerID

	Phase       Phase
	Title       string
	Destination Destination

	// StartDate is required before leaving planning; EndDate nil means a
	// single-day trip. Both carry date-only semantics (UTC midnight).
	StartDate *time.Time
	EndDate   *time.Time

	Currency string
	// Budget is the planned spend in the trip's currency. Must be > 0 to
	// leave planning.
	Budget float64

	Notes string

	// Dashboard caches the last generated cost dashboard. It is derived
	// state only: the ledger and registries remain the source of truth.
	Dashboard *CostDashboard

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Materialized reports whether the trip has a durable store identity.
func (t *Trip) Materialized() bool { return t.ID != nil }

// NewPlanningTrip returns a placeholder trip in the planning phase, owned by
// owner, with zero budget and empty destination.
func NewPlanningTrip(owner OwnerID) *Trip {
	return &Trip{
		Owner: owner,
		Phase: PhasePlanning,
	}
}
