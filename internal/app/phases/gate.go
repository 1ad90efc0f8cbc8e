// Package phases owns the trip lifecycle: the gate predicates that decide
// whether a trip may leave its current phase, and the controller that
// executes validated transitions against the trip store.
package phases

import (
	"fmt"

	"github.com/lifetwin/trip-engine/internal/domain"
)

// GateResult is the outcome of a gate predicate. When OK is false, Unmet
// lists every failed condition so callers can render actionable feedback
// instead of a bare rejection.
type GateResult struct {
	OK    bool
	Unmet []string
}

func gateResult(unmet []string) GateResult {
	return GateResult{OK: len(unmet) == 0, Unmet: unmet}
}

// BookingCounts summarizes the ledger for the bookings gate.
type BookingCounts struct {
	Hotels  int
	Flights int
	Other   int
}

// CanLeavePlanning reports whether the trip may advance out of planning:
// title, country, city, and start date set, planned budget positive.
func CanLeavePlanning(t *domain.Trip) GateResult {
	var unmet []string
	if t.Title == "" {
		unmet = append(unmet, "title must be set")
	}
	if t.Destination.Country == "" {
		unmet = append(unmet, "destination country must be set")
	}
	if t.Destination.City == "" {
		unmet = append(unmet, "destination city must be set")
	}
	if t.StartDate == nil {
		unmet = append(unmet, "start date must be set")
	}
	if t.Budget <= 0 {
		unmet = append(unmet, "planned budget must be greater than zero")
	}
	return gateResult(unmet)
}

// CanLeaveBookings reports whether the trip may advance out of the bookings
// phase: at least one hotel or one flight booking. Other bookings (tours,
// insurance, transport) count toward costs but not toward this minimum.
func CanLeaveBookings(c BookingCounts) GateResult {
	if c.Hotels > 0 || c.Flights > 0 {
		return GateResult{OK: true}
	}
	return gateResult([]string{"at least one hotel or flight booking is required"})
}

// CanLeaveInProgress reports whether the trip may be finalized: daily
// registries must exist for at least half of the trip's calendar dates,
// rounded up.
func CanLeaveInProgress(t *domain.Trip, registeredDates int) GateResult {
	rng, ok := domain.TripDateRange(t)
	if !ok {
		return gateResult([]string{"start date must be set"})
	}
	need := (rng.Len() + 1) / 2 // ceil(0.5 * days)
	if registeredDates >= need {
		return GateResult{OK: true}
	}
	return gateResult([]string{fmt.Sprintf(
		"daily registries exist for %d of %d days; at least %d required",
		registeredDates, rng.Len(), need)})
}
