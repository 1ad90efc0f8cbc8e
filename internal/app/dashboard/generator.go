// Package dashboard builds the derived cost summary of a finalized trip by
// reconciling the booking ledger and the daily registries against the
// planned budget.
package dashboard

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/lifetwin/trip-engine/internal/domain"
	"github.com/lifetwin/trip-engine/internal/ports/out/bookingstore"
	"github.com/lifetwin/trip-engine/internal/ports/out/clock"
	"github.com/lifetwin/trip-engine/internal/ports/out/registrystore"
)

// Generator produces cost dashboards. Generation is read-only and
// idempotent: the same ledger and registry contents always yield the same
// dashboard (modulo GeneratedAt, which comes from the injected clock).
type Generator struct {
	bookings   bookingstore.Store
	registries registrystore.Store
	clk        clock.Clock
}

func NewGenerator(bookings bookingstore.Store, registries registrystore.Store, clk clock.Clock) *Generator {
	return &Generator{bookings: bookings, registries: registries, clk: clk}
}

// Generate reconciles all costs of the trip into a dashboard snapshot.
// The trip must be finalized; any earlier phase is a PhaseError, not a
// degraded partial report.
func (g *Generator) Generate(ctx context.Context, trip *domain.Trip) (*domain.CostDashboard, error) {
	if trip.Phase != domain.PhaseFinalized {
		return nil, &domain.PhaseError{Required: domain.PhaseFinalized, Actual: trip.Phase}
	}
	if trip.ID == nil {
		return nil, fmt.Errorf("cannot generate dashboard for unsaved trip")
	}

	bookings, err := g.bookings.ListByTrip(ctx, trip.Owner, *trip.ID)
	if err != nil {
		return nil, fmt.Errorf("load bookings: %w", err)
	}
	registries, err := g.registries.ListByTrip(ctx, trip.Owner, *trip.ID)
	if err != nil {
		return nil, fmt.Errorf("load registries: %w", err)
	}

	return Build(trip, bookings, registries, g.clk.Now()), nil
}

// Build is the pure aggregation core, separated from store access so it can
// be exercised directly in tests and by callers that already hold the data.
func Build(trip *domain.Trip, bookings []domain.Booking, registries []domain.DailyRegistry, now time.Time) *domain.CostDashboard {
	d := &domain.CostDashboard{
		Currency:    trip.Currency,
		Budget:      trip.Budget,
		GeneratedAt: now,
	}

	for _, b := range bookings {
		switch b.Kind {
		case domain.BookingKindHotel:
			d.HotelTotal += b.Amount
		case domain.BookingKindFlight:
			d.FlightTotal += b.Amount
		default:
			d.OtherTotal += b.Amount
		}
	}

	byCategory := make(map[domain.ActivityCategory]float64)
	for _, r := range registries {
		dayTotal := r.TotalCost()
		d.ActivityTotal += dayTotal
		d.DayBreakdown = append(d.DayBreakdown, domain.DayCost{
			Date:  domain.DateOnly(r.Date),
			Total: dayTotal,
		})
		for _, a := range r.Activities {
			byCategory[a.Category] += a.Cost
		}
	}

	// Sort days by date so output ordering never depends on store ordering.
	sort.Slice(d.DayBreakdown, func(i, j int) bool {
		return d.DayBreakdown[i].Date.Before(d.DayBreakdown[j].Date)
	})

	// Categories iterate the closed enum set, keeping output deterministic.
	for _, c := range domain.ActivityCategories {
		if total, ok := byCategory[c]; ok {
			d.CategoryBreakdown = append(d.CategoryBreakdown, domain.CategoryCost{Category: c, Total: total})
		}
	}

	d.GrandTotal = d.HotelTotal + d.FlightTotal + d.OtherTotal + d.ActivityTotal
	d.Variance = d.Budget - d.GrandTotal
	if d.Budget > 0 {
		d.PercentOfBudget = d.GrandTotal / d.Budget * 100
	} else {
		// Percent of a zero budget is undefined; report 0 and flag it
		// rather than dividing by zero.
		d.BudgetUndefined = true
	}

	// Linear max scans; strict > keeps the first-seen entry on ties.
	for i := range d.DayBreakdown {
		if d.MaxSpendDay == nil || d.DayBreakdown[i].Total > d.MaxSpendDay.Total {
			d.MaxSpendDay = &d.DayBreakdown[i]
		}
	}
	for i := range d.CategoryBreakdown {
		if d.MaxSpendCategory == nil || d.CategoryBreakdown[i].Total > d.MaxSpendCategory.Total {
			d.MaxSpendCategory = &d.CategoryBreakdown[i]
		}
	}

	return d
}
