package phases_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	membookingstore "github.com/lifetwin/trip-engine/internal/adapters/memory/bookingstore"
	memregistrystore "github.com/lifetwin/trip-engine/internal/adapters/memory/registrystore"
	memtripstore "github.com/lifetwin/trip-engine/internal/adapters/memory/tripstore"
	"github.com/lifetwin/trip-engine/internal/app/dashboard"
	"github.com/lifetwin/trip-engine/internal/app/ledger"
	"github.com/lifetwin/trip-engine/internal/app/phases"
	"github.com/lifetwin/trip-engine/internal/app/registry"
	"github.com/lifetwin/trip-engine/internal/domain"
)

// TestFullTripLifecycle walks one trip through all four phases against the
// real services and in-memory stores, then checks the reconciled dashboard.
func TestFullTripLifecycle(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	trips := memtripstore.NewStore()
	bookings := membookingstore.NewStore()
	registries := memregistrystore.NewStore()
	clk := fixedClock{now: time.Date(2026, 7, 1, 12, 0, 0, 0, time.UTC)}
	log := zerolog.Nop()

	gen := dashboard.NewGenerator(bookings, registries, clk)
	ctrl := phases.NewController(trips, bookings, registries, gen, clk, log)
	ctrl.SetNewTripIDForTest(func() domain.TripID { return "trip-rome" })
	ledgerSvc := ledger.NewService(bookings, clk)
	regSvc := registry.NewService(registries, trips, clk, log)

	const owner = domain.OwnerID("u1")

	// Planning: fill in the trip, 4 days in Rome, budget 1000.
	trip := domain.NewPlanningTrip(owner)
	trip.Title = "Rome"
	trip.Destination = domain.Destination{Country: "Italy", City: "Rome"}
	sd := time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC)
	ed := sd.AddDate(0, 0, 3)
	trip.StartDate, trip.EndDate = &sd, &ed
	trip.Currency = "EUR"
	trip.Budget = 1000

	trip, err := ctrl.AdvancePhase(ctx, trip, domain.PhaseBookings)
	require.NoError(t, err)
	require.NotNil(t, trip.ID)
	require.Equal(t, domain.PhaseBookings, trip.Phase)

	// Bookings: one hotel for 400.
	_, err = ledgerSvc.Add(ctx, owner, *trip.ID, domain.Booking{
		Kind:     domain.BookingKindHotel,
		Amount:   400,
		Currency: "EUR",
		Provider: "Hotel Forum",
	})
	require.NoError(t, err)

	trip, err = ctrl.AdvancePhase(ctx, trip, domain.PhaseInProgress)
	require.NoError(t, err)

	// In progress: registries for 3 of 4 days totaling 250.
	costs := []float64{100, 80, 70}
	for i, c := range costs {
		_, err = regSvc.Upsert(ctx, owner, *trip.ID, sd.AddDate(0, 0, i), []domain.Activity{
			{Name: "Day plan", Category: domain.ActivityTour, Place: "Rome", Cost: c},
		}, "")
		require.NoError(t, err)
	}

	trip, err = ctrl.AdvancePhase(ctx, trip, domain.PhaseFinalized)
	require.NoError(t, err)
	require.Equal(t, domain.PhaseFinalized, trip.Phase)

	d := trip.Dashboard
	require.NotNil(t, d)
	require.Equal(t, 400.0, d.HotelTotal)
	require.Equal(t, 250.0, d.ActivityTotal)
	require.Equal(t, 650.0, d.GrandTotal)
	require.Equal(t, 350.0, d.Variance)
	require.InDelta(t, 65.0, d.PercentOfBudget, 1e-9)
	require.False(t, d.BudgetUndefined)

	require.Len(t, d.DayBreakdown, 3)
	require.Equal(t, 100.0, d.DayBreakdown[0].Total)
	require.NotNil(t, d.MaxSpendDay)
	require.Equal(t, 100.0, d.MaxSpendDay.Total)

	// Regeneration with unchanged inputs yields the same dashboard.
	again, err := gen.Generate(ctx, trip)
	require.NoError(t, err)
	require.Equal(t, d, again)
}
