package dashboard_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	membookingstore "github.com/lifetwin/trip-engine/internal/adapters/memory/bookingstore"
	memregistrystore "github.com/lifetwin/trip-engine/internal/adapters/memory/registrystore"
	"github.com/lifetwin/trip-engine/internal/app/dashboard"
	"github.com/lifetwin/trip-engine/internal/domain"
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

var genNow = time.Date(2026, 7, 1, 12, 0, 0, 0, time.UTC)

func finalizedTrip(budget float64) *domain.Trip {
	id := domain.TripID("t1")
	sd := time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC)
	ed := sd.AddDate(0, 0, 3)
	return &domain.Trip{
		ID:          &id,
		Owner:       "u1",
		Phase:       domain.PhaseFinalized,
		Title:       "Rome",
		Destination: domain.Destination{Country: "Italy", City: "Rome"},
		StartDate:   &sd,
		EndDate:     &ed,
		Currency:    "EUR",
		Budget:      budget,
	}
}

func day(offset int) time.Time {
	return time.Date(2026, 6, 10+offset, 0, 0, 0, 0, time.UTC)
}

func TestBuild_ReconcilesAllSources(t *testing.T) {
	t.Parallel()

	trip := finalizedTrip(1000)
	bookings := []domain.Booking{
		{ID: "b1", Kind: domain.BookingKindHotel, Amount: 400},
		{ID: "b2", Kind: domain.BookingKindFlight, Amount: 220},
		{ID: "b3", Kind: domain.BookingKindOther, Amount: 60},
	}
	registries := []domain.DailyRegistry{
		{Date: day(1), Activities: []domain.Activity{
			{Name: "Museum", Category: domain.ActivityMuseum, Place: "Rome", Cost: 50},
			{Name: "Lunch", Category: domain.ActivityMeal, Place: "Rome", Cost: 30},
		}},
		{Date: day(0), Activities: []domain.Activity{
			{Name: "Dinner", Category: domain.ActivityMeal, Place: "Rome", Cost: 40},
		}},
	}

	d := dashboard.Build(trip, bookings, registries, genNow)

	assert.Equal(t, 400.0, d.HotelTotal)
	assert.Equal(t, 220.0, d.FlightTotal)
	assert.Equal(t, 60.0, d.OtherTotal)
	assert.Equal(t, 120.0, d.ActivityTotal)
	assert.Equal(t, 800.0, d.GrandTotal)
	assert.Equal(t, 200.0, d.Variance)
	assert.InDelta(t, 80.0, d.PercentOfBudget, 1e-9)
	assert.False(t, d.BudgetUndefined)

	// Days sorted by date regardless of input order.
	require.Len(t, d.DayBreakdown, 2)
	assert.Equal(t, day(0), d.DayBreakdown[0].Date)
	assert.Equal(t, 40.0, d.DayBreakdown[0].Total)
	assert.Equal(t, 80.0, d.DayBreakdown[1].Total)

	// Categories in enum order, zero-total categories omitted.
	require.Len(t, d.CategoryBreakdown, 2)
	assert.Equal(t, domain.ActivityMeal, d.CategoryBreakdown[0].Category)
	assert.Equal(t, 70.0, d.CategoryBreakdown[0].Total)
	assert.Equal(t, domain.ActivityMuseum, d.CategoryBreakdown[1].Category)

	require.NotNil(t, d.MaxSpendDay)
	assert.Equal(t, day(1), d.MaxSpendDay.Date)
	require.NotNil(t, d.MaxSpendCategory)
	assert.Equal(t, domain.ActivityMeal, d.MaxSpendCategory.Category)
}

func TestBuild_Deterministic(t *testing.T) {
	t.Parallel()

	trip := finalizedTrip(1000)
	bookings := []domain.Booking{{ID: "b1", Kind: domain.BookingKindHotel, Amount: 400}}
	registries := []domain.DailyRegistry{
		{Date: day(0), Activities: []domain.Activity{
			{Name: "Walk", Category: domain.ActivityTour, Place: "Rome", Cost: 20},
		}},
	}

	first := dashboard.Build(trip, bookings, registries, genNow)
	second := dashboard.Build(trip, bookings, registries, genNow)
	assert.Equal(t, first, second)
}

func TestBuild_ZeroBudgetFlagged(t *testing.T) {
	t.Parallel()

	d := dashboard.Build(finalizedTrip(0), []domain.Booking{
		{ID: "b1", Kind: domain.BookingKindHotel, Amount: 400},
	}, nil, genNow)

	assert.True(t, d.BudgetUndefined)
	assert.Zero(t, d.PercentOfBudget)
	assert.Equal(t, -400.0, d.Variance)
}

func TestBuild_EmptyInputs(t *testing.T) {
	t.Parallel()

	d := dashboard.Build(finalizedTrip(1000), nil, nil, genNow)

	assert.Zero(t, d.GrandTotal)
	assert.Equal(t, 1000.0, d.Variance)
	assert.Nil(t, d.MaxSpendDay)
	assert.Nil(t, d.MaxSpendCategory)
	assert.Empty(t, d.DayBreakdown)
	assert.Empty(t, d.CategoryBreakdown)
}

func TestBuild_MaxSpendTieKeepsFirstSeen(t *testing.T) {
	t.Parallel()

	registries := []domain.DailyRegistry{
		{Date: day(0), Activities: []domain.Activity{
			{Name: "A", Category: domain.ActivityMeal, Place: "Rome", Cost: 50},
		}},
		{Date: day(1), Activities: []domain.Activity{
			{Name: "B", Category: domain.ActivityTour, Place: "Rome", Cost: 50},
		}},
	}
	d := dashboard.Build(finalizedTrip(1000), nil, registries, genNow)

	// Tied day totals: the earlier date wins. Tied category totals: the
	// earlier enum entry wins (MEAL precedes TOUR).
	require.NotNil(t, d.MaxSpendDay)
	assert.Equal(t, day(0), d.MaxSpendDay.Date)
	require.NotNil(t, d.MaxSpendCategory)
	assert.Equal(t, domain.ActivityMeal, d.MaxSpendCategory.Category)
}

func TestGenerate_RequiresFinalizedPhase(t *testing.T) {
	t.Parallel()

	gen := dashboard.NewGenerator(membookingstore.NewStore(), memregistrystore.NewStore(), fixedClock{now: genNow})

	trip := finalizedTrip(1000)
	trip.Phase = domain.PhaseInProgress

	_, err := gen.Generate(context.Background(), trip)
	var pe *domain.PhaseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, domain.PhaseFinalized, pe.Required)
	assert.Equal(t, domain.PhaseInProgress, pe.Actual)
}

func TestGenerate_RequiresMaterializedTrip(t *testing.T) {
	t.Parallel()

	gen := dashboard.NewGenerator(membookingstore.NewStore(), memregistrystore.NewStore(), fixedClock{now: genNow})

	trip := finalizedTrip(1000)
	trip.ID = nil

	_, err := gen.Generate(context.Background(), trip)
	require.Error(t, err)
	var pe *domain.PhaseError
	assert.False(t, errors.As(err, &pe))
}
