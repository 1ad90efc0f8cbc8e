package domain_test

import (
	"testing"
	"time"

	"github.com/lifetwin/trip-engine/internal/domain"
)

func TestActivity_Validate(t *testing.T) {
	t.Parallel()

	good := domain.Activity{
		Name:     "Uffizi",
		Category: domain.ActivityMuseum,
		Place:    "Florence",
		Cost:     25,
	}
	if unmet := good.Validate(); len(unmet) != 0 {
		t.Fatalf("unmet=%v", unmet)
	}

	bad := domain.Activity{Category: domain.ActivityCategory("SPA"), Cost: -1}
	unmet := bad.Validate()
	if len(unmet) != 4 {
		t.Fatalf("unmet=%v, want name, category, place, and cost failures", unmet)
	}

	rating := 6
	rated := good
	rated.Rating = &rating
	if unmet := rated.Validate(); len(unmet) != 1 {
		t.Fatalf("unmet=%v, want rating bound failure", unmet)
	}
	rating = 5
	if unmet := rated.Validate(); len(unmet) != 0 {
		t.Fatalf("unmet=%v, rating 5 is legal", unmet)
	}
}

func TestDailyRegistry_TotalCostDerivedFromActivities(t *testing.T) {
	t.Parallel()

	r := domain.DailyRegistry{
		Date: time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC),
		Activities: []domain.Activity{
			{Name: "Lunch", Category: domain.ActivityMeal, Place: "Trastevere", Cost: 30},
			{Name: "Colosseum", Category: domain.ActivityTour, Place: "Rome", Cost: 45},
		},
	}
	if got := r.TotalCost(); got != 75 {
		t.Fatalf("TotalCost=%v, want 75", got)
	}

	r.Activities = nil
	if got := r.TotalCost(); got != 0 {
		t.Fatalf("TotalCost=%v after clearing activities, want 0", got)
	}
}

func TestBooking_Validate(t *testing.T) {
	t.Parallel()

	b := domain.Booking{Kind: domain.BookingKindHotel, Amount: 400}
	if unmet := b.Validate(); len(unmet) != 0 {
		t.Fatalf("unmet=%v", unmet)
	}

	b = domain.Booking{Kind: domain.BookingKind("CRUISE"), Amount: -10}
	if unmet := b.Validate(); len(unmet) != 2 {
		t.Fatalf("unmet=%v, want kind and amount failures", unmet)
	}
}
