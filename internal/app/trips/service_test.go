package trips_test

import (
	"context"
	"errors"
	"testing"
	"time"

	memtripstore "github.com/lifetwin/trip-engine/internal/adapters/memory/tripstore"
	"github.com/lifetwin/trip-engine/internal/app/trips"
	"github.com/lifetwin/trip-engine/internal/domain"
	tripstoreport "github.com/lifetwin/trip-engine/internal/ports/out/tripstore"
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

func seedTrip(t *testing.T, store *memtripstore.Store, phase domain.Phase) {
	t.Helper()
	sd := time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC)
	now := time.Unix(2000, 0).UTC()
	if err := store.Create(context.Background(), tripstoreport.Trip{
		ID:        "t1",
		Owner:     "u1",
		Phase:     phase,
		Title:     "Rome",
		Country:   "Italy",
		City:      "Rome",
		StartDate: &sd,
		Currency:  "EUR",
		Budget:    1000,
		Notes:     "pack light",
		CreatedAt: now,
		UpdatedAt: now,
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}
}

func TestService_UpdateAppliesSpecifiedFieldsOnly(t *testing.T) {
	t.Parallel()

	store := memtripstore.NewStore()
	seedTrip(t, store, domain.PhasePlanning)
	svc := trips.NewService(store, fixedClock{now: time.Unix(3000, 0).UTC()})

	ed := time.Date(2026, 6, 13, 0, 0, 0, 0, time.UTC)
	got, err := svc.Update(context.Background(), "u1", "t1", trips.UpdateTripInput{
		Title:   trips.Some("  Rome in June  "),
		EndDate: trips.Some(ed),
		Budget:  trips.Some(1200.0),
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got.Title != "Rome in June" {
		t.Fatalf("Title=%q", got.Title)
	}
	if got.EndDate == nil || !got.EndDate.Equal(ed) {
		t.Fatalf("EndDate=%v", got.EndDate)
	}
	if got.Budget != 1200 {
		t.Fatalf("Budget=%v", got.Budget)
	}
	// Unspecified fields keep their stored values.
	if got.Destination.City != "Rome" || got.Notes != "pack light" {
		t.Fatalf("got=%+v", got)
	}
}

func TestService_UpdateNullSemantics(t *testing.T) {
	t.Parallel()

	store := memtripstore.NewStore()
	seedTrip(t, store, domain.PhasePlanning)
	svc := trips.NewService(store, fixedClock{now: time.Unix(3000, 0).UTC()})

	// Null clears nullable fields and reverts the end date.
	got, err := svc.Update(context.Background(), "u1", "t1", trips.UpdateTripInput{
		Notes:   trips.Null[string](),
		EndDate: trips.Null[time.Time](),
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got.Notes != "" || got.EndDate != nil {
		t.Fatalf("got=%+v", got)
	}

	// Required fields reject null.
	_, err = svc.Update(context.Background(), "u1", "t1", trips.UpdateTripInput{
		Title:  trips.Null[string](),
		Budget: trips.Null[float64](),
	})
	var ve *domain.ValidationError
	if !errors.As(err, &ve) || len(ve.Unmet) != 2 {
		t.Fatalf("err=%v", err)
	}
}

func TestService_UpdateRejectsNegativeBudget(t *testing.T) {
	t.Parallel()

	store := memtripstore.NewStore()
	seedTrip(t, store, domain.PhasePlanning)
	svc := trips.NewService(store, fixedClock{now: time.Unix(3000, 0).UTC()})

	_, err := svc.Update(context.Background(), "u1", "t1", trips.UpdateTripInput{
		Budget: trips.Some(-1.0),
	})
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("err=%v, want ValidationError", err)
	}
}

func TestService_UpdateRejectedOutsidePlanning(t *testing.T) {
	t.Parallel()

	store := memtripstore.NewStore()
	seedTrip(t, store, domain.PhaseBookings)
	svc := trips.NewService(store, fixedClock{now: time.Unix(3000, 0).UTC()})

	_, err := svc.Update(context.Background(), "u1", "t1", trips.UpdateTripInput{
		Title: trips.Some("New title"),
	})
	var pe *domain.PhaseError
	if !errors.As(err, &pe) {
		t.Fatalf("err=%v, want PhaseError", err)
	}
	if pe.Required != domain.PhasePlanning || pe.Actual != domain.PhaseBookings {
		t.Fatalf("pe=%+v", pe)
	}
}

func TestService_OwnerScoping(t *testing.T) {
	t.Parallel()

	store := memtripstore.NewStore()
	seedTrip(t, store, domain.PhasePlanning)
	svc := trips.NewService(store, fixedClock{now: time.Unix(3000, 0).UTC()})

	if _, err := svc.Get(context.Background(), "someone-else", "t1"); !errors.Is(err, tripstoreport.ErrNotFound) {
		t.Fatalf("err=%v, want ErrNotFound for foreign owner", err)
	}

	list, err := svc.List(context.Background(), "someone-else")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("list=%v", list)
	}
}
