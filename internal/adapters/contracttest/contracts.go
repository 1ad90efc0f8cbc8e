// Package contracttest holds store contract suites shared by every adapter.
// The memory and postgres implementations must be observably identical; any
// behavior asserted here is part of the port contract, not an adapter quirk.
package contracttest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/lifetwin/trip-engine/internal/domain"
	bookingstoreport "github.com/lifetwin/trip-engine/internal/ports/out/bookingstore"
	registrystoreport "github.com/lifetwin/trip-engine/internal/ports/out/registrystore"
	tripstoreport "github.com/lifetwin/trip-engine/internal/ports/out/tripstore"
)

type CleanupFunc = func()

type TripStoreFactory func(t *testing.T) (tripstoreport.Store, CleanupFunc)
type BookingStoreFactory func(t *testing.T) (bookingstoreport.Store, CleanupFunc)
type RegistryStoreFactory func(t *testing.T) (registrystoreport.Store, CleanupFunc)

func newTrip(owner domain.OwnerID, start time.Time, days int) tripstoreport.Trip {
	now := time.Unix(1000, 0).UTC()
	ed := start.AddDate(0, 0, days-1)
	return tripstoreport.Trip{
		ID:        domain.TripID(uuid.NewString()),
		Owner:     owner,
		Phase:     domain.PhasePlanning,
		Title:     "Rome",
		Country:   "Italy",
		City:      "Rome",
		StartDate: &start,
		EndDate:   &ed,
		Currency:  "EUR",
		Budget:    1000,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func seedTrip(t *testing.T, store tripstoreport.Store, owner domain.OwnerID) domain.TripID {
	t.Helper()
	rec := newTrip(owner, time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC), 4)
	if err := store.Create(context.Background(), rec); err != nil {
		t.Fatalf("seed trip: %v", err)
	}
	return rec.ID
}

func RunTripStore(t *testing.T, newStore TripStoreFactory) {
	t.Helper()
	ctx := context.Background()

	store, cleanup := newStore(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	start := time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC)
	rec := newTrip("owner-a", start, 4)
	if err := store.Create(ctx, rec); err != nil {
		t.Fatalf("Create: %v", err)
	}

	// Duplicate identity is rejected.
	if err := store.Create(ctx, rec); !errors.Is(err, tripstoreport.ErrAlreadyExists) {
		t.Fatalf("duplicate Create err=%v, want ErrAlreadyExists", err)
	}

	// A missing identity is its own condition, not a conflict.
	blank := newTrip("owner-a", start, 1)
	blank.ID = ""
	if err := store.Create(ctx, blank); !errors.Is(err, tripstoreport.ErrInvalidID) {
		t.Fatalf("blank-id Create err=%v, want ErrInvalidID", err)
	}

	got, err := store.GetByID(ctx, "owner-a", rec.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Title != "Rome" || got.Phase != domain.PhasePlanning || got.Budget != 1000 {
		t.Fatalf("got=%+v", got)
	}
	if got.StartDate == nil || !domain.SameDate(*got.StartDate, start) {
		t.Fatalf("StartDate=%v", got.StartDate)
	}

	// Owner scoping: a foreign owner sees nothing.
	if _, err := store.GetByID(ctx, "owner-b", rec.ID); !errors.Is(err, tripstoreport.ErrNotFound) {
		t.Fatalf("foreign GetByID err=%v, want ErrNotFound", err)
	}

	// ListByOwner orders by start date ascending, nil dates last.
	later := newTrip("owner-a", start.AddDate(0, 0, 30), 2)
	if err := store.Create(ctx, later); err != nil {
		t.Fatalf("Create later: %v", err)
	}
	undated := newTrip("owner-a", start, 1)
	undated.StartDate, undated.EndDate = nil, nil
	if err := store.Create(ctx, undated); err != nil {
		t.Fatalf("Create undated: %v", err)
	}
	list, err := store.ListByOwner(ctx, "owner-a")
	if err != nil {
		t.Fatalf("ListByOwner: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("len=%d, want 3", len(list))
	}
	if list[0].ID != rec.ID || list[1].ID != later.ID || list[2].ID != undated.ID {
		t.Fatalf("order=%v,%v,%v", list[0].ID, list[1].ID, list[2].ID)
	}

	// Save writes descriptive fields but never the phase.
	upd := got
	upd.Title = "Rome in June"
	upd.Phase = domain.PhaseFinalized // must be ignored
	upd.UpdatedAt = time.Unix(2000, 0).UTC()
	saved, err := store.Save(ctx, upd)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if saved.Title != "Rome in June" {
		t.Fatalf("Title=%q", saved.Title)
	}
	if saved.Phase != domain.PhasePlanning {
		t.Fatalf("Save must not change phase, got %s", saved.Phase)
	}

	// UpdatePhase is the only phase write path.
	after, err := store.UpdatePhase(ctx, "owner-a", rec.ID, domain.PhaseBookings)
	if err != nil {
		t.Fatalf("UpdatePhase: %v", err)
	}
	if after.Phase != domain.PhaseBookings || after.Title != "Rome in June" {
		t.Fatalf("after=%+v", after)
	}
	if _, err := store.UpdatePhase(ctx, "owner-b", rec.ID, domain.PhaseInProgress); !errors.Is(err, tripstoreport.ErrNotFound) {
		t.Fatalf("foreign UpdatePhase err=%v, want ErrNotFound", err)
	}
	if _, err := store.UpdatePhase(ctx, "owner-a", domain.TripID(uuid.NewString()), domain.PhaseBookings); !errors.Is(err, tripstoreport.ErrNotFound) {
		t.Fatalf("unknown UpdatePhase err=%v, want ErrNotFound", err)
	}
}

func RunBookingStore(t *testing.T, newTrips TripStoreFactory, newStore BookingStoreFactory) {
	t.Helper()
	ctx := context.Background()

	trips, cleanup := newTrips(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}
	store, cleanup := newStore(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	tripID := seedTrip(t, trips, "owner-a")
	base := time.Unix(5000, 0).UTC()

	add := func(kind domain.BookingKind, amount float64, at time.Time) domain.Booking {
		b := domain.Booking{
			ID:        domain.BookingID(uuid.NewString()),
			Kind:      kind,
			Amount:    amount,
			Currency:  "EUR",
			Provider:  "Provider",
			CreatedAt: at,
		}
		if _, err := store.Add(ctx, "owner-a", tripID, b); err != nil {
			t.Fatalf("Add %s: %v", kind, err)
		}
		return b
	}

	other := add(domain.BookingKindOther, 60, base)
	flight := add(domain.BookingKindFlight, 220, base.Add(time.Minute))
	hotel := add(domain.BookingKindHotel, 400, base.Add(2*time.Minute))

	// Listing orders by kind (hotel, flight, other) then creation time.
	bs, err := store.ListByTrip(ctx, "owner-a", tripID)
	if err != nil {
		t.Fatalf("ListByTrip: %v", err)
	}
	if len(bs) != 3 {
		t.Fatalf("len=%d, want 3", len(bs))
	}
	if bs[0].ID != hotel.ID || bs[1].ID != flight.ID || bs[2].ID != other.ID {
		t.Fatalf("order=%v,%v,%v", bs[0].Kind, bs[1].Kind, bs[2].Kind)
	}

	// Foreign owner sees an empty ledger.
	bs, err = store.ListByTrip(ctx, "owner-b", tripID)
	if err != nil {
		t.Fatalf("foreign ListByTrip: %v", err)
	}
	if len(bs) != 0 {
		t.Fatalf("foreign len=%d, want 0", len(bs))
	}

	// Remove is idempotent.
	if err := store.Remove(ctx, "owner-a", tripID, flight.ID); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if err := store.Remove(ctx, "owner-a", tripID, flight.ID); err != nil {
		t.Fatalf("Remove again: %v", err)
	}
	bs, _ = store.ListByTrip(ctx, "owner-a", tripID)
	if len(bs) != 2 {
		t.Fatalf("len=%d after removal, want 2", len(bs))
	}
}

func RunRegistryStore(t *testing.T, newTrips TripStoreFactory, newStore RegistryStoreFactory) {
	t.Helper()
	ctx := context.Background()

	trips, cleanup := newTrips(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}
	store, cleanup := newStore(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	tripID := seedTrip(t, trips, "owner-a")
	day0 := time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC)
	now := time.Unix(5000, 0).UTC()

	reg := domain.DailyRegistry{
		Date: day0,
		Activities: []domain.Activity{
			{Name: "Lunch", Category: domain.ActivityMeal, Place: "Rome", Cost: 30},
		},
		Notes:     "first day",
		UpdatedAt: now,
	}
	if _, err := store.Put(ctx, "owner-a", tripID, reg); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, err := store.GetByDate(ctx, "owner-a", tripID, day0)
	if err != nil {
		t.Fatalf("GetByDate: %v", err)
	}
	if len(got.Activities) != 1 || got.Activities[0].Name != "Lunch" || got.Notes != "first day" {
		t.Fatalf("got=%+v", got)
	}

	// Put on the same date replaces, never appends.
	reg.Activities = []domain.Activity{
		{Name: "Dinner", Category: domain.ActivityMeal, Place: "Rome", Cost: 45},
		{Name: "Museum", Category: domain.ActivityMuseum, Place: "Rome", Cost: 25},
	}
	if _, err := store.Put(ctx, "owner-a", tripID, reg); err != nil {
		t.Fatalf("Put replace: %v", err)
	}
	got, _ = store.GetByDate(ctx, "owner-a", tripID, day0)
	if len(got.Activities) != 2 || got.TotalCost() != 70 {
		t.Fatalf("got=%+v", got)
	}

	// Missing dates are ErrNotFound.
	if _, err := store.GetByDate(ctx, "owner-a", tripID, day0.AddDate(0, 0, 1)); !errors.Is(err, registrystoreport.ErrNotFound) {
		t.Fatalf("err=%v, want ErrNotFound", err)
	}

	// Listing orders by date; count matches the number of distinct dates.
	later := domain.DailyRegistry{Date: day0.AddDate(0, 0, 2), UpdatedAt: now}
	if _, err := store.Put(ctx, "owner-a", tripID, later); err != nil {
		t.Fatalf("Put later: %v", err)
	}
	list, err := store.ListByTrip(ctx, "owner-a", tripID)
	if err != nil {
		t.Fatalf("ListByTrip: %v", err)
	}
	if len(list) != 2 || !domain.SameDate(list[0].Date, day0) {
		t.Fatalf("list=%+v", list)
	}
	n, err := store.CountByTrip(ctx, "owner-a", tripID)
	if err != nil {
		t.Fatalf("CountByTrip: %v", err)
	}
	if n != 2 {
		t.Fatalf("count=%d, want 2", n)
	}
}
