package phases_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	membookingstore "github.com/lifetwin/trip-engine/internal/adapters/memory/bookingstore"
	memregistrystore "github.com/lifetwin/trip-engine/internal/adapters/memory/registrystore"
	memtripstore "github.com/lifetwin/trip-engine/internal/adapters/memory/tripstore"
	"github.com/lifetwin/trip-engine/internal/app/dashboard"
	"github.com/lifetwin/trip-engine/internal/app/phases"
	"github.com/lifetwin/trip-engine/internal/domain"
	"github.com/lifetwin/trip-engine/internal/ports/out/tripstore"
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

// flakyTripStore fails UpdatePhase a configured number of times before
// delegating to the wrapped store.
type flakyTripStore struct {
	tripstore.Store
	failures int
	failWith error
	calls    int
}

func (f *flakyTripStore) UpdatePhase(ctx context.Context, owner domain.OwnerID, id domain.TripID, phase domain.Phase) (tripstore.Trip, error) {
	f.calls++
	if f.calls <= f.failures {
		return tripstore.Trip{}, f.failWith
	}
	return f.Store.UpdatePhase(ctx, owner, id, phase)
}

type controllerFixture struct {
	trips      tripstore.Store
	bookings   *membookingstore.Store
	registries *memregistrystore.Store
	ctrl       *phases.Controller
	clk        fixedClock
}

func newControllerFixture(t *testing.T, trips tripstore.Store) *controllerFixture {
	t.Helper()
	if trips == nil {
		trips = memtripstore.NewStore()
	}
	bookings := membookingstore.NewStore()
	registries := memregistrystore.NewStore()
	clk := fixedClock{now: time.Unix(1000, 0).UTC()}
	gen := dashboard.NewGenerator(bookings, registries, clk)
	ctrl := phases.NewController(trips, bookings, registries, gen, clk, zerolog.Nop())
	ctrl.SetNewTripIDForTest(func() domain.TripID { return "t1" })
	return &controllerFixture{trips: trips, bookings: bookings, registries: registries, ctrl: ctrl, clk: clk}
}

func TestController_MaterializesOnLeavingPlanning(t *testing.T) {
	t.Parallel()

	fx := newControllerFixture(t, nil)
	trip := plannedTrip()

	out, err := fx.ctrl.AdvancePhase(context.Background(), trip, domain.PhaseBookings)
	if err != nil {
		t.Fatalf("AdvancePhase: %v", err)
	}
	if out.ID == nil || *out.ID != "t1" {
		t.Fatalf("out.ID=%v, want materialized identity", out.ID)
	}
	if out.Phase != domain.PhaseBookings {
		t.Fatalf("phase=%s", out.Phase)
	}
	// The caller's placeholder is never mutated.
	if trip.ID != nil || trip.Phase != domain.PhasePlanning {
		t.Fatalf("input trip mutated: %+v", trip)
	}

	stored, err := fx.trips.GetByID(context.Background(), "u1", "t1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if stored.Phase != domain.PhaseBookings {
		t.Fatalf("stored phase=%s", stored.Phase)
	}
}

func TestController_RejectsPhaseSkip(t *testing.T) {
	t.Parallel()

	fx := newControllerFixture(t, nil)
	trip := plannedTrip()

	for _, target := range []domain.Phase{domain.PhaseInProgress, domain.PhaseFinalized, domain.PhasePlanning} {
		_, err := fx.ctrl.AdvancePhase(context.Background(), trip, target)
		var ite *domain.InvalidTransitionError
		if !errors.As(err, &ite) {
			t.Fatalf("target=%s err=%v, want InvalidTransitionError", target, err)
		}
	}
}

func TestController_RejectsUnsavedTripPastPlanning(t *testing.T) {
	t.Parallel()

	fx := newControllerFixture(t, nil)

	// A trip that was never materialized cannot legitimately be in a later
	// phase; the controller must refuse before consulting any store.
	for _, phase := range []domain.Phase{domain.PhaseBookings, domain.PhaseInProgress} {
		trip := plannedTrip()
		trip.Phase = phase
		next, _ := phase.Next()

		_, err := fx.ctrl.AdvancePhase(context.Background(), trip, next)
		var ite *domain.InvalidTransitionError
		if !errors.As(err, &ite) {
			t.Fatalf("phase=%s err=%v, want InvalidTransitionError", phase, err)
		}
		if ite.From != phase || ite.To != next {
			t.Fatalf("transition reported as %s->%s, want %s->%s", ite.From, ite.To, phase, next)
		}
	}
}

func TestController_RejectsAdvanceFromFinalized(t *testing.T) {
	t.Parallel()

	fx := newControllerFixture(t, nil)
	trip := seedStoredTrip(t, fx, domain.PhaseFinalized, 4)

	_, err := fx.ctrl.AdvancePhase(context.Background(), trip, domain.PhaseFinalized)
	var ite *domain.InvalidTransitionError
	if !errors.As(err, &ite) {
		t.Fatalf("err=%v, want InvalidTransitionError", err)
	}
}

func TestController_GateFailureWritesNothing(t *testing.T) {
	t.Parallel()

	fx := newControllerFixture(t, nil)
	trip := plannedTrip()
	trip.Budget = 0 // fails the planning gate

	_, err := fx.ctrl.AdvancePhase(context.Background(), trip, domain.PhaseBookings)
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("err=%v, want ValidationError", err)
	}

	// Nothing was materialized: gate checks precede all store writes.
	list, err := fx.trips.ListByOwner(context.Background(), "u1")
	if err != nil {
		t.Fatalf("ListByOwner: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("trips=%v, want empty store", list)
	}
}

func TestController_BookingsGateCountsOnlyHotelsAndFlights(t *testing.T) {
	t.Parallel()

	fx := newControllerFixture(t, nil)
	trip := seedStoredTrip(t, fx, domain.PhaseBookings, 4)

	addBooking(t, fx, *trip.ID, domain.BookingKindOther, 120)
	_, err := fx.ctrl.AdvancePhase(context.Background(), trip, domain.PhaseInProgress)
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("err=%v, want gate failure with only an other booking", err)
	}

	addBooking(t, fx, *trip.ID, domain.BookingKindFlight, 300)
	out, err := fx.ctrl.AdvancePhase(context.Background(), trip, domain.PhaseInProgress)
	if err != nil {
		t.Fatalf("AdvancePhase: %v", err)
	}
	if out.Phase != domain.PhaseInProgress {
		t.Fatalf("phase=%s", out.Phase)
	}
}

func TestController_InProgressGateNeedsHalfCoverage(t *testing.T) {
	t.Parallel()

	fx := newControllerFixture(t, nil)
	trip := seedStoredTrip(t, fx, domain.PhaseInProgress, 4) // needs 2 of 4 days

	putRegistry(t, fx, *trip.ID, trip.StartDate.AddDate(0, 0, 0), 30)

	_, err := fx.ctrl.AdvancePhase(context.Background(), trip, domain.PhaseFinalized)
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("err=%v, want gate failure at 1 of 4 days", err)
	}

	putRegistry(t, fx, *trip.ID, trip.StartDate.AddDate(0, 0, 1), 45)
	out, err := fx.ctrl.AdvancePhase(context.Background(), trip, domain.PhaseFinalized)
	if err != nil {
		t.Fatalf("AdvancePhase: %v", err)
	}
	if out.Phase != domain.PhaseFinalized {
		t.Fatalf("phase=%s", out.Phase)
	}
	if out.Dashboard == nil {
		t.Fatalf("expected dashboard attached on finalization")
	}
	if out.Dashboard.ActivityTotal != 75 {
		t.Fatalf("ActivityTotal=%v, want 75", out.Dashboard.ActivityTotal)
	}
}

func TestController_StoreFailureLeavesPhaseUnchanged(t *testing.T) {
	t.Parallel()

	boom := errors.New("disk on fire")
	flaky := &flakyTripStore{Store: memtripstore.NewStore(), failures: 100, failWith: boom}
	fx := newControllerFixture(t, flaky)
	trip := seedStoredTrip(t, fx, domain.PhaseBookings, 4)
	addBooking(t, fx, *trip.ID, domain.BookingKindHotel, 400)

	_, err := fx.ctrl.AdvancePhase(context.Background(), trip, domain.PhaseInProgress)
	if !errors.Is(err, boom) {
		t.Fatalf("err=%v, want store failure surfaced", err)
	}
	// The caller's view still reflects the pre-transition phase.
	if trip.Phase != domain.PhaseBookings {
		t.Fatalf("phase=%s, want BOOKINGS", trip.Phase)
	}
	// Only one write attempt: a deterministic failure is not retried.
	if flaky.calls != 1 {
		t.Fatalf("calls=%d, want 1", flaky.calls)
	}
}

func TestController_MaterializationRetriesTransientPhaseWrite(t *testing.T) {
	t.Parallel()

	flaky := &flakyTripStore{
		Store:    memtripstore.NewStore(),
		failures: 2,
		failWith: tripstore.Transient(errors.New("connection reset")),
	}
	fx := newControllerFixture(t, flaky)

	out, err := fx.ctrl.AdvancePhase(context.Background(), plannedTrip(), domain.PhaseBookings)
	if err != nil {
		t.Fatalf("AdvancePhase: %v", err)
	}
	if out.Phase != domain.PhaseBookings {
		t.Fatalf("phase=%s", out.Phase)
	}
	if flaky.calls != 3 {
		t.Fatalf("calls=%d, want 2 transient failures then success", flaky.calls)
	}
}

func TestController_MaterializationPartialFailureReturnsCreatedTrip(t *testing.T) {
	t.Parallel()

	boom := errors.New("constraint violation")
	flaky := &flakyTripStore{Store: memtripstore.NewStore(), failures: 100, failWith: boom}
	fx := newControllerFixture(t, flaky)

	out, err := fx.ctrl.AdvancePhase(context.Background(), plannedTrip(), domain.PhaseBookings)
	if !errors.Is(err, boom) {
		t.Fatalf("err=%v, want phase-write failure", err)
	}
	// The durable identity comes back alongside the error so the caller
	// retries the transition instead of creating a duplicate trip.
	if out == nil || out.ID == nil || *out.ID != "t1" {
		t.Fatalf("out=%+v, want created trip returned with the error", out)
	}
	if out.Phase != domain.PhasePlanning {
		t.Fatalf("phase=%s, want still PLANNING", out.Phase)
	}
	// Deterministic failure: single attempt, no retries.
	if flaky.calls != 1 {
		t.Fatalf("calls=%d, want 1", flaky.calls)
	}

	// Retrying with the returned trip reuses the durable identity: the
	// transition now completes and no second trip appears.
	flaky.failures = 0
	retried, err := fx.ctrl.AdvancePhase(context.Background(), out, domain.PhaseBookings)
	if err != nil {
		t.Fatalf("retry AdvancePhase: %v", err)
	}
	if retried.ID == nil || *retried.ID != "t1" {
		t.Fatalf("retried.ID=%v, want original identity", retried.ID)
	}
	if retried.Phase != domain.PhaseBookings {
		t.Fatalf("phase=%s", retried.Phase)
	}
	list, err := fx.trips.ListByOwner(context.Background(), "u1")
	if err != nil {
		t.Fatalf("ListByOwner: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("trips=%d, want exactly one after retry", len(list))
	}
}

// seedStoredTrip creates a materialized trip directly in the store with the
// given phase and trip length in days.
func seedStoredTrip(t *testing.T, fx *controllerFixture, phase domain.Phase, days int) *domain.Trip {
	t.Helper()
	sd := time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC)
	ed := sd.AddDate(0, 0, days-1)
	now := fx.clk.Now()
	rec := tripstore.Trip{
		ID:        "t1",
		Owner:     "u1",
		Phase:     phase,
		Title:     "Rome",
		Country:   "Italy",
		City:      "Rome",
		StartDate: &sd,
		EndDate:   &ed,
		Currency:  "EUR",
		Budget:    1000,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := fx.trips.Create(context.Background(), rec); err != nil {
		t.Fatalf("seed trip: %v", err)
	}
	id := rec.ID
	return &domain.Trip{
		ID:          &id,
		Owner:       rec.Owner,
		Phase:       rec.Phase,
		Title:       rec.Title,
		Destination: domain.Destination{Country: rec.Country, City: rec.City},
		StartDate:   rec.StartDate,
		EndDate:     rec.EndDate,
		Currency:    rec.Currency,
		Budget:      rec.Budget,
	}
}

func addBooking(t *testing.T, fx *controllerFixture, trip domain.TripID, kind domain.BookingKind, amount float64) {
	t.Helper()
	_, err := fx.bookings.Add(context.Background(), "u1", trip, domain.Booking{
		ID:        domain.BookingID(string(kind) + "-1"),
		Kind:      kind,
		Amount:    amount,
		CreatedAt: fx.clk.Now(),
	})
	if err != nil {
		t.Fatalf("add booking: %v", err)
	}
}

func putRegistry(t *testing.T, fx *controllerFixture, trip domain.TripID, day time.Time, cost float64) {
	t.Helper()
	_, err := fx.registries.Put(context.Background(), "u1", trip, domain.DailyRegistry{
		Date: day,
		Activities: []domain.Activity{
			{Name: "Walk", Category: domain.ActivityTour, Place: "Rome", Cost: cost},
		},
		UpdatedAt: fx.clk.Now(),
	})
	if err != nil {
		t.Fatalf("put registry: %v", err)
	}
}
