package phases

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/sethvargo/go-retry"

	"github.com/lifetwin/trip-engine/internal/app/dashboard"
	"github.com/lifetwin/trip-engine/internal/app/trips"
	"github.com/lifetwin/trip-engine/internal/domain"
	"github.com/lifetwin/trip-engine/internal/ports/out/bookingstore"
	"github.com/lifetwin/trip-engine/internal/ports/out/clock"
	"github.com/lifetwin/trip-engine/internal/ports/out/registrystore"
	"github.com/lifetwin/trip-engine/internal/ports/out/tripstore"
)

// Controller executes validated phase transitions. It is the only component
// allowed to mutate a trip's phase; all other trip state is edited directly
// by its owning service.
type Controller struct {
	trips      tripstore.Store
	bookings   bookingstore.Store
	registries registrystore.Store
	dashboards *dashboard.Generator
	clk        clock.Clock
	log        zerolog.Logger

	// locks serializes transition attempts per trip so a later-phase write
	// can never be persisted ahead of an earlier one still in flight.
	mu    sync.Mutex
	locks map[string]*sync.Mutex

	newTripID func() domain.TripID
}

func NewController(trips tripstore.Store, bookings bookingstore.Store, registries registrystore.Store, dashboards *dashboard.Generator, clk clock.Clock, log zerolog.Logger) *Controller {
	return &Controller{
		trips:      trips,
		bookings:   bookings,
		registries: registries,
		dashboards: dashboards,
		clk:        clk,
		log:        log,
		locks:      make(map[string]*sync.Mutex),
		newTripID: func() domain.TripID {
			return domain.TripID(uuid.NewString())
		},
	}
}

// SetNewTripIDForTest overrides trip ID generation for deterministic tests.
// It should not be used in production code.
func (c *Controller) SetNewTripIDForTest(fn func() domain.TripID) {
	if fn != nil {
		c.newTripID = fn
	}
}

// AdvancePhase moves trip to target, which must be the immediate successor
// of its current phase. The input trip is never mutated: on success the
// returned trip reflects the authoritative store state, on failure the
// caller's trip (and its pre-transition phase) remains valid.
//
// Materialization: a trip without a durable identity advancing out of
// planning is first created in the store, then phase-set. If creation
// succeeds but the phase write fails even after retrying transient errors,
// the created still-planning trip is returned ALONGSIDE the error so the
// caller can retry the transition with the real identity instead of
// creating a duplicate trip.
func (c *Controller) AdvancePhase(ctx context.Context, trip *domain.Trip, target domain.Phase) (*domain.Trip, error) {
	next, ok := trip.Phase.Next()
	if !ok || next != target {
		return nil, &domain.InvalidTransitionError{From: trip.Phase, To: target}
	}

	unlock := c.lockTrip(trip)
	defer unlock()

	// Placeholder trips only exist in planning; anything else is a caller
	// bug surfaced as an illegal transition before the gate ever needs a
	// durable identity to load ledger or registry state.
	if !trip.Materialized() && trip.Phase != domain.PhasePlanning {
		return nil, &domain.InvalidTransitionError{From: trip.Phase, To: target}
	}

	// Gate check happens before any store write; a failed gate means no
	// partial state anywhere.
	if err := c.checkGate(ctx, trip); err != nil {
		return nil, err
	}

	if !trip.Materialized() {
		return c.materialize(ctx, trip, target)
	}

	stored, err := c.trips.UpdatePhase(ctx, trip.Owner, *trip.ID, target)
	if err != nil {
		c.log.Error().Err(err).Str("trip_id", string(*trip.ID)).Str("target", string(target)).
			Msg("phase update failed")
		return nil, err
	}

	out := trips.FromRecord(stored)
	transitionsTotal.WithLabelValues(string(target)).Inc()
	c.log.Info().Str("trip_id", string(*out.ID)).Str("phase", string(target)).Msg("phase advanced")

	if target == domain.PhaseFinalized {
		c.attachDashboard(ctx, out)
	}
	return out, nil
}

// checkGate runs the gate predicate matching the trip's current phase,
// loading ledger counts or registry coverage from the stores as needed.
func (c *Controller) checkGate(ctx context.Context, trip *domain.Trip) error {
	var res GateResult
	switch trip.Phase {
	case domain.PhasePlanning:
		res = CanLeavePlanning(trip)
	case domain.PhaseBookings:
		counts, err := c.bookingCounts(ctx, trip)
		if err != nil {
			return err
		}
		res = CanLeaveBookings(counts)
	case domain.PhaseInProgress:
		registered, err := c.registries.CountByTrip(ctx, trip.Owner, *trip.ID)
		if err != nil {
			return err
		}
		res = CanLeaveInProgress(trip, registered)
	default:
		return &domain.InvalidTransitionError{From: trip.Phase, To: trip.Phase}
	}
	if !res.OK {
		return &domain.ValidationError{Subject: "trip", Unmet: res.Unmet}
	}
	return nil
}

func (c *Controller) bookingCounts(ctx context.Context, trip *domain.Trip) (BookingCounts, error) {
	bs, err := c.bookings.ListByTrip(ctx, trip.Owner, *trip.ID)
	if err != nil {
		return BookingCounts{}, err
	}
	var counts BookingCounts
	for _, b := range bs {
		switch b.Kind {
		case domain.BookingKindHotel:
			counts.Hotels++
		case domain.BookingKindFlight:
			counts.Flights++
		default:
			counts.Other++
		}
	}
	return counts, nil
}

// materialize creates the durable trip record and then applies the phase
// change, presenting both as one logical operation to the caller.
func (c *Controller) materialize(ctx context.Context, trip *domain.Trip, target domain.Phase) (*domain.Trip, error) {
	now := c.clk.Now()
	id := c.newTripID()
	rec := tripstore.Trip{
		ID:        id,
		Owner:     trip.Owner,
		Phase:     domain.PhasePlanning,
		Title:     trip.Title,
		Country:   trip.Destination.Country,
		City:      trip.Destination.City,
		StartDate: trip.StartDate,
		EndDate:   trip.EndDate,
		Currency:  trip.Currency,
		Budget:    trip.Budget,
		Notes:     trip.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := c.trips.Create(ctx, rec); err != nil {
		c.log.Error().Err(err).Str("owner", string(trip.Owner)).Msg("trip materialization failed")
		return nil, err
	}
	c.log.Info().Str("trip_id", string(id)).Str("owner", string(trip.Owner)).Msg("trip materialized")

	// The phase write after a successful create retries transient store
	// failures before giving up; a deterministic failure aborts at once.
	var stored tripstore.Trip
	backoff := retry.WithMaxRetries(2, retry.NewExponential(100*time.Millisecond))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		var uerr error
		stored, uerr = c.trips.UpdatePhase(ctx, trip.Owner, id, target)
		if uerr != nil && tripstore.IsTransient(uerr) {
			return retry.RetryableError(uerr)
		}
		return uerr
	})
	if err != nil {
		// The identity is durable even though the transition failed.
		// Hand the created, still-planning trip back so a retry reuses
		// it instead of creating a second trip.
		c.log.Warn().Err(err).Str("trip_id", string(id)).
			Msg("phase update after materialization failed; trip remains in planning")
		return trips.FromRecord(rec), err
	}

	transitionsTotal.WithLabelValues(string(target)).Inc()
	c.log.Info().Str("trip_id", string(id)).Str("phase", string(target)).Msg("phase advanced")
	return trips.FromRecord(stored), nil
}

// attachDashboard generates and caches the cost dashboard after a
// successful Finalized transition. The transition itself has already been
// persisted; a dashboard failure is logged and left for on-demand
// regeneration rather than unwinding the transition.
func (c *Controller) attachDashboard(ctx context.Context, t *domain.Trip) {
	d, err := c.dashboards.Generate(ctx, t)
	if err != nil {
		c.log.Warn().Err(err).Str("trip_id", string(*t.ID)).Msg("dashboard generation failed")
		return
	}
	t.Dashboard = d
}

// lockTrip returns the per-trip unlock function. Placeholder trips are keyed
// by owner so concurrent materializations of the same local trip serialize.
func (c *Controller) lockTrip(trip *domain.Trip) func() {
	key := "owner:" + string(trip.Owner)
	if trip.ID != nil {
		key = "trip:" + string(*trip.ID)
	}
	c.mu.Lock()
	l, ok := c.locks[key]
	if !ok {
		l = &sync.Mutex{}
		c.locks[key] = l
	}
	c.mu.Unlock()
	l.Lock()
	return l.Unlock
}
