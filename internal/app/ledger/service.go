// Package ledger manages the booking records attached to a trip and totals
// them for the cost dashboard and the bookings gate.
package ledger

import (
	"context"

	"github.com/google/uuid"

	"github.com/lifetwin/trip-engine/internal/domain"
	"github.com/lifetwin/trip-engine/internal/ports/out/bookingstore"
	"github.com/lifetwin/trip-engine/internal/ports/out/clock"
)

// Service implements the booking ledger operations.
type Service struct {
	store bookingstore.Store
	clk   clock.Clock

	newBookingID func() domain.BookingID
}

func NewService(store bookingstore.Store, clk clock.Clock) *Service {
	return &Service{
		store: store,
		clk:   clk,
		newBookingID: func() domain.BookingID {
			return domain.BookingID(uuid.NewString())
		},
	}
}

// SetNewBookingIDForTest overrides booking ID generation for deterministic tests.
func (s *Service) SetNewBookingIDForTest(fn func() domain.BookingID) {
	if fn != nil {
		s.newBookingID = fn
	}
}

// Add validates and appends a booking to the trip's ledger, assigning its
// identity and creation time.
func (s *Service) Add(ctx context.Context, owner domain.OwnerID, trip domain.TripID, b domain.Booking) (domain.Booking, error) {
	if unmet := b.Validate(); len(unmet) > 0 {
		return domain.Booking{}, &domain.ValidationError{Subject: "booking", Unmet: unmet}
	}
	b.ID = s.newBookingID()
	b.CreatedAt = s.clk.Now()
	return s.store.Add(ctx, owner, trip, b)
}

// Remove deletes a booking by identity. Removing an id that does not exist
// is a no-op so repeated delete requests stay harmless.
func (s *Service) Remove(ctx context.Context, owner domain.OwnerID, trip domain.TripID, id domain.BookingID) error {
	return s.store.Remove(ctx, owner, trip, id)
}

// List returns the trip's bookings grouped into the three kinds.
func (s *Service) List(ctx context.Context, owner domain.OwnerID, trip domain.TripID) (Ledger, error) {
	bs, err := s.store.ListByTrip(ctx, owner, trip)
	if err != nil {
		return Ledger{}, err
	}
	var l Ledger
	for _, b := range bs {
		switch b.Kind {
		case domain.BookingKindHotel:
			l.Hotels = append(l.Hotels, b)
		case domain.BookingKindFlight:
			l.Flights = append(l.Flights, b)
		default:
			l.Other = append(l.Other, b)
		}
	}
	return l, nil
}

// Subtotal returns the sum of amounts across all three collections. It is
// recomputed from current contents on every call; there is no running
// counter to drift after removals.
func (s *Service) Subtotal(ctx context.Context, owner domain.OwnerID, trip domain.TripID) (float64, error) {
	bs, err := s.store.ListByTrip(ctx, owner, trip)
	if err != nil {
		return 0, err
	}
	var sum float64
	for _, b := range bs {
		sum += b.Amount
	}
	return sum, nil
}

// Ledger is the grouped read model of a trip's bookings.
type Ledger struct {
	Hotels  []domain.Booking
	Flights []domain.Booking
	Other   []domain.Booking
}

// Subtotal sums all amounts in the ledger snapshot.
func (l Ledger) Subtotal() float64 {
	var sum float64
	for _, group := range [][]domain.Booking{l.Hotels, l.Flights, l.Other} {
		for _, b := range group {
			sum += b.Amount
		}
	}
	return sum
}

// Counts summarizes the snapshot for the bookings gate.
func (l Ledger) Counts() (hotels, flights, other int) {
	return len(l.Hotels), len(l.Flights), len(l.Other)
}
