package bookingstore

import (
	"context"

	"github.com/lifetwin/trip-engine/internal/domain"
)

// Store persists the booking records attached to a trip. All three booking
// kinds live in one store keyed by (owner, trip); the kind tag on
// domain.Booking discriminates the collections.
type Store interface {
	Add(ctx context.Context, owner domain.OwnerID, trip domain.TripID, b domain.Booking) (domain.Booking, error)

	// Remove deletes by identity. Removing an id that does not exist is a
	// no-op, not an error: duplicate delete requests from a retrying
	// client must stay harmless.
	Remove(ctx context.Context, owner domain.OwnerID, trip domain.TripID, id domain.BookingID) error

	// ListByTrip returns all bookings for the trip, ordered by kind
	// (hotel, flight, other) then creation time then id.
	ListByTrip(ctx context.Context, owner domain.OwnerID, trip domain.TripID) ([]domain.Booking, error)
}
