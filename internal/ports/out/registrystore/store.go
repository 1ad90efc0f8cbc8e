package registrystore

import (
	"context"
	"time"

	"github.com/lifetwin/trip-engine/internal/domain"
)

// Store persists daily registries keyed by (owner, trip, date). At most one
// registry exists per calendar date.
type Store interface {
	// Put creates or replaces the registry for its date and returns the
	// stored record.
	Put(ctx context.Context, owner domain.OwnerID, trip domain.TripID, r domain.DailyRegistry) (domain.DailyRegistry, error)

	// GetByDate returns the registry for the given calendar date, or
	// ErrNotFound when no registry exists for it.
	GetByDate(ctx context.Context, owner domain.OwnerID, trip domain.TripID, date time.Time) (domain.DailyRegistry, error)

	// ListByTrip returns all registries of the trip ordered by date
	// ascending.
	ListByTrip(ctx context.Context, owner domain.OwnerID, trip domain.TripID) ([]domain.DailyRegistry, error)

	// CountByTrip returns the number of dates having a registry. Used by
	// the in-progress completion gate without loading activity payloads.
	CountByTrip(ctx context.Context, owner domain.OwnerID, trip domain.TripID) (int, error)
}
