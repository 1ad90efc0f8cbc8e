package tripstore

import (
	"context"
	"time"

	"github.com/lifetwin/trip-engine/internal/domain"
)

// Trip is the persistence shape used by the trip store.
// Unlike the domain aggregate, a stored trip always has an identity.
type Trip struct {
	ID    domain.TripID
	Owner domain.OwnerID

	Phase domain.Phase

	Title     string
	Country   string
	City      string
	StartDate *time.Time
	EndDate   *time.Time
	Currency  string
	Budget    float64
	Notes     string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Store provides access to persisted trips. Every operation is keyed by the
// owning user; a trip that exists but belongs to a different owner behaves
// as not found.
//
// Implementations must distinguish missing records (ErrNotFound) from
// transient backend failures (TransientError) so the phase controller can
// decide whether a retry is safe.
type Store interface {
	Create(ctx context.Context, t Trip) error

	GetByID(ctx context.Context, owner domain.OwnerID, id domain.TripID) (Trip, error)

	// ListByOwner returns the owner's trips ordered by start date
	// ascending, nil start dates last, then by id for determinism.
	ListByOwner(ctx context.Context, owner domain.OwnerID) ([]Trip, error)

	// Save overwrites the trip's descriptive fields. The phase column is
	// deliberately NOT written: phase only changes through UpdatePhase so
	// the controller's ordering discipline cannot be bypassed.
	Save(ctx context.Context, t Trip) (Trip, error)

	// UpdatePhase persists the new phase and returns the updated record.
	// It does not validate transition legality; that is the controller's
	// job, done before any store call.
	UpdatePhase(ctx context.Context, owner domain.OwnerID, id domain.TripID, phase domain.Phase) (Trip, error)
}
