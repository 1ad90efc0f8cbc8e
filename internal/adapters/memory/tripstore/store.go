package tripstore

import (
	"context"
	"sort"
	"sync"

	"github.com/lifetwin/trip-engine/internal/domain"
	"github.com/lifetwin/trip-engine/internal/ports/out/tripstore"
)

// Store is an in-memory implementation of tripstore.Store.
// It is safe for concurrent use.
type Store struct {
	mu   sync.RWMutex
	byID map[domain.TripID]tripstore.Trip
}

func NewStore() *Store {
	return &Store{byID: make(map[domain.TripID]tripstore.Trip)}
}

func (s *Store) Create(ctx context.Context, t tripstore.Trip) error {
	_ = ctx
	if t.ID == "" {
		return tripstore.ErrInvalidID
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[t.ID]; ok {
		return tripstore.ErrAlreadyExists
	}
	s.byID[t.ID] = cloneTrip(t)
	return nil
}

func (s *Store) GetByID(ctx context.Context, owner domain.OwnerID, id domain.TripID) (tripstore.Trip, error) {
	_ = ctx
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.byID[id]
	if !ok || t.Owner != owner {
		return tripstore.Trip{}, tripstore.ErrNotFound
	}
	return cloneTrip(t), nil
}

func (s *Store) ListByOwner(ctx context.Context, owner domain.OwnerID) ([]tripstore.Trip, error) {
	_ = ctx
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]tripstore.Trip, 0)
	for _, t := range s.byID {
		if t.Owner == owner {
			out = append(out, cloneTrip(t))
		}
	}
	sortTrips(out)
	return out, nil
}

func (s *Store) Save(ctx context.Context, t tripstore.Trip) (tripstore.Trip, error) {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.byID[t.ID]
	if !ok || existing.Owner != t.Owner {
		return tripstore.Trip{}, tripstore.ErrNotFound
	}
	// Phase is owned by UpdatePhase; keep the stored value.
	t.Phase = existing.Phase
	t.CreatedAt = existing.CreatedAt
	s.byID[t.ID] = cloneTrip(t)
	return cloneTrip(t), nil
}

func (s *Store) UpdatePhase(ctx context.Context, owner domain.OwnerID, id domain.TripID, phase domain.Phase) (tripstore.Trip, error) {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.byID[id]
	if !ok || t.Owner != owner {
		return tripstore.Trip{}, tripstore.ErrNotFound
	}
	t.Phase = phase
	s.byID[id] = t
	return cloneTrip(t), nil
}

// sortTrips orders by start date ascending with nil dates last, then by id.
func sortTrips(ts []tripstore.Trip) {
	sort.Slice(ts, func(i, j int) bool {
		a, b := ts[i], ts[j]
		switch {
		case a.StartDate == nil && b.StartDate == nil:
			return a.ID < b.ID
		case a.StartDate == nil:
			return false
		case b.StartDate == nil:
			return true
		case a.StartDate.Equal(*b.StartDate):
			return a.ID < b.ID
		default:
			return a.StartDate.Before(*b.StartDate)
		}
	})
}

func cloneTrip(t tripstore.Trip) tripstore.Trip {
	out := t
	if t.StartDate != nil {
		sd := *t.StartDate
		out.StartDate = &sd
	}
	if t.EndDate != nil {
		ed := *t.EndDate
		out.EndDate = &ed
	}
	return out
}
