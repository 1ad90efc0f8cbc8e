package registrystore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/lifetwin/trip-engine/internal/domain"
	"github.com/lifetwin/trip-engine/internal/ports/out/registrystore"
)

type tripKey struct {
	owner domain.OwnerID
	trip  domain.TripID
}

// Store is an in-memory implementation of registrystore.Store.
// Registries are keyed by UTC calendar date; it is safe for concurrent use.
type Store struct {
	mu     sync.RWMutex
	byTrip map[tripKey]map[time.Time]domain.DailyRegistry
}

func NewStore() *Store {
	return &Store{byTrip: make(map[tripKey]map[time.Time]domain.DailyRegistry)}
}

func (s *Store) Put(ctx context.Context, owner domain.OwnerID, trip domain.TripID, r domain.DailyRegistry) (domain.DailyRegistry, error) {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	k := tripKey{owner, trip}
	if s.byTrip[k] == nil {
		s.byTrip[k] = make(map[time.Time]domain.DailyRegistry)
	}
	r.Date = domain.DateOnly(r.Date)
	s.byTrip[k][r.Date] = cloneRegistry(r)
	return r, nil
}

func (s *Store) GetByDate(ctx context.Context, owner domain.OwnerID, trip domain.TripID, date time.Time) (domain.DailyRegistry, error) {
	_ = ctx
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.byTrip[tripKey{owner, trip}][domain.DateOnly(date)]
	if !ok {
		return domain.DailyRegistry{}, registrystore.ErrNotFound
	}
	return cloneRegistry(r), nil
}

func (s *Store) ListByTrip(ctx context.Context, owner domain.OwnerID, trip domain.TripID) ([]domain.DailyRegistry, error) {
	_ = ctx
	s.mu.RLock()
	defer s.mu.RUnlock()
	rs := s.byTrip[tripKey{owner, trip}]
	out := make([]domain.DailyRegistry, 0, len(rs))
	for _, r := range rs {
		out = append(out, cloneRegistry(r))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (s *Store) CountByTrip(ctx context.Context, owner domain.OwnerID, trip domain.TripID) (int, error) {
	_ = ctx
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byTrip[tripKey{owner, trip}]), nil
}

func cloneRegistry(r domain.DailyRegistry) domain.DailyRegistry {
	out := r
	out.Activities = make([]domain.Activity, len(r.Activities))
	for i, a := range r.Activities {
		ca := a
		ca.Attachments = append([]domain.Attachment(nil), a.Attachments...)
		if a.StartTime != nil {
			st := *a.StartTime
			ca.StartTime = &st
		}
		if a.EndTime != nil {
			et := *a.EndTime
			ca.EndTime = &et
		}
		if a.Rating != nil {
			rt := *a.Rating
			ca.Rating = &rt
		}
		out.Activities[i] = ca
	}
	return out
}
