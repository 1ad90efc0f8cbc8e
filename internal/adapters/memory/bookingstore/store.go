package bookingstore

import (
	"context"
	"sort"
	"sync"

	"github.com/lifetwin/trip-engine/internal/domain"
)

type tripKey struct {
	owner domain.OwnerID
	trip  domain.TripID
}

// Store is an in-memory implementation of bookingstore.Store.
// It is safe for concurrent use.
type Store struct {
	mu     sync.RWMutex
	byTrip map[tripKey][]domain.Booking
}

func NewStore() *Store {
	return &Store{byTrip: make(map[tripKey][]domain.Booking)}
}

func (s *Store) Add(ctx context.Context, owner domain.OwnerID, trip domain.TripID, b domain.Booking) (domain.Booking, error) {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	k := tripKey{owner, trip}
	s.byTrip[k] = append(s.byTrip[k], cloneBooking(b))
	return b, nil
}

func (s *Store) Remove(ctx context.Context, owner domain.OwnerID, trip domain.TripID, id domain.BookingID) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	k := tripKey{owner, trip}
	bs := s.byTrip[k]
	for i, b := range bs {
		if b.ID == id {
			s.byTrip[k] = append(bs[:i:i], bs[i+1:]...)
			return nil
		}
	}
	// Unknown id: idempotent no-op.
	return nil
}

func (s *Store) ListByTrip(ctx context.Context, owner domain.OwnerID, trip domain.TripID) ([]domain.Booking, error) {
	_ = ctx
	s.mu.RLock()
	defer s.mu.RUnlock()
	bs := s.byTrip[tripKey{owner, trip}]
	out := make([]domain.Booking, 0, len(bs))
	for _, b := range bs {
		out = append(out, cloneBooking(b))
	}
	sortBookings(out)
	return out, nil
}

var kindRank = map[domain.BookingKind]int{
	domain.BookingKindHotel:  0,
	domain.BookingKindFlight: 1,
	domain.BookingKindOther:  2,
}

func sortBookings(bs []domain.Booking) {
	sort.Slice(bs, func(i, j int) bool {
		a, b := bs[i], bs[j]
		if kindRank[a.Kind] != kindRank[b.Kind] {
			return kindRank[a.Kind] < kindRank[b.Kind]
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
}

func cloneBooking(b domain.Booking) domain.Booking {
	out := b
	out.Attachments = append([]domain.Attachment(nil), b.Attachments...)
	return out
}
