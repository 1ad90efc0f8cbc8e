// Package trips exposes read access to trips and planning-phase edits of
// their descriptive fields. Phase changes live in the phases package.
package trips

import (
	"context"
	"strings"

	"github.com/lifetwin/trip-engine/internal/domain"
	"github.com/lifetwin/trip-engine/internal/ports/out/clock"
	"github.com/lifetwin/trip-engine/internal/ports/out/tripstore"
)

type Service struct {
	store tripstore.Store
	clk   clock.Clock
}

func NewService(store tripstore.Store, clk clock.Clock) *Service {
	return &Service{store: store, clk: clk}
}

func (s *Service) Get(ctx context.Context, owner domain.OwnerID, id domain.TripID) (*domain.Trip, error) {
	rec, err := s.store.GetByID(ctx, owner, id)
	if err != nil {
		return nil, err
	}
	return FromRecord(rec), nil
}

func (s *Service) List(ctx context.Context, owner domain.OwnerID) ([]*domain.Trip, error) {
	recs, err := s.store.ListByOwner(ctx, owner)
	if err != nil {
		return nil, err
	}
	out := make([]*domain.Trip, 0, len(recs))
	for _, rec := range recs {
		out = append(out, FromRecord(rec))
	}
	return out, nil
}

// Update applies a partial edit to a trip's descriptive fields. Trips past
// the planning phase reject the edit: completed phases are viewable but
// immutable.
func (s *Service) Update(ctx context.Context, owner domain.OwnerID, id domain.TripID, in UpdateTripInput) (*domain.Trip, error) {
	rec, err := s.store.GetByID(ctx, owner, id)
	if err != nil {
		return nil, err
	}
	if rec.Phase != domain.PhasePlanning {
		return nil, &domain.PhaseError{Required: domain.PhasePlanning, Actual: rec.Phase}
	}

	var unmet []string

	if in.Title.IsSpecified() {
		if in.Title.IsNull() {
			unmet = append(unmet, "title cannot be null")
		} else if t := strings.TrimSpace(in.Title.Value()); t == "" {
			unmet = append(unmet, "title must be non-empty")
		} else {
			rec.Title = t
		}
	}
	applyString := func(dst *string, o Optional[string]) {
		if !o.IsSpecified() {
			return
		}
		if o.IsNull() {
			*dst = ""
			return
		}
		*dst = strings.TrimSpace(o.Value())
	}
	applyString(&rec.Country, in.Country)
	applyString(&rec.City, in.City)
	applyString(&rec.Currency, in.Currency)
	applyString(&rec.Notes, in.Notes)

	if in.StartDate.IsSpecified() {
		if in.StartDate.IsNull() {
			unmet = append(unmet, "start date cannot be null")
		} else {
			sd := domain.DateOnly(in.StartDate.Value())
			rec.StartDate = &sd
		}
	}
	if in.EndDate.IsSpecified() {
		if in.EndDate.IsNull() {
			rec.EndDate = nil
		} else {
			ed := domain.DateOnly(in.EndDate.Value())
			rec.EndDate = &ed
		}
	}
	if in.Budget.IsSpecified() {
		switch {
		case in.Budget.IsNull():
			unmet = append(unmet, "budget cannot be null")
		case in.Budget.Value() < 0:
			unmet = append(unmet, "budget must be non-negative")
		default:
			rec.Budget = in.Budget.Value()
		}
	}

	if len(unmet) > 0 {
		return nil, &domain.ValidationError{Subject: "trip", Unmet: unmet}
	}

	rec.UpdatedAt = s.clk.Now()
	saved, err := s.store.Save(ctx, rec)
	if err != nil {
		return nil, err
	}
	return FromRecord(saved), nil
}

// FromRecord converts a store record into the domain aggregate.
func FromRecord(rec tripstore.Trip) *domain.Trip {
	id := rec.ID
	return &domain.Trip{
		ID:    &id,
		Owner: rec.Owner,
		Phase: rec.Phase,
		Title: rec.Title,
		Destination: domain.Destination{
			Country: rec.Country,
			City:    rec.City,
		},
		StartDate: rec.StartDate,
		EndDate:   rec.EndDate,
		Currency:  rec.Currency,
		Budget:    rec.Budget,
		Notes:     rec.Notes,
		CreatedAt: rec.CreatedAt,
		UpdatedAt: rec.UpdatedAt,
	}
}
