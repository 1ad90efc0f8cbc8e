// Package registry manages the per-date daily registries of a trip:
// activity lists, their attachments, and the completion ratio consumed by
// the in-progress gate.
package registry

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/lifetwin/trip-engine/internal/domain"
	"github.com/lifetwin/trip-engine/internal/ports/out/clock"
	"github.com/lifetwin/trip-engine/internal/ports/out/registrystore"
	"github.com/lifetwin/trip-engine/internal/ports/out/tripstore"
)

// Service implements the daily registry store operations.
type Service struct {
	store registrystore.Store
	trips tripstore.Store
	clk   clock.Clock
	log   zerolog.Logger

	newAttachmentID func() domain.AttachmentID
}

func NewService(store registrystore.Store, trips tripstore.Store, clk clock.Clock, log zerolog.Logger) *Service {
	return &Service{
		store: store,
		trips: trips,
		clk:   clk,
		log:   log,
		newAttachmentID: func() domain.AttachmentID {
			return domain.AttachmentID(uuid.NewString())
		},
	}
}

// SetNewAttachmentIDForTest overrides attachment ID generation for deterministic tests.
func (s *Service) SetNewAttachmentIDForTest(fn func() domain.AttachmentID) {
	if fn != nil {
		s.newAttachmentID = fn
	}
}

// Upsert replaces the activity list for the given date, creating the
// registry if absent. Every activity is validated first and an invalid one
// rejects the whole write: the store never silently drops activities.
// Dates outside the trip's range fail with DateOutOfRangeError before any
// store write.
func (s *Service) Upsert(ctx context.Context, owner domain.OwnerID, tripID domain.TripID, date time.Time, activities []domain.Activity, notes string) (domain.DailyRegistry, error) {
	for i, a := range activities {
		if unmet := a.Validate(); len(unmet) > 0 {
			return domain.DailyRegistry{}, &domain.ValidationError{
				Subject: fmt.Sprintf("activity %d", i),
				Unmet:   unmet,
			}
		}
	}

	rng, err := s.tripRange(ctx, owner, tripID)
	if err != nil {
		return domain.DailyRegistry{}, err
	}
	if !rng.Contains(date) {
		return domain.DailyRegistry{}, &domain.DateOutOfRangeError{
			Date:  domain.DateOnly(date),
			Start: rng.Dates[0],
			End:   rng.Dates[len(rng.Dates)-1],
		}
	}

	reg := domain.DailyRegistry{
		Date:       domain.DateOnly(date),
		Activities: activities,
		Notes:      notes,
		UpdatedAt:  s.clk.Now(),
	}
	return s.store.Put(ctx, owner, tripID, reg)
}

// Get returns the registry for a date.
func (s *Service) Get(ctx context.Context, owner domain.OwnerID, tripID domain.TripID, date time.Time) (domain.DailyRegistry, error) {
	return s.store.GetByDate(ctx, owner, tripID, domain.DateOnly(date))
}

// AddAttachment appends an attachment to one activity of a registry,
// assigning its identity and upload time.
func (s *Service) AddAttachment(ctx context.Context, owner domain.OwnerID, tripID domain.TripID, date time.Time, activityIndex int, att domain.Attachment) (domain.Attachment, error) {
	reg, err := s.store.GetByDate(ctx, owner, tripID, domain.DateOnly(date))
	if err != nil {
		return domain.Attachment{}, err
	}
	if activityIndex < 0 || activityIndex >= len(reg.Activities) {
		return domain.Attachment{}, fmt.Errorf("activity index %d out of bounds (registry has %d)", activityIndex, len(reg.Activities))
	}

	att.ID = s.newAttachmentID()
	att.UploadedAt = s.clk.Now()
	reg.Activities[activityIndex].Attachments = append(reg.Activities[activityIndex].Attachments, att)
	reg.UpdatedAt = att.UploadedAt

	if _, err := s.store.Put(ctx, owner, tripID, reg); err != nil {
		return domain.Attachment{}, err
	}
	return att, nil
}

// RemoveAttachment deletes an attachment from one activity. A missing
// attachment id is a no-op.
func (s *Service) RemoveAttachment(ctx context.Context, owner domain.OwnerID, tripID domain.TripID, date time.Time, activityIndex int, attID domain.AttachmentID) error {
	reg, err := s.store.GetByDate(ctx, owner, tripID, domain.DateOnly(date))
	if err != nil {
		return err
	}
	if activityIndex < 0 || activityIndex >= len(reg.Activities) {
		return fmt.Errorf("activity index %d out of bounds (registry has %d)", activityIndex, len(reg.Activities))
	}

	atts := reg.Activities[activityIndex].Attachments
	kept := atts[:0]
	removed := false
	for _, a := range atts {
		if a.ID == attID {
			removed = true
			continue
		}
		kept = append(kept, a)
	}
	if !removed {
		return nil
	}
	reg.Activities[activityIndex].Attachments = kept
	reg.UpdatedAt = s.clk.Now()
	_, err = s.store.Put(ctx, owner, tripID, reg)
	return err
}

// CompletionRatio returns registered-dates / total-dates-in-range for the
// trip. The in-progress gate consumes the same count directly.
func (s *Service) CompletionRatio(ctx context.Context, owner domain.OwnerID, tripID domain.TripID) (float64, error) {
	rng, err := s.tripRange(ctx, owner, tripID)
	if err != nil {
		return 0, err
	}
	count, err := s.store.CountByTrip(ctx, owner, tripID)
	if err != nil {
		return 0, err
	}
	return float64(count) / float64(rng.Len()), nil
}

// Dates returns the trip's normalized inclusive date range for iteration.
func (s *Service) Dates(ctx context.Context, owner domain.OwnerID, tripID domain.TripID) (domain.TripDates, error) {
	return s.tripRange(ctx, owner, tripID)
}

func (s *Service) tripRange(ctx context.Context, owner domain.OwnerID, tripID domain.TripID) (domain.TripDates, error) {
	t, err := s.trips.GetByID(ctx, owner, tripID)
	if err != nil {
		return domain.TripDates{}, err
	}
	if t.StartDate == nil {
		return domain.TripDates{}, fmt.Errorf("trip %s has no start date", tripID)
	}
	rng := domain.GenerateDateRange(*t.StartDate, t.EndDate)
	if rng.Normalized {
		// An inverted range usually means bad caller input; the range is
		// clamped to a single day but the condition is surfaced loudly.
		s.log.Warn().Str("trip_id", string(tripID)).
			Msg("trip end date precedes start date; range normalized to single day")
	}
	return rng, nil
}
