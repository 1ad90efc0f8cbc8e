package restclient

import (
	"context"
	"net/http"
	"time"

	openapitypes "github.com/oapi-codegen/runtime/types"

	"github.com/lifetwin/trip-engine/internal/domain"
	"github.com/lifetwin/trip-engine/internal/ports/out/registrystore"
	"github.com/lifetwin/trip-engine/internal/ports/out/tripstore"
)

// RegistryStore implements registrystore.Store against the remote service.
type RegistryStore struct {
	*Client
}

func NewRegistryStore(c *Client) *RegistryStore { return &RegistryStore{Client: c} }

type registryBody struct {
	Date       openapitypes.Date `json:"date"`
	Activities []activityBody    `json:"activities"`
	Notes      string            `json:"notes"`
	UpdatedAt  time.Time         `json:"updatedAt"`
}

type activityBody struct {
	Name        string           `json:"name"`
	Category    string           `json:"category"`
	Place       string           `json:"place"`
	StartTime   *time.Time       `json:"startTime,omitempty"`
	EndTime     *time.Time       `json:"endTime,omitempty"`
	Cost        float64          `json:"cost"`
	Rating      *int             `json:"rating,omitempty"`
	Attachments []attachmentBody `json:"attachments,omitempty"`
}

func (s *RegistryStore) Put(ctx context.Context, owner domain.OwnerID, trip domain.TripID, r domain.DailyRegistry) (domain.DailyRegistry, error) {
	var out registryBody
	resp, err := s.http.R().
		SetContext(ctx).
		SetBody(toRegistryBody(r)).
		SetResult(&out).
		Put(registryPath(owner, trip, r.Date))
	if err != nil {
		return domain.DailyRegistry{}, tripstore.Transient(err)
	}
	if err := checkGet(resp); err != nil {
		return domain.DailyRegistry{}, err
	}
	return fromRegistryBody(out), nil
}

func (s *RegistryStore) GetByDate(ctx context.Context, owner domain.OwnerID, trip domain.TripID, date time.Time) (domain.DailyRegistry, error) {
	var out registryBody
	resp, err := s.http.R().
		SetContext(ctx).
		SetResult(&out).
		Get(registryPath(owner, trip, date))
	if err != nil {
		return domain.DailyRegistry{}, tripstore.Transient(err)
	}
	if resp.StatusCode() == http.StatusNotFound {
		return domain.DailyRegistry{}, registrystore.ErrNotFound
	}
	if err := checkGet(resp); err != nil {
		return domain.DailyRegistry{}, err
	}
	return fromRegistryBody(out), nil
}

func (s *RegistryStore) ListByTrip(ctx context.Context, owner domain.OwnerID, trip domain.TripID) ([]domain.DailyRegistry, error) {
	var body []registryBody
	resp, err := s.http.R().
		SetContext(ctx).
		SetResult(&body).
		Get("/owners/" + string(owner) + "/trips/" + string(trip) + "/registries")
	if err != nil {
		return nil, tripstore.Transient(err)
	}
	if err := checkGet(resp); err != nil {
		return nil, err
	}
	out := make([]domain.DailyRegistry, 0, len(body))
	for _, b := range body {
		out = append(out, fromRegistryBody(b))
	}
	return out, nil
}

func (s *RegistryStore) CountByTrip(ctx context.Context, owner domain.OwnerID, trip domain.TripID) (int, error) {
	rs, err := s.ListByTrip(ctx, owner, trip)
	if err != nil {
		return 0, err
	}
	return len(rs), nil
}

func registryPath(owner domain.OwnerID, trip domain.TripID, date time.Time) string {
	return "/owners/" + string(owner) + "/trips/" + string(trip) +
		"/registries/" + domain.DateOnly(date).Format("2006-01-02")
}

func toRegistryBody(r domain.DailyRegistry) registryBody {
	out := registryBody{
		Date:      wireDate(r.Date),
		Notes:     r.Notes,
		UpdatedAt: r.UpdatedAt,
	}
	for _, a := range r.Activities {
		ab := activityBody{
			Name:      a.Name,
			Category:  string(a.Category),
			Place:     a.Place,
			StartTime: a.StartTime,
			EndTime:   a.EndTime,
			Cost:      a.Cost,
			Rating:    a.Rating,
		}
		for _, att := range a.Attachments {
			ab.Attachments = append(ab.Attachments, toAttachmentBody(att))
		}
		out.Activities = append(out.Activities, ab)
	}
	return out
}

func fromRegistryBody(b registryBody) domain.DailyRegistry {
	out := domain.DailyRegistry{
		Date:      domain.DateOnly(b.Date.Time),
		Notes:     b.Notes,
		UpdatedAt: b.UpdatedAt,
	}
	for _, ab := range b.Activities {
		a := domain.Activity{
			Name:      ab.Name,
			Category:  domain.ActivityCategory(ab.Category),
			Place:     ab.Place,
			StartTime: ab.StartTime,
			EndTime:   ab.EndTime,
			Cost:      ab.Cost,
			Rating:    ab.Rating,
		}
		for _, att := range ab.Attachments {
			a.Attachments = append(a.Attachments, fromAttachmentBody(att))
		}
		out.Activities = append(out.Activities, a)
	}
	return out
}
