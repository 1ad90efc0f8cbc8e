package restclient

import (
	"context"
	"net/http"
	"time"

	openapitypes "github.com/oapi-codegen/runtime/types"

	"github.com/lifetwin/trip-engine/internal/domain"
	"github.com/lifetwin/trip-engine/internal/ports/out/tripstore"
)

// TripStore implements tripstore.Store against the remote service.
type TripStore struct {
	*Client
}

func NewTripStore(c *Client) *TripStore { return &TripStore{Client: c} }

// tripBody is the wire shape of a trip record.
type tripBody struct {
	ID        string             `json:"id"`
	OwnerID   string             `json:"ownerId"`
	Phase     string             `json:"phase"`
	Title     string             `json:"title"`
	Country   string             `json:"country"`
	City      string             `json:"city"`
	StartDate *openapitypes.Date `json:"startDate,omitempty"`
	EndDate   *openapitypes.Date `json:"endDate,omitempty"`
	Currency  string             `json:"currency"`
	Budget    float64            `json:"budget"`
	Notes     string             `json:"notes"`
	CreatedAt time.Time          `json:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt"`
}

func (s *TripStore) Create(ctx context.Context, t tripstore.Trip) error {
	resp, err := s.http.R().
		SetContext(ctx).
		SetBody(toTripBody(t)).
		Post("/owners/" + string(t.Owner) + "/trips")
	if err != nil {
		return tripstore.Transient(err)
	}
	switch {
	case resp.IsSuccess():
		return nil
	case resp.StatusCode() == http.StatusConflict:
		return tripstore.ErrAlreadyExists
	case retryable(resp):
		return tripstore.Transient(&statusError{Status: resp.StatusCode(), Body: resp.String()})
	default:
		return &statusError{Status: resp.StatusCode(), Body: resp.String()}
	}
}

func (s *TripStore) GetByID(ctx context.Context, owner domain.OwnerID, id domain.TripID) (tripstore.Trip, error) {
	var body tripBody
	resp, err := s.http.R().
		SetContext(ctx).
		SetResult(&body).
		Get("/owners/" + string(owner) + "/trips/" + string(id))
	if err != nil {
		return tripstore.Trip{}, tripstore.Transient(err)
	}
	if err := checkGet(resp); err != nil {
		return tripstore.Trip{}, err
	}
	return fromTripBody(body), nil
}

func (s *TripStore) ListByOwner(ctx context.Context, owner domain.OwnerID) ([]tripstore.Trip, error) {
	var body []tripBody
	resp, err := s.http.R().
		SetContext(ctx).
		SetResult(&body).
		Get("/owners/" + string(owner) + "/trips")
	if err != nil {
		return nil, tripstore.Transient(err)
	}
	if err := checkGet(resp); err != nil {
		return nil, err
	}
	out := make([]tripstore.Trip, 0, len(body))
	for _, b := range body {
		out = append(out, fromTripBody(b))
	}
	return out, nil
}

func (s *TripStore) Save(ctx context.Context, t tripstore.Trip) (tripstore.Trip, error) {
	var body tripBody
	resp, err := s.http.R().
		SetContext(ctx).
		SetBody(toTripBody(t)).
		SetResult(&body).
		Put("/owners/" + string(t.Owner) + "/trips/" + string(t.ID))
	if err != nil {
		return tripstore.Trip{}, tripstore.Transient(err)
	}
	if err := checkGet(resp); err != nil {
		return tripstore.Trip{}, err
	}
	return fromTripBody(body), nil
}

func (s *TripStore) UpdatePhase(ctx context.Context, owner domain.OwnerID, id domain.TripID, phase domain.Phase) (tripstore.Trip, error) {
	var body tripBody
	resp, err := s.http.R().
		SetContext(ctx).
		SetBody(map[string]string{"phase": string(phase)}).
		SetResult(&body).
		Put("/owners/" + string(owner) + "/trips/" + string(id) + "/phase")
	if err != nil {
		return tripstore.Trip{}, tripstore.Transient(err)
	}
	if err := checkGet(resp); err != nil {
		return tripstore.Trip{}, err
	}
	return fromTripBody(body), nil
}

// checkGet maps a read/write response to the store error taxonomy.
func checkGet(resp interface {
	IsSuccess() bool
	StatusCode() int
	String() string
}) error {
	switch {
	case resp.IsSuccess():
		return nil
	case resp.StatusCode() == http.StatusNotFound:
		return tripstore.ErrNotFound
	case resp.StatusCode() >= http.StatusInternalServerError,
		resp.StatusCode() == http.StatusTooManyRequests:
		return tripstore.Transient(&statusError{Status: resp.StatusCode(), Body: resp.String()})
	default:
		return &statusError{Status: resp.StatusCode(), Body: resp.String()}
	}
}

func toTripBody(t tripstore.Trip) tripBody {
	b := tripBody{
		ID:        string(t.ID),
		OwnerID:   string(t.Owner),
		Phase:     string(t.Phase),
		Title:     t.Title,
		Country:   t.Country,
		City:      t.City,
		Currency:  t.Currency,
		Budget:    t.Budget,
		Notes:     t.Notes,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
	if t.StartDate != nil {
		d := wireDate(*t.StartDate)
		b.StartDate = &d
	}
	if t.EndDate != nil {
		d := wireDate(*t.EndDate)
		b.EndDate = &d
	}
	return b
}

func fromTripBody(b tripBody) tripstore.Trip {
	t := tripstore.Trip{
		ID:        domain.TripID(b.ID),
		Owner:     domain.OwnerID(b.OwnerID),
		Phase:     domain.Phase(b.Phase),
		Title:     b.Title,
		Country:   b.Country,
		City:      b.City,
		Currency:  b.Currency,
		Budget:    b.Budget,
		Notes:     b.Notes,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
	if b.StartDate != nil {
		sd := domain.DateOnly(b.StartDate.Time)
		t.StartDate = &sd
	}
	if b.EndDate != nil {
		ed := domain.DateOnly(b.EndDate.Time)
		t.EndDate = &ed
	}
	return t
}
