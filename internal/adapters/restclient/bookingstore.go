package restclient

import (
	"context"
	"net/http"
	"time"

	"github.com/lifetwin/trip-engine/internal/domain"
	"github.com/lifetwin/trip-engine/internal/ports/out/tripstore"
)

// BookingStore implements bookingstore.Store against the remote service.
type BookingStore struct {
	*Client
}

func NewBookingStore(c *Client) *BookingStore { return &BookingStore{Client: c} }

type bookingBody struct {
	ID               string           `json:"id"`
	Kind             string           `json:"kind"`
	Amount           float64          `json:"amount"`
	Currency         string           `json:"currency"`
	ConfirmationCode string           `json:"confirmationCode"`
	Provider         string           `json:"provider"`
	Detail           string           `json:"detail"`
	Attachments      []attachmentBody `json:"attachments,omitempty"`
	CreatedAt        time.Time        `json:"createdAt"`
}

type attachmentBody struct {
	ID          string    `json:"id"`
	DisplayName string    `json:"displayName"`
	Category    string    `json:"category"`
	StorageRef  string    `json:"storageRef"`
	UploadedAt  time.Time `json:"uploadedAt"`
}

func (s *BookingStore) Add(ctx context.Context, owner domain.OwnerID, trip domain.TripID, b domain.Booking) (domain.Booking, error) {
	var out bookingBody
	resp, err := s.http.R().
		SetContext(ctx).
		SetBody(toBookingBody(b)).
		SetResult(&out).
		Post("/owners/" + string(owner) + "/trips/" + string(trip) + "/bookings")
	if err != nil {
		return domain.Booking{}, tripstore.Transient(err)
	}
	if err := checkGet(resp); err != nil {
		return domain.Booking{}, err
	}
	return fromBookingBody(out), nil
}

func (s *BookingStore) Remove(ctx context.Context, owner domain.OwnerID, trip domain.TripID, id domain.BookingID) error {
	resp, err := s.http.R().
		SetContext(ctx).
		Delete("/owners/" + string(owner) + "/trips/" + string(trip) + "/bookings/" + string(id))
	if err != nil {
		return tripstore.Transient(err)
	}
	// A 404 here means the booking is already gone; removal is idempotent.
	if resp.StatusCode() == http.StatusNotFound {
		return nil
	}
	return checkGet(resp)
}

func (s *BookingStore) ListByTrip(ctx context.Context, owner domain.OwnerID, trip domain.TripID) ([]domain.Booking, error) {
	var body struct {
		Hotels  []bookingBody `json:"hotels"`
		Flights []bookingBody `json:"flights"`
		Other   []bookingBody `json:"other"`
	}
	resp, err := s.http.R().
		SetContext(ctx).
		SetResult(&body).
		Get("/owners/" + string(owner) + "/trips/" + string(trip) + "/bookings")
	if err != nil {
		return nil, tripstore.Transient(err)
	}
	if err := checkGet(resp); err != nil {
		return nil, err
	}
	out := make([]domain.Booking, 0, len(body.Hotels)+len(body.Flights)+len(body.Other))
	for _, group := range [][]bookingBody{body.Hotels, body.Flights, body.Other} {
		for _, b := range group {
			out = append(out, fromBookingBody(b))
		}
	}
	return out, nil
}

func toBookingBody(b domain.Booking) bookingBody {
	out := bookingBody{
		ID:               string(b.ID),
		Kind:             string(b.Kind),
		Amount:           b.Amount,
		Currency:         b.Currency,
		ConfirmationCode: b.ConfirmationCode,
		Provider:         b.Provider,
		Detail:           b.Detail,
		CreatedAt:        b.CreatedAt,
	}
	for _, a := range b.Attachments {
		out.Attachments = append(out.Attachments, toAttachmentBody(a))
	}
	return out
}

func fromBookingBody(b bookingBody) domain.Booking {
	out := domain.Booking{
		ID:               domain.BookingID(b.ID),
		Kind:             domain.BookingKind(b.Kind),
		Amount:           b.Amount,
		Currency:         b.Currency,
		ConfirmationCode: b.ConfirmationCode,
		Provider:         b.Provider,
		Detail:           b.Detail,
		CreatedAt:        b.CreatedAt,
	}
	for _, a := range b.Attachments {
		out.Attachments = append(out.Attachments, fromAttachmentBody(a))
	}
	return out
}

func toAttachmentBody(a domain.Attachment) attachmentBody {
	return attachmentBody{
		ID:          string(a.ID),
		DisplayName: a.DisplayName,
		Category:    string(a.Category),
		StorageRef:  a.StorageRef,
		UploadedAt:  a.UploadedAt,
	}
}

func fromAttachmentBody(a attachmentBody) domain.Attachment {
	return domain.Attachment{
		ID:          domain.AttachmentID(a.ID),
		DisplayName: a.DisplayName,
		Category:    domain.AttachmentCategory(a.Category),
		StorageRef:  a.StorageRef,
		UploadedAt:  a.UploadedAt,
	}
}
