package bookingstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lifetwin/trip-engine/internal/domain"
)

// Store is a Postgres implementation of bookingstore.Store.
// Attachments are owned by their booking and stored inline as jsonb.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// attachmentRow is the jsonb persistence shape for an attachment.
type attachmentRow struct {
	ID          string    `json:"id"`
	DisplayName string    `json:"displayName"`
	Category    string    `json:"category"`
	StorageRef  string    `json:"storageRef"`
	UploadedAt  time.Time `json:"uploadedAt"`
}

func (s *Store) Add(ctx context.Context, owner domain.OwnerID, trip domain.TripID, b domain.Booking) (domain.Booking, error) {
	bookingUUID, err := uuid.Parse(string(b.ID))
	if err != nil {
		return domain.Booking{}, fmt.Errorf("invalid booking id: %w", err)
	}
	tripUUID, err := uuid.Parse(string(trip))
	if err != nil {
		return domain.Booking{}, fmt.Errorf("invalid trip id: %w", err)
	}

	atts, err := json.Marshal(toAttachmentRows(b.Attachments))
	if err != nil {
		return domain.Booking{}, fmt.Errorf("marshal attachments: %w", err)
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO bookings (id, trip_id, owner_id, kind, amount, currency, confirmation_code, provider, detail, attachments, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
	`,
		bookingUUID,
		tripUUID,
		string(owner),
		string(b.Kind),
		b.Amount,
		b.Currency,
		b.ConfirmationCode,
		b.Provider,
		b.Detail,
		atts,
		b.CreatedAt.UTC(),
	)
	if err != nil {
		return domain.Booking{}, err
	}
	return b, nil
}

func (s *Store) Remove(ctx context.Context, owner domain.OwnerID, trip domain.TripID, id domain.BookingID) error {
	// Idempotent: zero rows affected is not an error.
	_, err := s.pool.Exec(ctx, `
		DELETE FROM bookings
		WHERE id = $1 AND trip_id = $2 AND owner_id = $3
	`, string(id), string(trip), string(owner))
	return err
}

func (s *Store) ListByTrip(ctx context.Context, owner domain.OwnerID, trip domain.TripID) ([]domain.Booking, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, kind, amount, currency, confirmation_code, provider, detail, attachments, created_at
		FROM bookings
		WHERE trip_id = $1 AND owner_id = $2
		ORDER BY
			CASE kind WHEN 'HOTEL' THEN 0 WHEN 'FLIGHT' THEN 1 ELSE 2 END,
			created_at ASC,
			id ASC
	`, string(trip), string(owner))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func scanBooking(row pgx.Row) (domain.Booking, error) {
	var (
		b        domain.Booking
		id       uuid.UUID
		kind     string
		attsJSON []byte
	)
	if err := row.Scan(&id, &kind, &b.Amount, &b.Currency, &b.ConfirmationCode, &b.Provider, &b.Detail, &attsJSON, &b.CreatedAt); err != nil {
		return domain.Booking{}, err
	}
	b.ID = domain.BookingID(id.String())
	b.Kind = domain.BookingKind(kind)

	var rows []attachmentRow
	if len(attsJSON) > 0 {
		if err := json.Unmarshal(attsJSON, &rows); err != nil {
			return domain.Booking{}, fmt.Errorf("unmarshal attachments: %w", err)
		}
	}
	b.Attachments = fromAttachmentRows(rows)
	return b, nil
}

func toAttachmentRows(atts []domain.Attachment) []attachmentRow {
	out := make([]attachmentRow, 0, len(atts))
	for _, a := range atts {
		out = append(out, attachmentRow{
			ID:          string(a.ID),
			DisplayName: a.DisplayName,
			Category:    string(a.Category),
			StorageRef:  a.StorageRef,
			UploadedAt:  a.UploadedAt,
		})
	}
	return out
}

func fromAttachmentRows(rows []attachmentRow) []domain.Attachment {
	if len(rows) == 0 {
		return nil
	}
	out := make([]domain.Attachment, 0, len(rows))
	for _, r := range rows {
		out = append(out, domain.Attachment{
			ID:          domain.AttachmentID(r.ID),
			DisplayName: r.DisplayName,
			Category:    domain.AttachmentCategory(r.Category),
			StorageRef:  r.StorageRef,
			UploadedAt:  r.UploadedAt,
		})
	}
	return out
}
