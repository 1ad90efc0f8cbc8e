package registrystore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lifetwin/trip-engine/internal/domain"
	"github.com/lifetwin/trip-engine/internal/ports/out/registrystore"
)

// Store is a Postgres implementation of registrystore.Store.
// The activity list (with nested attachments) is the registry's owned
// payload and is stored as one jsonb document per (trip, date) row.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

type activityRow struct {
	Name        string          `json:"name"`
	Category    string          `json:"category"`
	Place       string          `json:"place"`
	StartTime   *time.Time      `json:"startTime,omitempty"`
	EndTime     *time.Time      `json:"endTime,omitempty"`
	Cost        float64         `json:"cost"`
	Rating      *int            `json:"rating,omitempty"`
	Attachments []attachmentRow `json:"attachments,omitempty"`
}

type attachmentRow struct {
	ID          string    `json:"id"`
	DisplayName string    `json:"displayName"`
	Category    string    `json:"category"`
	StorageRef  string    `json:"storageRef"`
	UploadedAt  time.Time `json:"uploadedAt"`
}

func (s *Store) Put(ctx context.Context, owner domain.OwnerID, trip domain.TripID, r domain.DailyRegistry) (domain.DailyRegistry, error) {
	tripUUID, err := uuid.Parse(string(trip))
	if err != nil {
		return domain.DailyRegistry{}, fmt.Errorf("invalid trip id: %w", err)
	}
	r.Date = domain.DateOnly(r.Date)

	payload, err := json.Marshal(toActivityRows(r.Activities))
	if err != nil {
		return domain.DailyRegistry{}, fmt.Errorf("marshal activities: %w", err)
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO daily_registries (trip_id, owner_id, date, activities, notes, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6)
		ON CONFLICT (trip_id, date) DO UPDATE
		SET activities = EXCLUDED.activities,
		    notes      = EXCLUDED.notes,
		    updated_at = EXCLUDED.updated_at
	`,
		tripUUID,
		string(owner),
		r.Date,
		payload,
		r.Notes,
		r.UpdatedAt.UTC(),
	)
	if err != nil {
		return domain.DailyRegistry{}, err
	}
	return r, nil
}

func (s *Store) GetByDate(ctx context.Context, owner domain.OwnerID, trip domain.TripID, date time.Time) (domain.DailyRegistry, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT date, activities, notes, updated_at
		FROM daily_registries
		WHERE trip_id = $1 AND owner_id = $2 AND date = $3
	`, string(trip), string(owner), domain.DateOnly(date))
	r, err := scanRegistry(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.DailyRegistry{}, registrystore.ErrNotFound
		}
		return domain.DailyRegistry{}, err
	}
	return r, nil
}

func (s *Store) ListByTrip(ctx context.Context, owner domain.OwnerID, trip domain.TripID) ([]domain.DailyRegistry, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT date, activities, notes, updated_at
		FROM daily_registries
		WHERE trip_id = $1 AND owner_id = $2
		ORDER BY date ASC
	`, string(trip), string(owner))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.DailyRegistry, 0)
	for rows.Next() {
		r, err := scanRegistry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *Store) CountByTrip(ctx context.Context, owner domain.OwnerID, trip domain.TripID) (int, error) {
	var n int
	err := s.pool.QueryRow(ctx, `
		SELECT count(*) FROM daily_registries
		WHERE trip_id = $1 AND owner_id = $2
	`, string(trip), string(owner)).Scan(&n)
	return n, err
}

func scanRegistry(row pgx.Row) (domain.DailyRegistry, error) {
	var (
		r           domain.DailyRegistry
		payloadJSON []byte
	)
	if err := row.Scan(&r.Date, &payloadJSON, &r.Notes, &r.UpdatedAt); err != nil {
		return domain.DailyRegistry{}, err
	}
	r.Date = domain.DateOnly(r.Date)

	var rows []activityRow
	if len(payloadJSON) > 0 {
		if err := json.Unmarshal(payloadJSON, &rows); err != nil {
			return domain.DailyRegistry{}, fmt.Errorf("unmarshal activities: %w", err)
		}
	}
	r.Activities = fromActivityRows(rows)
	return r, nil
}

func toActivityRows(activities []domain.Activity) []activityRow {
	out := make([]activityRow, 0, len(activities))
	for _, a := range activities {
		row := activityRow{
			Name:      a.Name,
			Category:  string(a.Category),
			Place:     a.Place,
			StartTime: a.StartTime,
			EndTime:   a.EndTime,
			Cost:      a.Cost,
			Rating:    a.Rating,
		}
		for _, att := range a.Attachments {
			row.Attachments = append(row.Attachments, attachmentRow{
				ID:          string(att.ID),
				DisplayName: att.DisplayName,
				Category:    string(att.Category),
				StorageRef:  att.StorageRef,
				UploadedAt:  att.UploadedAt,
			})
		}
		out = append(out, row)
	}
	return out
}

func fromActivityRows(rows []activityRow) []domain.Activity {
	if len(rows) == 0 {
		return nil
	}
	out := make([]domain.Activity, 0, len(rows))
	for _, row := range rows {
		a := domain.Activity{
			Name:      row.Name,
			Category:  domain.ActivityCategory(row.Category),
			Place:     row.Place,
			StartTime: row.StartTime,
			EndTime:   row.EndTime,
			Cost:      row.Cost,
			Rating:    row.Rating,
		}
		for _, att := range row.Attachments {
			a.Attachments = append(a.Attachments, domain.Attachment{
				ID:          domain.AttachmentID(att.ID),
				DisplayName: att.DisplayName,
				Category:    domain.AttachmentCategory(att.Category),
				StorageRef:  att.StorageRef,
				UploadedAt:  att.UploadedAt,
			})
		}
		out = append(out, a)
	}
	return out
}
