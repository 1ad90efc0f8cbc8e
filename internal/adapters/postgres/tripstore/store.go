package tripstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/lifetwin/trip-engine/internal/adapters/postgres"
	"github.com/lifetwin/trip-engine/internal/domain"
	"github.com/lifetwin/trip-engine/internal/ports/out/tripstore"
)

// Store is a Postgres implementation of tripstore.Store.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

const tripColumns = `id, owner_id, phase, title, country, city, start_date, end_date, currency, budget, notes, created_at, updated_at`

func (s *Store) Create(ctx context.Context, t tripstore.Trip) error {
	if s.pool == nil {
		return errors.New("nil postgres pool")
	}
	tripUUID, err := uuid.Parse(string(t.ID))
	if err != nil {
		return fmt.Errorf("%w: %v", tripstore.ErrInvalidID, err)
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO trips (`+tripColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
	`,
		tripUUID,
		string(t.Owner),
		string(t.Phase),
		t.Title,
		t.Country,
		t.City,
		t.StartDate,
		t.EndDate,
		t.Currency,
		t.Budget,
		t.Notes,
		t.CreatedAt.UTC(),
		t.UpdatedAt.UTC(),
	)
	if err != nil {
		if pe, ok := postgres.AsPgError(err); ok && pe.Code == postgres.UniqueViolationCode {
			return tripstore.ErrAlreadyExists
		}
		return classify(err)
	}
	return nil
}

func (s *Store) GetByID(ctx context.Context, owner domain.OwnerID, id domain.TripID) (tripstore.Trip, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+tripColumns+`
		FROM trips
		WHERE id = $1 AND owner_id = $2
	`, string(id), string(owner))
	t, err := scanTrip(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return tripstore.Trip{}, tripstore.ErrNotFound
		}
		return tripstore.Trip{}, classify(err)
	}
	return t, nil
}

func (s *Store) ListByOwner(ctx context.Context, owner domain.OwnerID) ([]tripstore.Trip, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+tripColumns+`
		FROM trips
		WHERE owner_id = $1
		ORDER BY start_date ASC NULLS LAST, id ASC
	`, string(owner))
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()

	out := make([]tripstore.Trip, 0)
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(err)
	}
	return out, nil
}

func (s *Store) Save(ctx context.Context, t tripstore.Trip) (tripstore.Trip, error) {
	// phase is deliberately absent from the SET list: it only changes
	// through UpdatePhase.
	row := s.pool.QueryRow(ctx, `
		UPDATE trips
		SET title = $3, country = $4, city = $5, start_date = $6, end_date = $7,
		    currency = $8, budget = $9, notes = $10, updated_at = now()
		WHERE id = $1 AND owner_id = $2
		RETURNING `+tripColumns+`
	`,
		string(t.ID), string(t.Owner),
		t.Title, t.Country, t.City,
		t.StartDate, t.EndDate,
		t.Currency, t.Budget, t.Notes,
	)
	out, err := scanTrip(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return tripstore.Trip{}, tripstore.ErrNotFound
		}
		return tripstore.Trip{}, classify(err)
	}
	return out, nil
}

func (s *Store) UpdatePhase(ctx context.Context, owner domain.OwnerID, id domain.TripID, phase domain.Phase) (tripstore.Trip, error) {
	row := s.pool.QueryRow(ctx, `
		UPDATE trips
		SET phase = $3, updated_at = now()
		WHERE id = $1 AND owner_id = $2
		RETURNING `+tripColumns+`
	`, string(id), string(owner), string(phase))
	t, err := scanTrip(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return tripstore.Trip{}, tripstore.ErrNotFound
		}
		return tripstore.Trip{}, classify(err)
	}
	return t, nil
}

func scanTrip(row pgx.Row) (tripstore.Trip, error) {
	var (
		t     tripstore.Trip
		id    uuid.UUID
		owner string
		phase string
	)
	if err := row.Scan(
		&id, &owner, &phase,
		&t.Title, &t.Country, &t.City,
		&t.StartDate, &t.EndDate,
		&t.Currency, &t.Budget, &t.Notes,
		&t.CreatedAt, &t.UpdatedAt,
	); err != nil {
		return tripstore.Trip{}, err
	}
	t.ID = domain.TripID(id.String())
	t.Owner = domain.OwnerID(owner)
	t.Phase = domain.Phase(phase)
	return t, nil
}

// classify wraps retryable backend failures as transient so the phase
// controller can distinguish them from deterministic errors.
func classify(err error) error {
	if postgres.IsRetryable(err) {
		return tripstore.Transient(err)
	}
	return err
}
