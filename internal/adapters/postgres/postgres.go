// Package postgres holds helpers shared by the pgx-backed store adapters.
package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// UniqueViolationCode is the Postgres error code for unique constraint violations.
const UniqueViolationCode = "23505"

// AsPgError unwraps err into a *pgconn.PgError when possible.
func AsPgError(err error) (*pgconn.PgError, bool) {
	var pe *pgconn.PgError
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}

// IsRetryable reports whether err looks like a transient backend failure
// (timeout, canceled dial, dropped connection) rather than a deterministic
// one. Used by adapters to decide whether to wrap errors as transient.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	if pgconn.Timeout(err) {
		return true
	}
	var pe *pgconn.PgError
	if errors.As(err, &pe) {
		// Class 08 covers connection exceptions; class 57 covers
		// operator intervention such as shutdown in progress.
		return len(pe.Code) >= 2 && (pe.Code[:2] == "08" || pe.Code[:2] == "57")
	}
	return false
}
