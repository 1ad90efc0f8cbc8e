package domain

import (
	"fmt"
	"strings"
	"time"
)

// The error types below are the engine's deterministic, locally-detectable
// failure classes. They are raised before any store call is attempted, so a
// caller seeing one of them knows no partial write happened. Store failures
// are a separate class owned by the ports packages.

// ValidationError carries the specific list of unmet conditions from a gate
// predicate or an activity/booking validation. It is never a bare boolean.
type ValidationError struct {
	// Subject names what failed validation ("trip", "activity 2", ...).
	Subject string
	Unmet   []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s validation failed: %s", e.Subject, strings.Join(e.Unmet, "; "))
}

// InvalidTransitionError reports a phase-advance request whose target is not
// the immediate successor of the current phase. There is no clamping or
// skipping: the request fails as-is.
type InvalidTransitionError struct {
	From Phase
	To   Phase
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid phase transition %s -> %s", e.From, e.To)
}

// DateOutOfRangeError reports a daily-registry write targeting a date
// outside the trip's inclusive [start, end] range.
type DateOutOfRangeError struct {
	Date  time.Time
	Start time.Time
	End   time.Time
}

func (e *DateOutOfRangeError) Error() string {
	return fmt.Sprintf("date %s outside trip range [%s, %s]",
		e.Date.Format("2006-01-02"), e.Start.Format("2006-01-02"), e.End.Format("2006-01-02"))
}

// PhaseError reports an operation invoked in the wrong lifecycle phase,
// e.g. dashboard generation before the trip is finalized.
type PhaseError struct {
	Required Phase
	Actual   Phase
}

func (e *PhaseError) Error() string {
	return fmt.Sprintf("operation requires phase %s, trip is in %s", e.Required, e.Actual)
}
