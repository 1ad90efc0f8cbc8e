package trips

import "time"

// Optional is a tri-state field used to distinguish:
// - unspecified (omitted)
// - specified as null
// - specified with a value
type Optional[T any] struct {
	specified bool
	isNull    bool
	value     T
}

func Unspecified[T any]() Optional[T] { return Optional[T]{} }
func Null[T any]() Optional[T]        { return Optional[T]{specified: true, isNull: true} }
func Some[T any](v T) Optional[T]     { return Optional[T]{specified: true, value: v} }

func (o Optional[T]) IsSpecified() bool { return o.specified }
func (o Optional[T]) IsNull() bool      { return o.specified && o.isNull }
func (o Optional[T]) Value() T          { return o.value }

// UpdateTripInput is a partial update of a trip's descriptive fields.
// Only planning-phase trips accept it: a completed phase stays viewable but
// frozen.
type UpdateTripInput struct {
	// Title is optional and cannot be null.
	Title Optional[string]

	Country Optional[string]
	City    Optional[string]

	StartDate Optional[time.Time]
	// EndDate null reverts the trip to a single-day range.
	EndDate Optional[time.Time]

	Currency Optional[string]
	Budget   Optional[float64]
	Notes    Optional[string]
}
