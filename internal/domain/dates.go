package domain

import "time"

// DateOnly truncates t to UTC midnight. All calendar-date comparisons in the
// engine go through this so wall-clock components never affect range checks.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// SameDate reports whether a and b fall on the same UTC calendar date.
func SameDate(a, b time.Time) bool { return DateOnly(a).Equal(DateOnly(b)) }

// TripDates is the inclusive calendar-date sequence of a trip.
type TripDates struct {
	Dates []time.Time

	// Normalized is true when the requested end date preceded the start
	// date and was clamped to it. Callers must surface this rather than
	// treat the clamp as silent: an inverted range usually means bad input
	// upstream, and hiding it would mask that bug.
	Normalized bool
}

// Len is the number of days in the range.
func (d TripDates) Len() int { return len(d.Dates) }

// Contains reports whether date falls inside the range.
func (d TripDates) Contains(date time.Time) bool {
	if len(d.Dates) == 0 {
		return false
	}
	day := DateOnly(date)
	return !day.Before(d.Dates[0]) && !day.After(d.Dates[len(d.Dates)-1])
}

// GenerateDateRange produces the ordered inclusive calendar dates between
// start and end. A nil end means a single-day trip. An end earlier than
// start is normalized to start (single-day fallback) with Normalized set.
func GenerateDateRange(start time.Time, end *time.Time) TripDates {
	first := DateOnly(start)
	last := first
	normalized := false
	if end != nil {
		last = DateOnly(*end)
		if last.Before(first) {
			last = first
			normalized = true
		}
	}

	var dates []time.Time
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d)
	}
	return TripDates{Dates: dates, Normalized: normalized}
}

// TripDateRange resolves the trip's own inclusive date range.
// ok is false when the trip has no start date yet.
func TripDateRange(t *Trip) (TripDates, bool) {
	if t == nil || t.StartDate == nil {
		return TripDates{}, false
	}
	return GenerateDateRange(*t.StartDate, t.EndDate), true
}
