package domain_test

import (
	"testing"
	"time"

	"github.com/lifetwin/trip-engine/internal/domain"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestGenerateDateRange_Inclusive(t *testing.T) {
	t.Parallel()

	end := date(2026, 6, 13)
	rng := domain.GenerateDateRange(date(2026, 6, 10), &end)
	if rng.Len() != 4 {
		t.Fatalf("Len=%d, want 4", rng.Len())
	}
	if !rng.Dates[0].Equal(date(2026, 6, 10)) || !rng.Dates[3].Equal(end) {
		t.Fatalf("dates=%v", rng.Dates)
	}
	if rng.Normalized {
		t.Fatalf("forward range must not be flagged as normalized")
	}
}

func TestGenerateDateRange_NilEndIsSingleDay(t *testing.T) {
	t.Parallel()

	rng := domain.GenerateDateRange(date(2026, 6, 10), nil)
	if rng.Len() != 1 || !rng.Dates[0].Equal(date(2026, 6, 10)) {
		t.Fatalf("dates=%v", rng.Dates)
	}
}

func TestGenerateDateRange_InvertedEndIsNormalized(t *testing.T) {
	t.Parallel()

	end := date(2026, 6, 1)
	rng := domain.GenerateDateRange(date(2026, 6, 10), &end)
	if rng.Len() != 1 || !rng.Dates[0].Equal(date(2026, 6, 10)) {
		t.Fatalf("dates=%v", rng.Dates)
	}
	if !rng.Normalized {
		t.Fatalf("inverted range must carry the Normalized flag")
	}
}

func TestGenerateDateRange_IgnoresTimeOfDay(t *testing.T) {
	t.Parallel()

	start := time.Date(2026, 6, 10, 23, 15, 0, 0, time.UTC)
	end := time.Date(2026, 6, 11, 0, 5, 0, 0, time.UTC)
	rng := domain.GenerateDateRange(start, &end)
	if rng.Len() != 2 {
		t.Fatalf("Len=%d, want 2", rng.Len())
	}
}

func TestTripDates_Contains(t *testing.T) {
	t.Parallel()

	end := date(2026, 6, 12)
	rng := domain.GenerateDateRange(date(2026, 6, 10), &end)

	if !rng.Contains(date(2026, 6, 10)) || !rng.Contains(date(2026, 6, 12)) {
		t.Fatalf("boundary dates must be inside the range")
	}
	if rng.Contains(date(2026, 6, 9)) || rng.Contains(date(2026, 6, 13)) {
		t.Fatalf("dates outside the range must be excluded")
	}
	// Time-of-day components never affect membership.
	if !rng.Contains(time.Date(2026, 6, 11, 18, 30, 0, 0, time.UTC)) {
		t.Fatalf("same-day timestamp must be inside the range")
	}
}

func TestTripDateRange_RequiresStartDate(t *testing.T) {
	t.Parallel()

	if _, ok := domain.TripDateRange(&domain.Trip{}); ok {
		t.Fatalf("expected ok=false without a start date")
	}
	sd := date(2026, 6, 10)
	rng, ok := domain.TripDateRange(&domain.Trip{StartDate: &sd})
	if !ok || rng.Len() != 1 {
		t.Fatalf("ok=%v len=%d", ok, rng.Len())
	}
}
