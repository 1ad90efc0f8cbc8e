package ledger_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	membookingstore "github.com/lifetwin/trip-engine/internal/adapters/memory/bookingstore"
	"github.com/lifetwin/trip-engine/internal/app/ledger"
	"github.com/lifetwin/trip-engine/internal/domain"
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

func newService(t *testing.T) (*ledger.Service, *membookingstore.Store) {
	t.Helper()
	store := membookingstore.NewStore()
	svc := ledger.NewService(store, fixedClock{now: time.Unix(5000, 0).UTC()})
	n := 0
	svc.SetNewBookingIDForTest(func() domain.BookingID {
		n++
		return domain.BookingID(fmt.Sprintf("b%d", n))
	})
	return svc, store
}

func TestService_AddAssignsIdentityAndTime(t *testing.T) {
	t.Parallel()
	svc, _ := newService(t)

	b, err := svc.Add(context.Background(), "u1", "t1", domain.Booking{
		Kind:     domain.BookingKindHotel,
		Amount:   400,
		Currency: "EUR",
		Provider: "Hotel Forum",
	})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if b.ID != "b1" {
		t.Fatalf("ID=%s", b.ID)
	}
	if b.CreatedAt.IsZero() {
		t.Fatalf("CreatedAt not assigned")
	}
}

func TestService_AddRejectsInvalidBooking(t *testing.T) {
	t.Parallel()
	svc, store := newService(t)

	_, err := svc.Add(context.Background(), "u1", "t1", domain.Booking{
		Kind:   domain.BookingKind("CRUISE"),
		Amount: -5,
	})
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("err=%v, want ValidationError", err)
	}
	if len(ve.Unmet) != 2 {
		t.Fatalf("unmet=%v", ve.Unmet)
	}

	bs, _ := store.ListByTrip(context.Background(), "u1", "t1")
	if len(bs) != 0 {
		t.Fatalf("invalid booking must not be stored")
	}
}

func TestService_ListGroupsByKind(t *testing.T) {
	t.Parallel()
	svc, _ := newService(t)
	ctx := context.Background()

	for _, b := range []domain.Booking{
		{Kind: domain.BookingKindOther, Amount: 60, Provider: "City Tours"},
		{Kind: domain.BookingKindHotel, Amount: 400, Provider: "Hotel Forum"},
		{Kind: domain.BookingKindFlight, Amount: 220, Provider: "ITA"},
	} {
		if _, err := svc.Add(ctx, "u1", "t1", b); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}

	l, err := svc.List(ctx, "u1", "t1")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	h, f, o := l.Counts()
	if h != 1 || f != 1 || o != 1 {
		t.Fatalf("counts=%d/%d/%d", h, f, o)
	}
	if got := l.Subtotal(); got != 680 {
		t.Fatalf("Subtotal=%v, want 680", got)
	}
}

func TestService_SubtotalRecomputedAfterRemoval(t *testing.T) {
	t.Parallel()
	svc, _ := newService(t)
	ctx := context.Background()

	first, err := svc.Add(ctx, "u1", "t1", domain.Booking{Kind: domain.BookingKindHotel, Amount: 400})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if _, err := svc.Add(ctx, "u1", "t1", domain.Booking{Kind: domain.BookingKindFlight, Amount: 220}); err != nil {
		t.Fatalf("Add: %v", err)
	}

	if err := svc.Remove(ctx, "u1", "t1", first.ID); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	sum, err := svc.Subtotal(ctx, "u1", "t1")
	if err != nil {
		t.Fatalf("Subtotal: %v", err)
	}
	if sum != 220 {
		t.Fatalf("Subtotal=%v, want 220", sum)
	}

	// Removing the same id again stays a no-op with an unchanged total.
	if err := svc.Remove(ctx, "u1", "t1", first.ID); err != nil {
		t.Fatalf("Remove again: %v", err)
	}
	sum, _ = svc.Subtotal(ctx, "u1", "t1")
	if sum != 220 {
		t.Fatalf("Subtotal=%v after duplicate removal, want 220", sum)
	}
}
