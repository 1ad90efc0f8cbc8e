package bookingstore

import (
	"testing"

	"github.com/lifetwin/trip-engine/internal/adapters/contracttest"
	"github.com/lifetwin/trip-engine/internal/adapters/postgres/testutil"
	pgtripstore "github.com/lifetwin/trip-engine/internal/adapters/postgres/tripstore"
	bookingstoreport "github.com/lifetwin/trip-engine/internal/ports/out/bookingstore"
	tripstoreport "github.com/lifetwin/trip-engine/internal/ports/out/tripstore"
)

func TestContract_PostgresBookingStore(t *testing.T) {
	pool := testutil.OpenMigratedPool(t)

	contracttest.RunBookingStore(
		t,
		func(t *testing.T) (tripstoreport.Store, func()) {
			t.Helper()
			return pgtripstore.NewStore(pool), nil
		},
		func(t *testing.T) (bookingstoreport.Store, func()) {
			t.Helper()
			return NewStore(pool), nil
		},
	)
}
