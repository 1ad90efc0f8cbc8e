package tripstore

import (
	"testing"

	"github.com/lifetwin/trip-engine/internal/adapters/contracttest"
	tripstoreport "github.com/lifetwin/trip-engine/internal/ports/out/tripstore"
)

func TestContract_TripStore(t *testing.T) {
	contracttest.RunTripStore(t, func(t *testing.T) (tripstoreport.Store, func()) {
		t.Helper()
		return NewStore(), nil
	})
}
