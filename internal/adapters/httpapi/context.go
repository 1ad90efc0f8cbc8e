package httpapi

import (
	"context"
	"net/http"

	"github.com/lifetwin/trip-engine/internal/domain"
)

type ctxKey int

const ownerKey ctxKey = iota

// OwnerHeader carries the caller's identity. Authentication proper is
// handled upstream of this service; the engine only needs a stable owner id
// to key every store operation.
const OwnerHeader = "X-Owner-ID"

// NewOwnerMiddleware extracts the owner id header and rejects requests
// without one.
func NewOwnerMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			owner := r.Header.Get(OwnerHeader)
			if owner == "" {
				writeError(w, r, http.StatusUnauthorized, "OWNER_REQUIRED", "missing "+OwnerHeader+" header", nil)
				return
			}
			ctx := context.WithValue(r.Context(), ownerKey, domain.OwnerID(owner))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OwnerFromContext returns the owner id set by NewOwnerMiddleware.
func OwnerFromContext(ctx context.Context) (domain.OwnerID, bool) {
	o, ok := ctx.Value(ownerKey).(domain.OwnerID)
	return o, ok
}
