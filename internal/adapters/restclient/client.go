// Package restclient implements the store ports against a remote trip-data
// HTTP service. The engine stays agnostic to that service's internals; this
// adapter only speaks its REST surface and classifies its failures into
// not-found vs transient so the phase controller can decide about retries.
package restclient

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	openapitypes "github.com/oapi-codegen/runtime/types"
)

// Client holds the shared resty client. The per-port adapters (TripStore,
// BookingStore, RegistryStore) embed it.
type Client struct {
	http *resty.Client
}

// New builds a Client for the remote store at baseURL.
func New(baseURL string) *Client {
	c := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Content-Type", "application/json").
		SetTimeout(30 * time.Second)
	return &Client{http: c}
}

// statusError is a non-2xx response that is not a recognized store
// condition. The body is carried for diagnostics.
type statusError struct {
	Status int
	Body   string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("remote store returned %d: %s", e.Status, e.Body)
}

// retryable reports whether the response indicates a transient condition.
func retryable(resp *resty.Response) bool {
	return resp.StatusCode() >= http.StatusInternalServerError ||
		resp.StatusCode() == http.StatusTooManyRequests
}

// wireDate formats t as the service's date-only representation.
func wireDate(t time.Time) openapitypes.Date {
	return openapitypes.Date{Time: t}
}
