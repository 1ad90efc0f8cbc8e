package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/oapi-codegen/nullable"

	"github.com/lifetwin/trip-engine/internal/domain"
	"github.com/lifetwin/trip-engine/internal/ports/out/registrystore"
	"github.com/lifetwin/trip-engine/internal/ports/out/tripstore"
)

// errorResponse is the JSON error envelope shared by all endpoints.
type errorResponse struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Code      string                            `json:"code"`
	Message   string                            `json:"message"`
	Details   nullable.Nullable[map[string]any] `json:"details,omitempty"`
	RequestID nullable.Nullable[string]         `json:"requestId,omitempty"`
}

func writeError(w http.ResponseWriter, r *http.Request, status int, code, message string, details map[string]any) {
	var er errorResponse
	er.Error.Code = code
	er.Error.Message = message
	if details != nil {
		er.Error.Details = nullable.NewNullableWithValue(details)
	}
	if rid := middleware.GetReqID(r.Context()); rid != "" {
		er.Error.RequestID = nullable.NewNullableWithValue(rid)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(er)
}

// writeDomainError maps the engine's error taxonomy onto HTTP statuses.
// Validation-class failures always carry their full unmet-condition list;
// store failures surface a retryable message distinct from them.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		ve *domain.ValidationError
		it *domain.InvalidTransitionError
		dr *domain.DateOutOfRangeError
		pe *domain.PhaseError
	)
	switch {
	case errors.As(err, &ve):
		details := map[string]any{"unmet": ve.Unmet, "subject": ve.Subject}
		writeError(w, r, http.StatusUnprocessableEntity, "VALIDATION_ERROR", ve.Error(), details)
	case errors.As(err, &it):
		details := map[string]any{"from": string(it.From), "to": string(it.To)}
		writeError(w, r, http.StatusConflict, "INVALID_TRANSITION", it.Error(), details)
	case errors.As(err, &dr):
		writeError(w, r, http.StatusUnprocessableEntity, "DATE_OUT_OF_RANGE", dr.Error(), nil)
	case errors.As(err, &pe):
		details := map[string]any{"required": string(pe.Required), "actual": string(pe.Actual)}
		writeError(w, r, http.StatusConflict, "PHASE_ERROR", pe.Error(), details)
	case errors.Is(err, tripstore.ErrNotFound), errors.Is(err, registrystore.ErrNotFound):
		writeError(w, r, http.StatusNotFound, "NOT_FOUND", "resource not found", nil)
	case tripstore.IsTransient(err):
		writeError(w, r, http.StatusBadGateway, "STORE_UNAVAILABLE", "backing store temporarily unavailable; retry the request", nil)
	default:
		writeError(w, r, http.StatusInternalServerError, "INTERNAL", "internal error", nil)
	}
}
