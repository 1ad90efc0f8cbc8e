package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/lifetwin/trip-engine/internal/app/dashboard"
	"github.com/lifetwin/trip-engine/internal/app/ledger"
	"github.com/lifetwin/trip-engine/internal/app/phases"
	"github.com/lifetwin/trip-engine/internal/app/registry"
	"github.com/lifetwin/trip-engine/internal/app/trips"
	"github.com/lifetwin/trip-engine/internal/domain"
)

// Server is the HTTP adapter over the engine's services. It stays thin:
// decode, delegate, encode.
type Server struct {
	Trips      *trips.Service
	Phases     *phases.Controller
	Ledger     *ledger.Service
	Registries *registry.Service
	Dashboards *dashboard.Generator
}

func NewServer(tripsSvc *trips.Service, ctrl *phases.Controller, ledgerSvc *ledger.Service, regSvc *registry.Service, gen *dashboard.Generator) *Server {
	return &Server{
		Trips:      tripsSvc,
		Phases:     ctrl,
		Ledger:     ledgerSvc,
		Registries: regSvc,
		Dashboards: gen,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// --- trips ---------------------------------------------------------------

func (s *Server) listTrips(w http.ResponseWriter, r *http.Request) {
	owner, _ := OwnerFromContext(r.Context())
	ts, err := s.Trips.List(r.Context(), owner)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	out := make([]tripDTO, 0, len(ts))
	for _, t := range ts {
		out = append(out, toTripDTO(t))
	}
	writeJSON(w, http.StatusOK, map[string]any{"trips": out})
}

func (s *Server) getTrip(w http.ResponseWriter, r *http.Request) {
	owner, _ := OwnerFromContext(r.Context())
	t, err := s.Trips.Get(r.Context(), owner, domain.TripID(chi.URLParam(r, "tripID")))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toTripDTO(t))
}

func (s *Server) updateTrip(w http.ResponseWriter, r *http.Request) {
	owner, _ := OwnerFromContext(r.Context())
	var dto updateTripDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeError(w, r, http.StatusBadRequest, "BAD_JSON", "malformed request body", nil)
		return
	}
	in, err := dto.toInput()
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "BAD_JSON", "malformed request body", nil)
		return
	}
	t, err := s.Trips.Update(r.Context(), owner, domain.TripID(chi.URLParam(r, "tripID")), in)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toTripDTO(t))
}

// --- phase transitions ---------------------------------------------------

// advanceNewTrip materializes a client-side placeholder trip and advances
// it out of planning in one logical operation. When the create succeeds but
// the phase write fails, the created still-planning trip rides along in the
// error details so the client can retry with its real id.
func (s *Server) advanceNewTrip(w http.ResponseWriter, r *http.Request) {
	owner, _ := OwnerFromContext(r.Context())
	var req struct {
		Target string      `json:"target"`
		Trip   tripPayload `json:"trip"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "BAD_JSON", "malformed request body", nil)
		return
	}

	out, err := s.Phases.AdvancePhase(r.Context(), req.Trip.toDomain(owner), domain.Phase(req.Target))
	if err != nil {
		if out != nil {
			details := map[string]any{"trip": toTripDTO(out)}
			writeError(w, r, http.StatusBadGateway, "MATERIALIZED_PHASE_PENDING",
				"trip was created but the phase change failed; retry with the returned trip id", details)
			return
		}
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toTripDTO(out))
}

func (s *Server) advanceTrip(w http.ResponseWriter, r *http.Request) {
	owner, _ := OwnerFromContext(r.Context())
	var req struct {
		Target string `json:"target"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "BAD_JSON", "malformed request body", nil)
		return
	}

	t, err := s.Trips.Get(r.Context(), owner, domain.TripID(chi.URLParam(r, "tripID")))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	out, err := s.Phases.AdvancePhase(r.Context(), t, domain.Phase(req.Target))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toTripDTO(out))
}

// --- bookings ------------------------------------------------------------

func (s *Server) addBooking(w http.ResponseWriter, r *http.Request) {
	owner, _ := OwnerFromContext(r.Context())
	var dto bookingDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeError(w, r, http.StatusBadRequest, "BAD_JSON", "malformed request body", nil)
		return
	}
	b, err := s.Ledger.Add(r.Context(), owner, domain.TripID(chi.URLParam(r, "tripID")), dto.toDomain())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toBookingDTO(b))
}

func (s *Server) listBookings(w http.ResponseWriter, r *http.Request) {
	owner, _ := OwnerFromContext(r.Context())
	l, err := s.Ledger.List(r.Context(), owner, domain.TripID(chi.URLParam(r, "tripID")))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toLedgerDTO(l))
}

func (s *Server) removeBooking(w http.ResponseWriter, r *http.Request) {
	owner, _ := OwnerFromContext(r.Context())
	err := s.Ledger.Remove(r.Context(), owner,
		domain.TripID(chi.URLParam(r, "tripID")),
		domain.BookingID(chi.URLParam(r, "bookingID")))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- daily registries ----------------------------------------------------

func parseDateParam(r *http.Request) (time.Time, bool) {
	d, err := time.Parse("2006-01-02", chi.URLParam(r, "date"))
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

func (s *Server) putRegistry(w http.ResponseWriter, r *http.Request) {
	owner, _ := OwnerFromContext(r.Context())
	date, ok := parseDateParam(r)
	if !ok {
		writeError(w, r, http.StatusBadRequest, "BAD_DATE", "date must be YYYY-MM-DD", nil)
		return
	}
	var req struct {
		Activities []activityDTO `json:"activities"`
		Notes      string        `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "BAD_JSON", "malformed request body", nil)
		return
	}
	activities := make([]domain.Activity, 0, len(req.Activities))
	for _, a := range req.Activities {
		activities = append(activities, a.toDomain())
	}
	reg, err := s.Registries.Upsert(r.Context(), owner, domain.TripID(chi.URLParam(r, "tripID")), date, activities, req.Notes)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toRegistryDTO(reg))
}

func (s *Server) getRegistry(w http.ResponseWriter, r *http.Request) {
	owner, _ := OwnerFromContext(r.Context())
	date, ok := parseDateParam(r)
	if !ok {
		writeError(w, r, http.StatusBadRequest, "BAD_DATE", "date must be YYYY-MM-DD", nil)
		return
	}
	reg, err := s.Registries.Get(r.Context(), owner, domain.TripID(chi.URLParam(r, "tripID")), date)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toRegistryDTO(reg))
}

func (s *Server) registryProgress(w http.ResponseWriter, r *http.Request) {
	owner, _ := OwnerFromContext(r.Context())
	tripID := domain.TripID(chi.URLParam(r, "tripID"))
	ratio, err := s.Registries.CompletionRatio(r.Context(), owner, tripID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	dates, err := s.Registries.Dates(r.Context(), owner, tripID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"completionRatio": ratio,
		"totalDays":       dates.Len(),
		"rangeNormalized": dates.Normalized,
	})
}

// --- attachments ---------------------------------------------------------

func (s *Server) addAttachment(w http.ResponseWriter, r *http.Request) {
	owner, _ := OwnerFromContext(r.Context())
	date, ok := parseDateParam(r)
	if !ok {
		writeError(w, r, http.StatusBadRequest, "BAD_DATE", "date must be YYYY-MM-DD", nil)
		return
	}
	idx, err := strconv.Atoi(chi.URLParam(r, "activityIndex"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "BAD_INDEX", "activity index must be an integer", nil)
		return
	}
	var dto attachmentDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeError(w, r, http.StatusBadRequest, "BAD_JSON", "malformed request body", nil)
		return
	}
	att, err := s.Registries.AddAttachment(r.Context(), owner,
		domain.TripID(chi.URLParam(r, "tripID")), date, idx,
		domain.Attachment{
			DisplayName: dto.DisplayName,
			Category:    domain.AttachmentCategory(dto.Category),
			StorageRef:  dto.StorageRef,
		})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toAttachmentDTO(att))
}

func (s *Server) removeAttachment(w http.ResponseWriter, r *http.Request) {
	owner, _ := OwnerFromContext(r.Context())
	date, ok := parseDateParam(r)
	if !ok {
		writeError(w, r, http.StatusBadRequest, "BAD_DATE", "date must be YYYY-MM-DD", nil)
		return
	}
	idx, err := strconv.Atoi(chi.URLParam(r, "activityIndex"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "BAD_INDEX", "activity index must be an integer", nil)
		return
	}
	err = s.Registries.RemoveAttachment(r.Context(), owner,
		domain.TripID(chi.URLParam(r, "tripID")), date, idx,
		domain.AttachmentID(chi.URLParam(r, "attachmentID")))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- dashboard -----------------------------------------------------------

func (s *Server) getDashboard(w http.ResponseWriter, r *http.Request) {
	owner, _ := OwnerFromContext(r.Context())
	t, err := s.Trips.Get(r.Context(), owner, domain.TripID(chi.URLParam(r, "tripID")))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	d, err := s.Dashboards.Generate(r.Context(), t)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toDashboardDTO(d))
}
