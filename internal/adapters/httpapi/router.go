package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
)

// NewRouter constructs the API HTTP router.
//
// This is intentionally a thin adapter: routes and middleware are wired
// here, all behavior lives in the app services behind the Server.
func NewRouter(s *Server, log zerolog.Logger, corsOrigins []string) http.Handler {
	r := chi.NewRouter()

	// Baseline production-safe middleware.
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(NewRequestLogger(log))
	r.Use(NewMetricsMiddleware())
	r.Use(middleware.Recoverer)
	r.Use(cors.New(cors.Options{
		AllowedOrigins: corsOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", OwnerHeader},
	}).Handler)

	// Health and metrics are deliberately outside /v1 (infra surface).
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Use(NewOwnerMiddleware())

		r.Get("/trips", s.listTrips)
		// Materialize-and-advance for placeholder trips.
		r.Post("/trips/advance", s.advanceNewTrip)

		r.Route("/trips/{tripID}", func(r chi.Router) {
			r.Get("/", s.getTrip)
			r.Patch("/", s.updateTrip)
			r.Post("/phase", s.advanceTrip)

			r.Post("/bookings", s.addBooking)
			r.Get("/bookings", s.listBookings)
			r.Delete("/bookings/{bookingID}", s.removeBooking)

			r.Get("/registries/progress", s.registryProgress)
			r.Put("/registries/{date}", s.putRegistry)
			r.Get("/registries/{date}", s.getRegistry)
			r.Post("/registries/{date}/activities/{activityIndex}/attachments", s.addAttachment)
			r.Delete("/registries/{date}/activities/{activityIndex}/attachments/{attachmentID}", s.removeAttachment)

			r.Get("/dashboard", s.getDashboard)
		})
	})

	return r
}
