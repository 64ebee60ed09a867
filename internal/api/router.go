package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	mw "github.com/masseyis/tdg/internal/api/middleware"
	"github.com/masseyis/tdg/internal/api/response"
)

// Dependencies holds all handler and middleware dependencies for the router.
type Dependencies struct {
	RateLimit *mw.RateLimit

	HealthHandler   http.HandlerFunc
	GenerateHandler http.HandlerFunc
	EventsHandler   http.HandlerFunc
	ResultHandler   http.HandlerFunc
	CancelHandler   http.HandlerFunc
	ArtifactHandler http.HandlerFunc
	StatsHandler    http.HandlerFunc
}

// NewRouter builds the Chi router with middleware stack and all routes.
func NewRouter(deps Dependencies) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(mw.Logger)
	r.Use(mw.Recovery)

	// Public health check
	r.Get("/api/v1/health", orNotImplemented(deps.HealthHandler))

	// Rate-limited routes
	r.Group(func(r chi.Router) {
		r.Use(deps.RateLimit.Limit)

		r.Post("/api/v1/generate", orNotImplemented(deps.GenerateHandler))
		r.Get("/api/v1/jobs/{jobID}/events", orNotImplemented(deps.EventsHandler))
		r.Get("/api/v1/jobs/{jobID}/result", orNotImplemented(deps.ResultHandler))
		r.Delete("/api/v1/jobs/{jobID}", orNotImplemented(deps.CancelHandler))
		r.Get("/api/v1/jobs/{jobID}/artifacts/{format}", orNotImplemented(deps.ArtifactHandler))
		r.Get("/api/v1/stats", orNotImplemented(deps.StatsHandler))
	})

	return r
}

// orNotImplemented returns the handler if non-nil, or a 501 placeholder.
func orNotImplemented(h http.HandlerFunc) http.HandlerFunc {
	if h != nil {
		return h
	}
	return func(w http.ResponseWriter, r *http.Request) {
		response.Error(w, http.StatusNotImplemented, "NOT_IMPLEMENTED", "Endpoint not yet implemented", nil)
	}
}
