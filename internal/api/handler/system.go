package handler

import (
	"net/http"

	"github.com/masseyis/tdg/internal/api/response"
	"github.com/masseyis/tdg/internal/cache"
)

// NewStatsHandler returns the handler for GET /api/v1/stats.
func NewStatsHandler(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		response.JSON(w, svc.Stats())
	}
}

// NewHealthHandler returns the handler for GET /api/v1/health. A missing
// cache is healthy; a configured cache that fails its ping degrades the
// service.
func NewHealthHandler(c cache.Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if c != nil {
			if err := c.Ping(r.Context()); err != nil {
				response.Error(w, http.StatusServiceUnavailable, "DEGRADED",
					"One or more services degraded", map[string]string{"cache": "degraded"})
				return
			}
		}
		response.JSON(w, map[string]string{"status": "ok"})
	}
}
