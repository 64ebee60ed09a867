package api_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/masseyis/tdg/internal/api"
	mw "github.com/masseyis/tdg/internal/api/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter() http.Handler {
	return api.NewRouter(api.Dependencies{
		RateLimit: mw.NewRateLimit(nil, 60),
		HealthHandler: func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{"status":"ok"}`))
		},
	})
}

func TestRouter_HealthEndpoint(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest("GET", "/api/v1/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_MountsAllRoutes(t *testing.T) {
	router := newTestRouter()

	// Unwired handlers answer 501, so anything mounted is distinguishable
	// from chi's 404/405.
	endpoints := []struct {
		method string
		path   string
	}{
		{"POST", "/api/v1/generate"},
		{"GET", "/api/v1/jobs/3a2d9c66-5bb8-4d39-9365-1b4a54a0a8e3/events"},
		{"GET", "/api/v1/jobs/3a2d9c66-5bb8-4d39-9365-1b4a54a0a8e3/result"},
		{"DELETE", "/api/v1/jobs/3a2d9c66-5bb8-4d39-9365-1b4a54a0a8e3"},
		{"GET", "/api/v1/jobs/3a2d9c66-5bb8-4d39-9365-1b4a54a0a8e3/artifacts/json"},
		{"GET", "/api/v1/stats"},
	}

	for _, ep := range endpoints {
		t.Run(ep.method+" "+ep.path, func(t *testing.T) {
			req := httptest.NewRequest(ep.method, ep.path, nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusNotImplemented, w.Code)

			var body map[string]any
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			errObj := body["error"].(map[string]any)
			assert.Equal(t, "NOT_IMPLEMENTED", errObj["code"])
		})
	}
}

func TestRouter_NotFound(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest("GET", "/api/v1/nonexistent", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
