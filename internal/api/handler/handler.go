// Package handler implements the HTTP handlers for the generation API.
// Every handler is constructed against a narrow service interface so the
// contract tests can run the full stack in memory.
package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/masseyis/tdg/internal/api/response"
	"github.com/masseyis/tdg/internal/generation"
	"github.com/masseyis/tdg/pkg/models"
)

// Service is the generation core surface the handlers depend on.
type Service interface {
	Submit(endpoints []models.EndpointSpec, opts models.GenerationOptions, priority models.Priority) (uuid.UUID, error)
	Subscribe(jobID uuid.UUID) (<-chan models.ProgressEvent, func(), error)
	Result(jobID uuid.UUID) (*models.GenerationResult, error)
	Cancel(jobID uuid.UUID) bool
	Stats() generation.Stats
}

// jobIDParam parses the jobID route parameter, writing a 400 on malformed
// IDs.
func jobIDParam(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	jobID, err := uuid.Parse(chi.URLParam(r, "jobID"))
	if err != nil {
		response.Error(w, http.StatusBadRequest, "INVALID_JOB_ID", "Invalid job ID format", nil)
		return uuid.Nil, false
	}
	return jobID, true
}
