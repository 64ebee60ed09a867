package handler

import (
	"errors"
	"net/http"

	"github.com/masseyis/tdg/internal/api/response"
	"github.com/masseyis/tdg/internal/generation"
)

// NewResultHandler returns the handler for GET /api/v1/jobs/{jobID}/result.
func NewResultHandler(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		jobID, ok := jobIDParam(w, r)
		if !ok {
			return
		}

		result, err := svc.Result(jobID)
		if err != nil {
			writeResultError(w, err)
			return
		}

		response.JSON(w, result)
	}
}

// NewCancelHandler returns the handler for DELETE /api/v1/jobs/{jobID}.
// Only jobs that are still queued can be canceled.
func NewCancelHandler(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		jobID, ok := jobIDParam(w, r)
		if !ok {
			return
		}

		if !svc.Cancel(jobID) {
			response.Error(w, http.StatusConflict, "NOT_CANCELABLE",
				"Job already started, finished, or does not exist", nil)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func writeResultError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, generation.ErrNotFound):
		response.Error(w, http.StatusNotFound, "JOB_NOT_FOUND", "Job not found", nil)
	case errors.Is(err, generation.ErrNotReady):
		response.Error(w, http.StatusConflict, "JOB_NOT_READY", "Job has not finished yet", nil)
	default:
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR",
			"An unexpected error occurred", nil)
	}
}
