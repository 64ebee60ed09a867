package handler

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/masseyis/tdg/internal/api/response"
	"github.com/masseyis/tdg/internal/render"
)

// NewArtifactHandler returns the handler for
// GET /api/v1/jobs/{jobID}/artifacts/{format}. Artifacts exist only for
// finished jobs.
func NewArtifactHandler(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		jobID, ok := jobIDParam(w, r)
		if !ok {
			return
		}

		format := chi.URLParam(r, "format")
		if format != "json" && format != "postman" {
			response.Error(w, http.StatusBadRequest, "INVALID_FORMAT",
				"Format must be json or postman", nil)
			return
		}

		result, err := svc.Result(jobID)
		if err != nil {
			writeResultError(w, err)
			return
		}

		var artifact []byte
		var filename string
		switch format {
		case "json":
			artifact, err = render.JSON(result)
			filename = fmt.Sprintf("cases-%s.json", jobID)
		case "postman":
			artifact, err = render.Postman(result, "")
			filename = fmt.Sprintf("cases-%s.postman_collection.json", jobID)
		}
		if err != nil {
			response.Error(w, http.StatusInternalServerError, "RENDER_FAILED",
				"Failed to render artifact", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
		w.WriteHeader(http.StatusOK)
		w.Write(artifact)
	}
}
