package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/masseyis/tdg/internal/api/response"
	"github.com/masseyis/tdg/internal/generation"
	"github.com/masseyis/tdg/internal/openapi"
	"github.com/masseyis/tdg/pkg/models"
)

var validate = validator.New()

// generateRequest accepts either an inline OpenAPI document or a
// pre-normalized endpoint list, never both. The document may be a JSON
// object or a string holding raw JSON or YAML.
type generateRequest struct {
	Document  json.RawMessage       `json:"document"`
	Endpoints []models.EndpointSpec `json:"endpoints" validate:"omitempty,max=100"`
	Options   generateOptions       `json:"options"`
	Priority  string                `json:"priority"`
}

type generateOptions struct {
	CasesPerEndpoint int    `json:"cases_per_endpoint" validate:"omitempty,gte=1"`
	DomainHint       string `json:"domain_hint" validate:"omitempty,max=200"`
	Seed             *int64 `json:"seed"`
	Speed            string `json:"speed" validate:"omitempty,oneof=foundation fast balanced quality"`
}

// NewGenerateHandler returns the handler for POST /api/v1/generate.
func NewGenerateHandler(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req generateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid JSON body", nil)
			return
		}

		if err := validate.Struct(req); err != nil {
			response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR",
				"Invalid request parameters", validationDetails(err))
			return
		}

		doc := documentBytes(req.Document)
		endpoints := req.Endpoints
		switch {
		case doc != nil && len(endpoints) > 0:
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST",
				"Provide either document or endpoints, not both", nil)
			return
		case doc != nil:
			spec, err := openapi.Parse(doc)
			if err != nil {
				response.Error(w, http.StatusBadRequest, "INVALID_DOCUMENT", err.Error(), nil)
				return
			}
			endpoints = spec.Endpoints
		case len(endpoints) == 0:
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST",
				"Either document or endpoints is required", nil)
			return
		}

		priority, err := models.ParsePriority(req.Priority)
		if err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_PRIORITY", err.Error(), nil)
			return
		}

		opts := models.GenerationOptions{
			CasesPerEndpoint: req.Options.CasesPerEndpoint,
			DomainHint:       req.Options.DomainHint,
			Seed:             req.Options.Seed,
			Speed:            models.SpeedPreference(req.Options.Speed),
		}

		jobID, err := svc.Submit(endpoints, opts, priority)
		if err != nil {
			switch {
			case errors.Is(err, generation.ErrQueueFull):
				response.Error(w, http.StatusServiceUnavailable, "QUEUE_FULL",
					"The job queue is full, retry later", nil)
			case errors.Is(err, generation.ErrShutdown):
				response.Error(w, http.StatusServiceUnavailable, "SHUTTING_DOWN",
					"The service is shutting down", nil)
			default:
				response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)
			}
			return
		}

		response.Accepted(w, map[string]string{"job_id": jobID.String()})
	}
}

// documentBytes unwraps the document field: nil for absent or null, the
// unquoted text when the client sent the document as a string (raw YAML),
// the raw bytes otherwise.
func documentBytes(raw json.RawMessage) []byte {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err == nil {
			return []byte(s)
		}
	}
	return trimmed
}

func validationDetails(err error) map[string]string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	details := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		details[fe.Field()] = fe.Tag()
	}
	return details
}
