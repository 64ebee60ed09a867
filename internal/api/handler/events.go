package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/masseyis/tdg/internal/api/response"
)

// NewEventsHandler returns the handler for GET /api/v1/jobs/{jobID}/events.
// It streams progress as server-sent events until the job reaches a
// terminal stage or the client disconnects. Subscribers that join mid-run
// receive the latest event first.
func NewEventsHandler(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		jobID, ok := jobIDParam(w, r)
		if !ok {
			return
		}

		flusher, ok := w.(http.Flusher)
		if !ok {
			response.Error(w, http.StatusInternalServerError, "STREAMING_UNSUPPORTED",
				"Streaming is not supported", nil)
			return
		}

		events, cancel, err := svc.Subscribe(jobID)
		if err != nil {
			response.Error(w, http.StatusNotFound, "JOB_NOT_FOUND", "Job not found", nil)
			return
		}
		defer cancel()

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.WriteHeader(http.StatusOK)
		flusher.Flush()

		for {
			select {
			case <-r.Context().Done():
				return
			case event, open := <-events:
				if !open {
					return
				}
				payload, err := json.Marshal(event)
				if err != nil {
					continue
				}
				fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Stage, payload)
				flusher.Flush()
			}
		}
	}
}
