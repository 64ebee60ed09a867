package models

import (
	"time"

	"github.com/google/uuid"
)

// Stage identifies where in the pipeline a job currently is.
type Stage string

const (
	StageQueued      Stage = "queued"
	StageFoundation  Stage = "foundation"
	StageEnhancing   Stage = "enhancing"
	StageAggregating Stage = "aggregating"
	StageComplete    Stage = "complete"
	StageError       Stage = "error"
)

// Terminal reports whether no further events follow this stage.
func (s Stage) Terminal() bool {
	return s == StageComplete || s == StageError
}

// ProgressEvent is one live status update for a job. Events are ephemeral:
// only the latest per job is cached, for subscribers that join mid-run.
// Percent never decreases within a job and reaches exactly 100 at complete.
type ProgressEvent struct {
	JobID           uuid.UUID `json:"job_id"`
	Stage           Stage     `json:"stage"`
	Percent         int       `json:"percent"`
	Message         string    `json:"message"`
	EndpointCount   int       `json:"endpoint_count,omitempty"`
	CurrentEndpoint string    `json:"current_endpoint,omitempty"`
	Timestamp       time.Time `json:"timestamp"`
}

// Terminal reports whether this event ends the job's stream.
func (e ProgressEvent) Terminal() bool {
	return e.Stage.Terminal()
}
