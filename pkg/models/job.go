package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// JobStatus is the lifecycle state of a generation job.
type JobStatus string

const (
	JobStatusQueued  JobStatus = "queued"
	JobStatusRunning JobStatus = "running"
	JobStatusDone    JobStatus = "done"
	JobStatusFailed  JobStatus = "failed"
)

// Terminal reports whether the status is final.
func (s JobStatus) Terminal() bool {
	return s == JobStatusDone || s == JobStatusFailed
}

// Priority orders jobs at dispatch time. Numerically lower dispatches first.
type Priority int

const (
	PriorityHigh   Priority = 1
	PriorityNormal Priority = 2
	PriorityLow    Priority = 3
)

// ParsePriority converts a wire value ("high", "normal", "low") into a
// Priority. The empty string maps to PriorityNormal.
func ParsePriority(s string) (Priority, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "high":
		return PriorityHigh, nil
	case "normal", "":
		return PriorityNormal, nil
	case "low":
		return PriorityLow, nil
	}
	return 0, fmt.Errorf("unknown priority %q: must be one of high, normal, low", s)
}

func (p Priority) String() string {
	switch p {
	case PriorityHigh:
		return "high"
	case PriorityNormal:
		return "normal"
	case PriorityLow:
		return "low"
	}
	return fmt.Sprintf("priority(%d)", int(p))
}

// SpeedPreference trades generation latency against enhancement depth.
type SpeedPreference string

const (
	// SpeedFoundation skips enhancement entirely; output is deterministic.
	SpeedFoundation SpeedPreference = "foundation"
	// SpeedFast prefers the provider's cheapest model.
	SpeedFast SpeedPreference = "fast"
	// SpeedBalanced uses the provider's configured default model.
	SpeedBalanced SpeedPreference = "balanced"
	// SpeedQuality prefers the provider's strongest model.
	SpeedQuality SpeedPreference = "quality"
)

// KnownSpeed reports whether s is a recognized speed preference.
func KnownSpeed(s SpeedPreference) bool {
	switch s {
	case SpeedFoundation, SpeedFast, SpeedBalanced, SpeedQuality:
		return true
	}
	return false
}

// GenerationOptions tune how cases are synthesized for one job.
type GenerationOptions struct {
	CasesPerEndpoint int             `json:"cases_per_endpoint"`
	DomainHint       string          `json:"domain_hint,omitempty"`
	Seed             *int64          `json:"seed,omitempty"`
	Speed            SpeedPreference `json:"speed"`
}

// Job tracks one generation request through the scheduler. The API returns
// a job_id on POST /api/v1/generate; the client streams progress events or
// polls the result endpoint until the job reaches a terminal status.
//
// A job is owned by the scheduler while queued and by exactly one worker
// once dequeued; only the owner mutates Status.
type Job struct {
	ID          uuid.UUID         `json:"id"`
	Endpoints   []EndpointSpec    `json:"endpoints"`
	Options     GenerationOptions `json:"options"`
	Priority    Priority          `json:"priority"`
	SubmittedAt time.Time         `json:"submitted_at"`
	Status      JobStatus         `json:"status"`
}
