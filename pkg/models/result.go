package models

import "github.com/google/uuid"

// GenerationResult is the final output of one job: every generated case in
// delivery order plus per-endpoint accounting. Created once by the owning
// worker and read-only thereafter.
type GenerationResult struct {
	JobID              uuid.UUID  `json:"job_id"`
	Cases              []TestCase `json:"cases"`
	EndpointsProcessed int        `json:"endpoints_processed"`
	EndpointsFailed    int        `json:"endpoints_failed"`
	UsedEnhancement    bool       `json:"used_enhancement"`
}
