package generation

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/masseyis/tdg/pkg/models"
)

// registryEntry tracks one job from submission until TTL eviction.
type registryEntry struct {
	status     models.JobStatus
	result     *models.GenerationResult
	terminalAt time.Time
}

// registry holds job status and finished results. Results stay available
// for ResultTTL after the job reaches a terminal status, then the janitor
// evicts them.
type registry struct {
	mu      sync.Mutex
	entries map[uuid.UUID]*registryEntry
}

func newRegistry() *registry {
	return &registry{entries: make(map[uuid.UUID]*registryEntry)}
}

func (r *registry) add(jobID uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[jobID] = &registryEntry{status: models.JobStatusQueued}
}

func (r *registry) setRunning(jobID uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.entries[jobID]; ok {
		e.status = models.JobStatusRunning
	}
}

// complete stores the finished result and starts the TTL clock. Failed
// jobs keep their result too; it carries the failure counts.
func (r *registry) complete(jobID uuid.UUID, status models.JobStatus, result *models.GenerationResult) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.entries[jobID]; ok {
		e.status = status
		e.result = result
		e.terminalAt = time.Now()
	}
}

// result returns the stored result for done and failed jobs, ErrNotReady
// while the job is queued or running, and ErrNotFound for anything else.
func (r *registry) result(jobID uuid.UUID) (*models.GenerationResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[jobID]
	if !ok {
		return nil, ErrNotFound
	}
	if !e.status.Terminal() {
		return nil, ErrNotReady
	}
	return e.result, nil
}

func (r *registry) has(jobID uuid.UUID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.entries[jobID]
	return ok
}

func (r *registry) remove(jobID uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, jobID)
}

// expire evicts terminal entries older than ttl and returns their IDs so
// the caller can drop the matching broker topics.
func (r *registry) expire(ttl time.Duration) []uuid.UUID {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := time.Now().Add(-ttl)
	var expired []uuid.UUID
	for id, e := range r.entries {
		if e.status.Terminal() && e.terminalAt.Before(cutoff) {
			delete(r.entries, id)
			expired = append(expired, id)
		}
	}
	return expired
}
