package generation

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/masseyis/tdg/pkg/models"
)

func TestRegistry_ResultLifecycle(t *testing.T) {
	r := newRegistry()
	jobID := uuid.New()

	if _, err := r.result(jobID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound before add, got %v", err)
	}

	r.add(jobID)
	if _, err := r.result(jobID); !errors.Is(err, ErrNotReady) {
		t.Errorf("expected ErrNotReady while queued, got %v", err)
	}

	r.setRunning(jobID)
	if _, err := r.result(jobID); !errors.Is(err, ErrNotReady) {
		t.Errorf("expected ErrNotReady while running, got %v", err)
	}

	stored := &models.GenerationResult{JobID: jobID, EndpointsProcessed: 2}
	r.complete(jobID, models.JobStatusDone, stored)

	result, err := r.result(jobID)
	if err != nil {
		t.Fatalf("unexpected result error: %v", err)
	}
	if result != stored {
		t.Error("expected the stored result")
	}
}

func TestRegistry_FailedJobsKeepResults(t *testing.T) {
	r := newRegistry()
	jobID := uuid.New()

	r.add(jobID)
	r.setRunning(jobID)
	r.complete(jobID, models.JobStatusFailed, &models.GenerationResult{
		JobID:              jobID,
		EndpointsProcessed: 3,
		EndpointsFailed:    3,
	})

	result, err := r.result(jobID)
	if err != nil {
		t.Fatalf("expected a failed job to keep its result, got %v", err)
	}
	if result.EndpointsFailed != 3 {
		t.Errorf("expected the failure counts, got %d", result.EndpointsFailed)
	}
}

func TestRegistry_Remove(t *testing.T) {
	r := newRegistry()
	jobID := uuid.New()

	r.add(jobID)
	if !r.has(jobID) {
		t.Fatal("expected the entry to exist")
	}

	r.remove(jobID)
	if r.has(jobID) {
		t.Error("expected the entry to be gone")
	}
	if _, err := r.result(jobID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after remove, got %v", err)
	}
}

func TestRegistry_ExpireEvictsOnlyTerminalEntries(t *testing.T) {
	r := newRegistry()

	finished := uuid.New()
	r.add(finished)
	r.complete(finished, models.JobStatusDone, &models.GenerationResult{JobID: finished})

	queued := uuid.New()
	r.add(queued)

	time.Sleep(5 * time.Millisecond)

	expired := r.expire(time.Millisecond)
	if len(expired) != 1 || expired[0] != finished {
		t.Fatalf("expected only the finished job to expire, got %v", expired)
	}
	if r.has(finished) {
		t.Error("expected the finished entry to be evicted")
	}
	if !r.has(queued) {
		t.Error("expected the queued entry to survive")
	}

	if again := r.expire(time.Millisecond); len(again) != 0 {
		t.Errorf("expected nothing left to expire, got %v", again)
	}
}
