package generation

import "errors"

var (
	// ErrQueueFull is returned by Submit when the job queue is at
	// capacity. The caller should retry later; the core never does.
	ErrQueueFull = errors.New("job queue is full")

	// ErrShutdown is returned by Submit once shutdown has begun.
	ErrShutdown = errors.New("service is shutting down")

	// ErrNotFound is returned for job IDs that are unknown, canceled, or
	// already evicted.
	ErrNotFound = errors.New("job not found")

	// ErrNotReady is returned by Result while the job is still queued or
	// running.
	ErrNotReady = errors.New("job result not ready")
)
