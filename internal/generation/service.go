// Package generation is the core of the test-case generator: a bounded
// priority queue feeding a fixed pool of workers, a registry holding
// finished results until they expire, and progress events published per
// job. The transport layer talks to Service and never generates anything
// itself.
package generation

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/masseyis/tdg/internal/config"
	"github.com/masseyis/tdg/internal/pipeline"
	"github.com/masseyis/tdg/internal/progress"
	"github.com/masseyis/tdg/internal/report"
	"github.com/masseyis/tdg/pkg/models"
)

// Stats is a point-in-time snapshot of scheduler counters.
type Stats struct {
	QueueDepth     int    `json:"queue_depth"`
	ActiveWorkers  int    `json:"active_workers"`
	TotalSubmitted uint64 `json:"total_submitted"`
	TotalCompleted uint64 `json:"total_completed"`
	TotalFailed    uint64 `json:"total_failed"`
}

// Service orchestrates test case generation jobs.
type Service struct {
	cfg      config.GenerationConfig
	pipeline *pipeline.Pipeline
	queue    *jobQueue
	registry *registry
	broker   *progress.Broker
	reporter report.Reporter
	log      *slog.Logger

	baseCtx      context.Context
	wg           sync.WaitGroup
	janitorStop  chan struct{}
	shuttingDown atomic.Bool

	activeWorkers  atomic.Int32
	totalSubmitted atomic.Uint64
	totalCompleted atomic.Uint64
	totalFailed    atomic.Uint64
}

// NewService creates a generation Service. Call Start before submitting
// jobs and Shutdown to drain it.
func NewService(cfg config.GenerationConfig, pipe *pipeline.Pipeline, broker *progress.Broker, reporter report.Reporter, log *slog.Logger) *Service {
	if reporter == nil {
		reporter = report.Nop{}
	}
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		cfg:         cfg,
		pipeline:    pipe,
		queue:       newJobQueue(cfg.QueueSize),
		registry:    newRegistry(),
		broker:      broker,
		reporter:    reporter,
		log:         log,
		baseCtx:     context.Background(),
		janitorStop: make(chan struct{}),
	}
}

// Start spawns the worker pool and the registry janitor. ctx is the base
// context for in-flight pipeline work; canceling it aborts outbound
// enhancement calls but does not stop the workers. Use Shutdown for that.
func (s *Service) Start(ctx context.Context) {
	s.baseCtx = ctx
	for i := 0; i < s.cfg.Workers; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}
	go s.janitor()
	s.log.Info("generation service started",
		"workers", s.cfg.Workers,
		"queue_size", s.cfg.QueueSize,
		"result_ttl", s.cfg.ResultTTL)
}

// Submit validates the request and enqueues a job. It never blocks:
// a full queue fails fast with ErrQueueFull. On acceptance the job ID is
// returned and a queued event is published.
func (s *Service) Submit(endpoints []models.EndpointSpec, opts models.GenerationOptions, priority models.Priority) (uuid.UUID, error) {
	if s.shuttingDown.Load() {
		return uuid.Nil, ErrShutdown
	}
	if err := s.validateRequest(endpoints, &opts, priority); err != nil {
		return uuid.Nil, err
	}

	job := &models.Job{
		ID:          uuid.New(),
		Endpoints:   endpoints,
		Options:     opts,
		Priority:    priority,
		SubmittedAt: time.Now().UTC(),
		Status:      models.JobStatusQueued,
	}

	// Register and publish before enqueueing so a worker that grabs the
	// job immediately never races the queued event.
	s.registry.add(job.ID)
	s.broker.Publish(models.ProgressEvent{
		JobID:         job.ID,
		Stage:         models.StageQueued,
		Percent:       0,
		Message:       "job accepted",
		EndpointCount: len(endpoints),
		Timestamp:     time.Now().UTC(),
	})

	if err := s.queue.enqueue(job); err != nil {
		s.registry.remove(job.ID)
		s.broker.Drop(job.ID)
		return uuid.Nil, err
	}

	s.totalSubmitted.Add(1)
	s.log.Info("job queued",
		"job_id", job.ID,
		"priority", priority.String(),
		"endpoints", len(endpoints),
		"speed", job.Options.Speed)
	return job.ID, nil
}

func (s *Service) validateRequest(endpoints []models.EndpointSpec, opts *models.GenerationOptions, priority models.Priority) error {
	if len(endpoints) == 0 {
		return fmt.Errorf("invalid request: at least one endpoint is required")
	}
	for i, e := range endpoints {
		if e.Method == "" {
			return fmt.Errorf("invalid request: endpoint %d has no method", i)
		}
		if e.Path == "" {
			return fmt.Errorf("invalid request: endpoint %d has no path", i)
		}
	}

	switch {
	case opts.CasesPerEndpoint == 0:
		opts.CasesPerEndpoint = s.cfg.DefaultCases
	case opts.CasesPerEndpoint < 0:
		return fmt.Errorf("invalid request: cases_per_endpoint must be positive")
	case opts.CasesPerEndpoint > s.cfg.MaxCases:
		return fmt.Errorf("invalid request: cases_per_endpoint %d exceeds maximum %d", opts.CasesPerEndpoint, s.cfg.MaxCases)
	}

	if opts.Speed == "" {
		opts.Speed = models.SpeedBalanced
	}
	if !models.KnownSpeed(opts.Speed) {
		return fmt.Errorf("invalid request: unknown speed %q: must be one of foundation, fast, balanced, quality", opts.Speed)
	}

	switch priority {
	case models.PriorityHigh, models.PriorityNormal, models.PriorityLow:
	default:
		return fmt.Errorf("invalid request: unknown priority %d", priority)
	}
	return nil
}

// Cancel removes a job that has not been dispatched yet. It returns false
// for running, finished, and unknown jobs; in-flight work is not
// preempted.
func (s *Service) Cancel(jobID uuid.UUID) bool {
	if !s.queue.cancel(jobID) {
		return false
	}
	s.registry.remove(jobID)
	s.broker.Publish(models.ProgressEvent{
		JobID:     jobID,
		Stage:     models.StageError,
		Percent:   0,
		Message:   "canceled before dispatch",
		Timestamp: time.Now().UTC(),
	})
	s.broker.Drop(jobID)
	s.log.Info("job canceled", "job_id", jobID)
	return true
}

// Result returns the stored result once the job is done or failed,
// ErrNotReady while it is queued or running, and ErrNotFound for unknown,
// canceled, or expired jobs.
func (s *Service) Result(jobID uuid.UUID) (*models.GenerationResult, error) {
	return s.registry.result(jobID)
}

// Subscribe streams progress events for a known job. The second return
// value unsubscribes; it is safe to call after the stream has closed.
func (s *Service) Subscribe(jobID uuid.UUID) (<-chan models.ProgressEvent, func(), error) {
	if !s.registry.has(jobID) {
		return nil, nil, ErrNotFound
	}
	ch, cancel := s.broker.Subscribe(jobID)
	// The janitor may have evicted the job between the check and the
	// subscription; a recheck avoids handing out a stream that will
	// never close.
	if !s.registry.has(jobID) {
		cancel()
		return nil, nil, ErrNotFound
	}
	return ch, cancel, nil
}

// Stats returns current counters for the stats endpoint.
func (s *Service) Stats() Stats {
	return Stats{
		QueueDepth:     s.queue.depth(),
		ActiveWorkers:  int(s.activeWorkers.Load()),
		TotalSubmitted: s.totalSubmitted.Load(),
		TotalCompleted: s.totalCompleted.Load(),
		TotalFailed:    s.totalFailed.Load(),
	}
}

// Shutdown stops intake, waits for in-flight jobs to finish (bounded by
// ctx), then publishes a terminal error event for every job still queued
// so no subscriber is left hanging. Subsequent calls are no-ops.
func (s *Service) Shutdown(ctx context.Context) error {
	if !s.shuttingDown.CompareAndSwap(false, true) {
		return nil
	}
	s.queue.close()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	var err error
	select {
	case <-done:
	case <-ctx.Done():
		err = ctx.Err()
	}

	for _, job := range s.queue.drain() {
		s.broker.Publish(models.ProgressEvent{
			JobID:     job.ID,
			Stage:     models.StageError,
			Percent:   0,
			Message:   "server shutting down before job started",
			Timestamp: time.Now().UTC(),
		})
		s.registry.remove(job.ID)
		s.broker.Drop(job.ID)
	}

	close(s.janitorStop)
	s.log.Info("generation service stopped", "drain_error", err)
	return err
}

// janitor evicts expired results and their broker topics. Sweep cadence
// follows the TTL so short TTLs still evict promptly.
func (s *Service) janitor() {
	interval := s.cfg.ResultTTL / 4
	if interval < 25*time.Millisecond {
		interval = 25 * time.Millisecond
	}
	if interval > time.Minute {
		interval = time.Minute
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			for _, id := range s.registry.expire(s.cfg.ResultTTL) {
				s.broker.Drop(id)
				s.log.Debug("evicted expired job result", "job_id", id)
			}
		case <-s.janitorStop:
			return
		}
	}
}
