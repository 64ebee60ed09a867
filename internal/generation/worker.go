package generation

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	"github.com/masseyis/tdg/internal/pipeline"
	"github.com/masseyis/tdg/pkg/models"
)

// worker pulls jobs until the queue closes. A job is owned by exactly one
// worker; only the owner mutates its status or publishes its events.
func (s *Service) worker(id int) {
	defer s.wg.Done()
	log := s.log.With("worker", id)

	for {
		job, ok := s.queue.dequeue()
		if !ok {
			return
		}
		s.activeWorkers.Add(1)
		s.run(job, log)
		s.activeWorkers.Add(-1)
	}
}

// run processes every endpoint of one job. Endpoint failures are isolated:
// the job fails only when no endpoint produced cases.
func (s *Service) run(job *models.Job, log *slog.Logger) {
	start := time.Now()
	job.Status = models.JobStatusRunning
	s.registry.setRunning(job.ID)

	n := len(job.Endpoints)
	cases := make([]models.TestCase, 0, n*job.Options.CasesPerEndpoint)
	failed := 0
	usedEnhancement := false

	for i, endpoint := range job.Endpoints {
		current := endpoint.Method + " " + endpoint.Path
		s.publish(job.ID, models.StageFoundation, checkpoint(2*i, n), "generating foundation cases", n, current)
		if s.pipeline.WillEnhance(job.Options) {
			s.publish(job.ID, models.StageEnhancing, checkpoint(2*i+1, n), "enhancing cases", n, current)
		}

		endpointCases, enhanced, err := s.processEndpoint(s.baseCtx, endpoint, job.Options)
		if err != nil {
			failed++
			log.Warn("endpoint processing failed",
				"job_id", job.ID,
				"endpoint", current,
				"error", err)
			s.reporter.CaptureError(err, map[string]string{
				"stage":    "endpoint",
				"endpoint": current,
			})
			continue
		}

		usedEnhancement = usedEnhancement || enhanced
		cases = append(cases, pipeline.Order(endpointCases)...)
	}

	s.publish(job.ID, models.StageAggregating, 95, "assembling result", n, "")

	result := &models.GenerationResult{
		JobID:              job.ID,
		Cases:              cases,
		EndpointsProcessed: n,
		EndpointsFailed:    failed,
		UsedEnhancement:    usedEnhancement,
	}

	if failed == n {
		job.Status = models.JobStatusFailed
		s.registry.complete(job.ID, models.JobStatusFailed, result)
		s.totalFailed.Add(1)
		s.publish(job.ID, models.StageError, 95, fmt.Sprintf("all %d endpoints failed", n), n, "")
		log.Error("job failed",
			"job_id", job.ID,
			"endpoints", n,
			"duration", time.Since(start))
		return
	}

	job.Status = models.JobStatusDone
	s.registry.complete(job.ID, models.JobStatusDone, result)
	s.totalCompleted.Add(1)
	s.publish(job.ID, models.StageComplete, 100, fmt.Sprintf("generated %d cases", len(cases)), n, "")
	log.Info("job complete",
		"job_id", job.ID,
		"cases", len(cases),
		"endpoints_failed", failed,
		"used_enhancement", usedEnhancement,
		"duration", time.Since(start))
}

// processEndpoint isolates one endpoint. A panic inside the pipeline is
// recovered and reported as that endpoint's failure so the rest of the
// job continues.
func (s *Service) processEndpoint(ctx context.Context, endpoint models.EndpointSpec, opts models.GenerationOptions) (cases []models.TestCase, enhanced bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("panic processing endpoint",
				"error", r,
				"endpoint", endpoint.Method+" "+endpoint.Path,
				"stack", string(debug.Stack()))
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return s.pipeline.Process(ctx, endpoint, opts)
}

// checkpoint maps checkpoint k of a 2n-step job onto the 5-90 percent
// band. Each endpoint contributes two checkpoints, foundation and
// enhancing.
func checkpoint(k, n int) int {
	return 5 + 85*k/(2*n)
}

func (s *Service) publish(jobID uuid.UUID, stage models.Stage, percent int, message string, endpointCount int, current string) {
	s.broker.Publish(models.ProgressEvent{
		JobID:           jobID,
		Stage:           stage,
		Percent:         percent,
		Message:         message,
		EndpointCount:   endpointCount,
		CurrentEndpoint: current,
		Timestamp:       time.Now().UTC(),
	})
}
