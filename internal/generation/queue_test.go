package generation

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/masseyis/tdg/pkg/models"
)

func queuedJob(priority models.Priority) *models.Job {
	return &models.Job{
		ID:       uuid.New(),
		Priority: priority,
		Status:   models.JobStatusQueued,
	}
}

func TestQueue_PriorityThenSubmissionOrder(t *testing.T) {
	q := newJobQueue(10)

	jobs := []*models.Job{
		queuedJob(models.PriorityNormal),
		queuedJob(models.PriorityLow),
		queuedJob(models.PriorityHigh),
		queuedJob(models.PriorityHigh),
		queuedJob(models.PriorityLow),
	}
	for _, job := range jobs {
		if err := q.enqueue(job); err != nil {
			t.Fatalf("unexpected enqueue error: %v", err)
		}
	}

	// HIGH before NORMAL before LOW, submission order within a band.
	want := []uuid.UUID{jobs[2].ID, jobs[3].ID, jobs[0].ID, jobs[1].ID, jobs[4].ID}
	for i, wantID := range want {
		job, ok := q.dequeue()
		if !ok {
			t.Fatalf("expected job %d, queue reported closed", i)
		}
		if job.ID != wantID {
			t.Errorf("dequeue %d: expected job %s, got %s", i, wantID, job.ID)
		}
	}
}

func TestQueue_CapacityBound(t *testing.T) {
	q := newJobQueue(2)

	if err := q.enqueue(queuedJob(models.PriorityNormal)); err != nil {
		t.Fatalf("unexpected enqueue error: %v", err)
	}
	if err := q.enqueue(queuedJob(models.PriorityNormal)); err != nil {
		t.Fatalf("unexpected enqueue error: %v", err)
	}

	err := q.enqueue(queuedJob(models.PriorityHigh))
	if !errors.Is(err, ErrQueueFull) {
		t.Fatalf("expected ErrQueueFull, got %v", err)
	}
	if q.depth() != 2 {
		t.Errorf("expected depth 2 after a rejected enqueue, got %d", q.depth())
	}
}

func TestQueue_EnqueueAfterClose(t *testing.T) {
	q := newJobQueue(2)
	q.close()

	if err := q.enqueue(queuedJob(models.PriorityNormal)); !errors.Is(err, ErrShutdown) {
		t.Fatalf("expected ErrShutdown, got %v", err)
	}
}

func TestQueue_DequeueBlocksUntilWork(t *testing.T) {
	q := newJobQueue(2)

	got := make(chan *models.Job, 1)
	go func() {
		job, ok := q.dequeue()
		if ok {
			got <- job
		}
	}()

	select {
	case job := <-got:
		t.Fatalf("expected dequeue to block on an empty queue, got job %s", job.ID)
	case <-time.After(50 * time.Millisecond):
	}

	job := queuedJob(models.PriorityNormal)
	if err := q.enqueue(job); err != nil {
		t.Fatalf("unexpected enqueue error: %v", err)
	}

	select {
	case dequeued := <-got:
		if dequeued.ID != job.ID {
			t.Errorf("expected job %s, got %s", job.ID, dequeued.ID)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for the blocked dequeue to wake")
	}
}

func TestQueue_CloseWakesBlockedWorkers(t *testing.T) {
	q := newJobQueue(2)

	woken := make(chan bool, 2)
	for i := 0; i < 2; i++ {
		go func() {
			_, ok := q.dequeue()
			woken <- ok
		}()
	}

	q.close()

	for i := 0; i < 2; i++ {
		select {
		case ok := <-woken:
			if ok {
				t.Error("expected dequeue to report closed")
			}
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for a blocked worker to wake")
		}
	}
}

func TestQueue_CancelRemovesQueuedJob(t *testing.T) {
	q := newJobQueue(10)

	first := queuedJob(models.PriorityNormal)
	second := queuedJob(models.PriorityNormal)
	third := queuedJob(models.PriorityNormal)
	for _, job := range []*models.Job{first, second, third} {
		if err := q.enqueue(job); err != nil {
			t.Fatalf("unexpected enqueue error: %v", err)
		}
	}

	if !q.cancel(second.ID) {
		t.Fatal("expected cancel of a queued job to succeed")
	}
	if q.cancel(second.ID) {
		t.Error("expected a second cancel to fail")
	}
	if q.cancel(uuid.New()) {
		t.Error("expected cancel of an unknown job to fail")
	}

	for i, want := range []uuid.UUID{first.ID, third.ID} {
		job, ok := q.dequeue()
		if !ok {
			t.Fatalf("expected job %d, queue reported closed", i)
		}
		if job.ID != want {
			t.Errorf("dequeue %d: expected job %s, got %s", i, want, job.ID)
		}
	}
	if q.depth() != 0 {
		t.Errorf("expected an empty queue, got depth %d", q.depth())
	}
}

func TestQueue_DrainReturnsDispatchOrder(t *testing.T) {
	q := newJobQueue(10)

	low := queuedJob(models.PriorityLow)
	high := queuedJob(models.PriorityHigh)
	normal := queuedJob(models.PriorityNormal)
	for _, job := range []*models.Job{low, high, normal} {
		if err := q.enqueue(job); err != nil {
			t.Fatalf("unexpected enqueue error: %v", err)
		}
	}

	q.close()
	drained := q.drain()

	want := []uuid.UUID{high.ID, normal.ID, low.ID}
	if len(drained) != len(want) {
		t.Fatalf("expected %d drained jobs, got %d", len(want), len(drained))
	}
	for i, job := range drained {
		if job.ID != want[i] {
			t.Errorf("drain %d: expected job %s, got %s", i, want[i], job.ID)
		}
	}
	if q.depth() != 0 {
		t.Errorf("expected an empty queue after drain, got depth %d", q.depth())
	}
}
