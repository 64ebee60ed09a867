package generation

import (
	"container/heap"
	"sync"

	"github.com/google/uuid"
	"github.com/masseyis/tdg/pkg/models"
)

// queueItem is one heap entry. seq breaks priority ties so equal-priority
// jobs dispatch in submission order.
type queueItem struct {
	job   *models.Job
	seq   uint64
	index int
}

// jobHeap orders items by (priority, seq). Numerically lower priority
// dispatches first.
type jobHeap []*queueItem

func (h jobHeap) Len() int { return len(h) }

func (h jobHeap) Less(i, j int) bool {
	if h[i].job.Priority != h[j].job.Priority {
		return h[i].job.Priority < h[j].job.Priority
	}
	return h[i].seq < h[j].seq
}

func (h jobHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *jobHeap) Push(x any) {
	item := x.(*queueItem)
	item.index = len(*h)
	*h = append(*h, item)
}

func (h *jobHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	item.index = -1
	*h = old[:n-1]
	return item
}

// jobQueue is a bounded priority queue feeding the worker pool. Enqueue
// never blocks; dequeue blocks until a job arrives or the queue closes.
type jobQueue struct {
	mu       sync.Mutex
	notEmpty *sync.Cond
	items    jobHeap
	byID     map[uuid.UUID]*queueItem
	capacity int
	nextSeq  uint64
	closed   bool
}

func newJobQueue(capacity int) *jobQueue {
	q := &jobQueue{
		byID:     make(map[uuid.UUID]*queueItem),
		capacity: capacity,
	}
	q.notEmpty = sync.NewCond(&q.mu)
	return q
}

// enqueue adds a job and wakes one waiting worker. It fails fast with
// ErrQueueFull at capacity and ErrShutdown after close.
func (q *jobQueue) enqueue(job *models.Job) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return ErrShutdown
	}
	if len(q.items) >= q.capacity {
		return ErrQueueFull
	}

	item := &queueItem{job: job, seq: q.nextSeq}
	q.nextSeq++
	heap.Push(&q.items, item)
	q.byID[job.ID] = item

	q.notEmpty.Signal()
	return nil
}

// dequeue blocks until a job is available and returns it. It returns
// false once the queue has closed; jobs still queued at that point are
// left for the shutdown drain.
func (q *jobQueue) dequeue() (*models.Job, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for len(q.items) == 0 && !q.closed {
		q.notEmpty.Wait()
	}
	if q.closed {
		return nil, false
	}

	item := heap.Pop(&q.items).(*queueItem)
	delete(q.byID, item.job.ID)
	return item.job, true
}

// cancel removes a queued job before any worker claims it.
func (q *jobQueue) cancel(jobID uuid.UUID) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	item, ok := q.byID[jobID]
	if !ok {
		return false
	}
	heap.Remove(&q.items, item.index)
	delete(q.byID, jobID)
	return true
}

// close stops intake and wakes every blocked worker.
func (q *jobQueue) close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.closed = true
	q.notEmpty.Broadcast()
}

// drain empties the queue and returns the jobs that never ran, in
// dispatch order. Only called after close.
func (q *jobQueue) drain() []*models.Job {
	q.mu.Lock()
	defer q.mu.Unlock()

	jobs := make([]*models.Job, 0, len(q.items))
	for q.items.Len() > 0 {
		item := heap.Pop(&q.items).(*queueItem)
		delete(q.byID, item.job.ID)
		jobs = append(jobs, item.job)
	}
	return jobs
}

func (q *jobQueue) depth() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
