// Package progress fans job progress events out to subscribers. Each job
// is a topic: the owning worker publishes, any number of API streams
// subscribe. Publishing never blocks on a slow subscriber; the latest
// event per job is cached so a subscriber joining mid-run sees current
// status immediately.
package progress

import (
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/masseyis/tdg/pkg/models"
)

// subscriberBuffer is the per-subscriber channel capacity. A subscriber
// that falls further behind than this skips intermediate events.
const subscriberBuffer = 16

type topic struct {
	subscribers map[int]chan models.ProgressEvent
	latest      *models.ProgressEvent
	terminal    bool
	nextID      int
}

// Broker routes ProgressEvents by job ID. Safe for concurrent use.
type Broker struct {
	mu     sync.Mutex
	topics map[uuid.UUID]*topic
}

func NewBroker() *Broker {
	return &Broker{topics: make(map[uuid.UUID]*topic)}
}

// Publish delivers event to every subscriber of its job and caches it as
// the job's latest. Non-terminal events never lower the reported percent;
// a regression is clamped up to the cached value. Events published after
// a terminal one are dropped, so the terminal event is delivered exactly
// once per subscriber.
func (b *Broker) Publish(event models.ProgressEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()

	t := b.topic(event.JobID)
	if t.terminal {
		slog.Debug("dropping progress event published after terminal",
			"job_id", event.JobID,
			"stage", event.Stage)
		return
	}

	if !event.Terminal() && t.latest != nil && event.Percent < t.latest.Percent {
		event.Percent = t.latest.Percent
	}
	t.latest = &event

	for _, ch := range t.subscribers {
		select {
		case ch <- event:
		default:
			if !event.Terminal() {
				continue
			}
			// Make room so the terminal event still lands; the evicted
			// intermediate event is the one a slow subscriber can spare.
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- event:
			default:
			}
		}
	}

	if event.Terminal() {
		t.terminal = true
		for id, ch := range t.subscribers {
			close(ch)
			delete(t.subscribers, id)
		}
	}
}

// Subscribe returns a channel of events for jobID and a cancel function.
// The cached latest event, if any, arrives first. The channel is closed
// once a terminal event has been delivered, or immediately when the job
// already finished. The cancel function is safe to call after the channel
// has closed.
func (b *Broker) Subscribe(jobID uuid.UUID) (<-chan models.ProgressEvent, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	t := b.topic(jobID)
	ch := make(chan models.ProgressEvent, subscriberBuffer)
	if t.latest != nil {
		ch <- *t.latest
	}
	if t.terminal {
		close(ch)
		return ch, func() {}
	}

	id := t.nextID
	t.nextID++
	t.subscribers[id] = ch

	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		// Terminal delivery or Drop may have closed the channel already;
		// presence in the map means it is still ours to close.
		if _, present := t.subscribers[id]; present {
			delete(t.subscribers, id)
			close(ch)
		}
	}
	return ch, cancel
}

// Drop removes a job's topic entirely, closing any remaining subscriber
// channels. The registry janitor calls it once a finished job's result
// expires.
func (b *Broker) Drop(jobID uuid.UUID) {
	b.mu.Lock()
	defer b.mu.Unlock()

	t, ok := b.topics[jobID]
	if !ok {
		return
	}
	for id, ch := range t.subscribers {
		close(ch)
		delete(t.subscribers, id)
	}
	delete(b.topics, jobID)
}

// topic returns the topic for jobID, creating it if needed. Callers hold
// b.mu.
func (b *Broker) topic(jobID uuid.UUID) *topic {
	t, ok := b.topics[jobID]
	if !ok {
		t = &topic{subscribers: make(map[int]chan models.ProgressEvent)}
		b.topics[jobID] = t
	}
	return t
}
