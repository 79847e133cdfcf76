// Package activity is the fire-and-forget event side-channel. Services call
// Record after state transitions; persistence happens on a background drain
// and can never fail the primary operation.
package activity

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Event is one recorded engine action.
type Event struct {
	Kind       string
	EmployeeID string
	ActorID    string
	Date       string
	Detail     map[string]interface{}
	OccurredAt time.Time
}

// Event kinds emitted by the engine.
const (
	KindPunchBatchIngested   = "punch_batch_ingested"
	KindDayReconciled        = "day_reconciled"
	KindAdjustmentCreated    = "adjustment_created"
	KindAdjustmentTransition = "adjustment_transition"
)

// Sink persists drained events.
type Sink interface {
	Insert(ctx context.Context, event Event) error
}

// Recorder buffers events on a channel and drains them to the sink in the
// background. Record never blocks: when the buffer is full the event is
// dropped and counted, which is acceptable for an observability channel.
type Recorder struct {
	sink    Sink
	events  chan Event
	dropped int
	mu      sync.Mutex
	done    chan struct{}
}

func NewRecorder(sink Sink, buffer int) *Recorder {
	if buffer <= 0 {
		buffer = 256
	}
	r := &Recorder{
		sink:   sink,
		events: make(chan Event, buffer),
		done:   make(chan struct{}),
	}
	go r.drain()
	return r
}

// Record queues the event. Safe to call from any goroutine; never blocks.
func (r *Recorder) Record(event Event) {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}
	select {
	case r.events <- event:
	default:
		r.mu.Lock()
		r.dropped++
		r.mu.Unlock()
		slog.Warn("activity buffer full, event dropped", "kind", event.Kind)
	}
}

// Dropped returns how many events were discarded due to a full buffer.
func (r *Recorder) Dropped() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.dropped
}

// Close stops the drain after flushing queued events.
func (r *Recorder) Close() {
	close(r.events)
	<-r.done
}

func (r *Recorder) drain() {
	defer close(r.done)
	for event := range r.events {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := r.sink.Insert(ctx, event); err != nil {
			slog.Error("failed to persist activity event", "kind", event.Kind, "error", err)
		}
		cancel()
	}
}
