package activity

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

type captureSink struct {
	mu     sync.Mutex
	events []Event
}

func (s *captureSink) Insert(_ context.Context, event Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

func (s *captureSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.events)
}

func TestRecorderDrainsOnClose(t *testing.T) {
	sink := &captureSink{}
	r := NewRecorder(sink, 8)

	for i := 0; i < 5; i++ {
		r.Record(Event{Kind: KindDayReconciled, EmployeeID: "emp-1"})
	}
	r.Close()

	assert.Equal(t, 5, sink.count())
	assert.Equal(t, 0, r.Dropped())
}

func TestRecorderStampsOccurredAt(t *testing.T) {
	sink := &captureSink{}
	r := NewRecorder(sink, 8)

	r.Record(Event{Kind: KindPunchBatchIngested})
	r.Close()

	assert.False(t, sink.events[0].OccurredAt.IsZero())
}
