package scheduler

import (
	"sync"

	"github.com/loomhq/loom/internal/domain"
	"github.com/loomhq/loom/internal/ports"
)

// traceRecorder accumulates the run's ordered execution trace. The scheduler
// only records between waves and in registration order, so the sequence is
// deterministic for a deterministic generation source.
type traceRecorder struct {
	clock ports.Clock

	mu     sync.Mutex
	seq    int
	events []domain.TraceEvent
}

func newTraceRecorder(clock ports.Clock) *traceRecorder {
	return &traceRecorder{clock: clock}
}

func (r *traceRecorder) record(unit string, transition domain.Transition) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	r.events = append(r.events, domain.TraceEvent{
		Seq:        r.seq,
		Unit:       unit,
		Transition: transition,
		At:         r.clock.Now(),
	})
}

func (r *traceRecorder) snapshot() []domain.TraceEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.TraceEvent, len(r.events))
	copy(out, r.events)
	return out
}
