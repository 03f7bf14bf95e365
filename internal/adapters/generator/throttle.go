package generator

import (
	"context"
	"sync"
	"time"

	"github.com/loomhq/loom/internal/ports"
)

// Throttle enforces a minimum interval between consecutive outbound calls
// across all concurrent callers. Each Acquire reserves the next free slot
// and sleeps until it arrives, so callers are served in acquisition order
// and none can be starved; there is no polling.
type Throttle struct {
	clock    ports.Clock
	interval time.Duration

	mu       sync.Mutex
	nextFree time.Time
}

func NewThrottle(interval time.Duration, clock ports.Clock) *Throttle {
	return &Throttle{
		clock:    clock,
		interval: interval,
	}
}

// Acquire blocks until this caller's reserved slot arrives. Cancelling the
// context abandons the wait but keeps the reservation, preserving spacing
// for later callers.
func (t *Throttle) Acquire(ctx context.Context) error {
	if t.interval <= 0 {
		return ctx.Err()
	}

	t.mu.Lock()
	now := t.clock.Now()
	slot := t.nextFree
	if slot.Before(now) {
		slot = now
	}
	t.nextFree = slot.Add(t.interval)
	t.mu.Unlock()

	if wait := slot.Sub(now); wait > 0 {
		return t.clock.Sleep(ctx, wait)
	}
	return ctx.Err()
}
