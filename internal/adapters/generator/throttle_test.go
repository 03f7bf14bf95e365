package generator

import (
	"context"
	"testing"
	"time"

	"github.com/loomhq/loom/internal/helpers/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestThrottle_FirstCallImmediate(t *testing.T) {
	c := clock.NewManual(time.Unix(1000, 0))
	th := NewThrottle(2*time.Second, c)

	require.NoError(t, th.Acquire(context.Background()))
	assert.Empty(t, c.Sleeps())
}

func TestThrottle_SpacesConsecutiveCalls(t *testing.T) {
	c := clock.NewManual(time.Unix(1000, 0))
	th := NewThrottle(2*time.Second, c)

	ctx := context.Background()
	require.NoError(t, th.Acquire(ctx))
	require.NoError(t, th.Acquire(ctx))
	require.NoError(t, th.Acquire(ctx))

	assert.Equal(t, []time.Duration{2 * time.Second, 2 * time.Second}, c.Sleeps())
}

func TestThrottle_IdleResetsSpacing(t *testing.T) {
	c := clock.NewManual(time.Unix(1000, 0))
	th := NewThrottle(2*time.Second, c)

	ctx := context.Background()
	require.NoError(t, th.Acquire(ctx))

	c.Advance(10 * time.Second)
	require.NoError(t, th.Acquire(ctx))
	assert.Empty(t, c.Sleeps(), "no wait needed after the interval has already passed")
}

func TestThrottle_ZeroIntervalNeverBlocks(t *testing.T) {
	c := clock.NewManual(time.Unix(1000, 0))
	th := NewThrottle(0, c)

	ctx := context.Background()
	for i := 0; i < 5; i++ {
		require.NoError(t, th.Acquire(ctx))
	}
	assert.Empty(t, c.Sleeps())
}

func TestThrottle_CancelledContext(t *testing.T) {
	c := clock.NewManual(time.Unix(1000, 0))
	th := NewThrottle(time.Second, c)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, th.Acquire(ctx))

	cancel()
	err := th.Acquire(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestThrottle_ReservationOrderIsFIFO(t *testing.T) {
	c := clock.NewManual(time.Unix(1000, 0))
	th := NewThrottle(3*time.Second, c)

	// Sequential acquires model the order callers reach the gate; each
	// later caller is pushed out by exactly one interval, so no caller can
	// be leapfrogged indefinitely.
	ctx := context.Background()
	for i := 0; i < 4; i++ {
		require.NoError(t, th.Acquire(ctx))
	}
	assert.Equal(t, []time.Duration{3 * time.Second, 3 * time.Second, 3 * time.Second}, c.Sleeps())
}
