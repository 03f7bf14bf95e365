package generator

import (
	"time"
)

// BackoffDelay is the pure backoff schedule: exponential doubling from base
// for each transient attempt, clamped to max. attempt is 1-based (the delay
// slept after the attempt'th transient failure).
func BackoffDelay(attempt int, base, max time.Duration) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	if base <= 0 {
		return 0
	}

	delay := base
	for i := 1; i < attempt; i++ {
		delay *= 2
		if max > 0 && delay >= max {
			return max
		}
	}
	if max > 0 && delay > max {
		return max
	}
	return delay
}
