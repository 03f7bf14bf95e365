package ports

import (
	"context"
	"time"
)

// Clock abstracts time for the throttle and backoff schedule so delay
// behavior is testable without real time passing. Sleep returns early with
// the context error if the context is cancelled.
type Clock interface {
	Now() time.Time
	Sleep(ctx context.Context, d time.Duration) error
}
