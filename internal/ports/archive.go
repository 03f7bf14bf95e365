package ports

import (
	"context"

	"github.com/loomhq/loom/internal/domain"
)

// Archive persists finished run results so outcomes and traces survive the
// process. It is a caller-side convenience: the execution core never reads
// it back during a run.
type Archive interface {
	SaveRun(ctx context.Context, result *domain.RunResult) error
	GetRun(ctx context.Context, runID string) (*domain.RunResult, error)

	// ListRuns returns summaries of the most recent runs, newest first.
	ListRuns(ctx context.Context, limit int) ([]domain.RunSummary, error)

	Close() error
}
