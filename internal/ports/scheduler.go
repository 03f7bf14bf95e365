package ports

import (
	"context"

	"github.com/loomhq/loom/internal/domain"
)

// Scheduler drives a registered set of units over their dependency graph.
// Run validates the graph first and returns a domain.DependencyError before
// any unit executes on violation; unit-level failures are reported inside
// the RunResult, not as a Run error.
type Scheduler interface {
	Run(ctx context.Context, units []Unit, state State) (*domain.RunResult, error)
}
