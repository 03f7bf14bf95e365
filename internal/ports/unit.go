package ports

import (
	"context"

	"github.com/loomhq/loom/internal/domain"
)

// ExecutionInput is everything a unit may read: the run's input record and
// the finalized outputs of its declared dependencies. Units never see
// outputs of units they did not declare.
type ExecutionInput struct {
	Record  domain.Record
	Outputs map[string]interface{}
}

// Dependency returns a dependency's finalized output.
func (in ExecutionInput) Dependency(name string) (interface{}, bool) {
	v, ok := in.Outputs[name]
	return v, ok
}

// Unit is a named computation with a declared dependency set. Execute must be
// a pure function of its input: all communication between units goes through
// the shared state, and a unit's output is published there exactly once by
// the scheduler after Execute returns.
type Unit interface {
	Name() string
	Dependencies() []string
	Execute(ctx context.Context, in ExecutionInput) (interface{}, error)
}
