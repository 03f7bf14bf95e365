package scheduler

import (
	"fmt"

	"github.com/heimdalr/dag"
	"github.com/loomhq/loom/internal/domain"
	"github.com/loomhq/loom/internal/ports"
)

// buildGraph constructs the dependency DAG over unit names. Duplicate names,
// unresolvable dependencies, and cycles are all rejected here, before any
// unit executes.
func buildGraph(units []ports.Unit) (*dag.DAG, error) {
	g := dag.NewDAG()

	registered := make(map[string]bool, len(units))
	for _, unit := range units {
		name := unit.Name()
		if registered[name] {
			return nil, domain.NewDuplicateUnitError(name)
		}
		registered[name] = true
		if err := g.AddVertexByID(name, unit); err != nil {
			return nil, &domain.DependencyError{
				Unit:    name,
				Message: fmt.Sprintf("add unit %s to graph: %v", name, err),
			}
		}
	}

	for _, unit := range units {
		name := unit.Name()
		for _, dep := range unit.Dependencies() {
			if !registered[dep] {
				return nil, domain.NewUnknownDependencyError(name, dep)
			}
			if dep == name {
				return nil, domain.NewCycleError(name, dep)
			}
			if err := g.AddEdge(dep, name); err != nil {
				if _, ok := err.(dag.EdgeLoopError); ok {
					return nil, domain.NewCycleError(name, dep)
				}
				return nil, &domain.DependencyError{
					Unit:       name,
					Dependency: dep,
					Message:    fmt.Sprintf("add edge %s -> %s: %v", dep, name, err),
				}
			}
		}
	}

	return g, nil
}

// transitiveDependents returns the names of every unit downstream of the
// given one, directly or transitively.
func transitiveDependents(g *dag.DAG, name string) map[string]bool {
	out := make(map[string]bool)
	descendants, err := g.GetDescendants(name)
	if err != nil {
		return out
	}
	for id := range descendants {
		out[id] = true
	}
	return out
}
