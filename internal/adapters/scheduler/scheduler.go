// Package scheduler drives a registered set of units over their dependency
// graph: ready-frontier computation, concurrent dispatch of independent
// units, branch-local failure with transitive skips, and a deterministic
// execution trace.
package scheduler

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/heimdalr/dag"
	"github.com/loomhq/loom/internal/domain"
	"github.com/loomhq/loom/internal/ports"
)

type Scheduler struct {
	config domain.SchedulerConfig
	clock  ports.Clock
	logger *slog.Logger
}

func New(config domain.SchedulerConfig, clock ports.Clock, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	if config.MaxConcurrentUnits <= 0 {
		config.MaxConcurrentUnits = 4
	}
	return &Scheduler{
		config: config,
		clock:  clock,
		logger: logger.With("component", "scheduler"),
	}
}

type waveResult struct {
	output interface{}
	err    error
}

// Run validates the graph, then loops: compute the ready frontier, dispatch
// it (independent units concurrently), publish outputs, propagate failures
// to transitive dependents as skips. Graph violations abort before any unit
// executes; unit failures stay local to their branch. Cancellation stops
// dispatching new waves but keeps already-finalized outputs.
func (s *Scheduler) Run(ctx context.Context, units []ports.Unit, state ports.State) (*domain.RunResult, error) {
	startedAt := s.clock.Now()

	graph, err := buildGraph(units)
	if err != nil {
		s.logger.Error("dependency graph rejected", "error", err.Error())
		return nil, err
	}

	index := make(map[string]int, len(units))
	for i, unit := range units {
		index[unit.Name()] = i
	}

	status := make(map[string]domain.UnitStatus, len(units))
	failures := make(map[string]error)
	trace := newTraceRecorder(s.clock)
	runID := uuid.New().String()

	s.logger.Info("run starting", "run_id", runID, "units", len(units))

	cancelled := false
	for {
		if ctx.Err() != nil {
			cancelled = true
			s.logger.Info("run cancelled, no further units dispatched", "run_id", runID)
			break
		}

		frontier := s.readyFrontier(units, status)
		if len(frontier) == 0 {
			break
		}

		for _, unit := range frontier {
			trace.record(unit.Name(), domain.TransitionDispatched)
			s.logger.Debug("unit dispatched", "run_id", runID, "unit", unit.Name())
		}

		results := s.runWave(ctx, frontier, state)

		for _, unit := range frontier {
			name := unit.Name()
			res := results[name]

			if res.err == nil {
				res.err = state.Put(name, res.output)
			}
			if res.err != nil {
				status[name] = domain.UnitStatusFailed
				failures[name] = res.err
				trace.record(name, domain.TransitionFailed)
				s.logger.Error("unit failed", "run_id", runID, "unit", name, "error", res.err.Error())
				s.skipDependents(graph, name, index, status, trace, runID)
				continue
			}

			status[name] = domain.UnitStatusSucceeded
			trace.record(name, domain.TransitionSucceeded)
			s.logger.Info("unit succeeded", "run_id", runID, "unit", name)
		}
	}

	// Anything still pending was never attempted (cancellation or an
	// ancestor skip); report it as skipped, in registration order.
	for _, unit := range units {
		if status[unit.Name()] == "" {
			status[unit.Name()] = domain.UnitStatusSkipped
			trace.record(unit.Name(), domain.TransitionSkipped)
		}
	}

	result := s.buildResult(runID, startedAt, cancelled, units, status, failures, state, trace)
	s.logger.Info("run finished",
		"run_id", runID,
		"succeeded", len(result.Succeeded()),
		"failed", len(result.Failed()),
		"skipped", len(result.Skipped()),
	)
	return result, nil
}

// readyFrontier returns pending units whose dependencies have all succeeded,
// in registration order. Registration order is the tie-break that keeps
// traces deterministic even when execution is concurrent.
func (s *Scheduler) readyFrontier(units []ports.Unit, status map[string]domain.UnitStatus) []ports.Unit {
	var frontier []ports.Unit
	for _, unit := range units {
		if status[unit.Name()] != "" {
			continue
		}
		ready := true
		for _, dep := range unit.Dependencies() {
			if status[dep] != domain.UnitStatusSucceeded {
				ready = false
				break
			}
		}
		if ready {
			frontier = append(frontier, unit)
		}
	}
	return frontier
}

// runWave executes one frontier. Units in a wave share no dependency edge
// and each writes a distinct state key, so they are safe to run in parallel.
func (s *Scheduler) runWave(ctx context.Context, frontier []ports.Unit, state ports.State) map[string]waveResult {
	results := make(map[string]waveResult, len(frontier))

	var (
		mu  sync.Mutex
		wg  sync.WaitGroup
		sem = make(chan struct{}, s.config.MaxConcurrentUnits)
	)

	for _, unit := range frontier {
		wg.Add(1)
		go func(unit ports.Unit) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			output, err := s.executeUnit(ctx, unit, state)

			mu.Lock()
			results[unit.Name()] = waveResult{output: output, err: err}
			mu.Unlock()
		}(unit)
	}
	wg.Wait()

	return results
}

func (s *Scheduler) executeUnit(ctx context.Context, unit ports.Unit, state ports.State) (interface{}, error) {
	outputs, err := state.Outputs(unit.Dependencies()...)
	if err != nil {
		return nil, domain.NewUnitError(unit.Name(), err)
	}

	output, err := unit.Execute(ctx, ports.ExecutionInput{
		Record:  state.Record(),
		Outputs: outputs,
	})
	if err != nil {
		return nil, domain.NewUnitError(unit.Name(), err)
	}
	return output, nil
}

// skipDependents marks every transitive dependent of a failed unit skipped
// without attempting it. Siblings outside the failed branch are unaffected.
func (s *Scheduler) skipDependents(
	graph *dag.DAG,
	failed string,
	index map[string]int,
	status map[string]domain.UnitStatus,
	trace *traceRecorder,
	runID string,
) {
	names := make([]string, 0)
	for name := range transitiveDependents(graph, failed) {
		if status[name] == "" {
			names = append(names, name)
		}
	}
	sort.Slice(names, func(i, j int) bool { return index[names[i]] < index[names[j]] })

	for _, name := range names {
		status[name] = domain.UnitStatusSkipped
		trace.record(name, domain.TransitionSkipped)
		s.logger.Info("unit skipped, ancestor failed", "run_id", runID, "unit", name, "failed_ancestor", failed)
	}
}

func (s *Scheduler) buildResult(
	runID string,
	startedAt time.Time,
	cancelled bool,
	units []ports.Unit,
	status map[string]domain.UnitStatus,
	failures map[string]error,
	state ports.State,
	trace *traceRecorder,
) *domain.RunResult {
	unitResults := make(map[string]domain.UnitResult, len(units))
	for _, unit := range units {
		name := unit.Name()
		res := domain.UnitResult{Unit: name, Status: status[name]}
		switch status[name] {
		case domain.UnitStatusSucceeded:
			res.Output, _ = state.Get(name)
		case domain.UnitStatusFailed:
			msg := failures[name].Error()
			res.Error = &msg
		}
		unitResults[name] = res
	}

	return &domain.RunResult{
		RunID:       runID,
		StartedAt:   startedAt,
		CompletedAt: s.clock.Now(),
		Cancelled:   cancelled,
		Units:       unitResults,
		Trace:       trace.snapshot(),
	}
}
