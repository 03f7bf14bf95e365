package domain

import (
	"time"
)

type UnitStatus string

const (
	UnitStatusSucceeded UnitStatus = "succeeded"
	UnitStatusFailed    UnitStatus = "failed"
	UnitStatusSkipped   UnitStatus = "skipped"
)

// UnitResult is the terminal outcome of one unit. Exactly one of Output and
// Error is meaningful: succeeded units carry a validated output, failed units
// an error detail, skipped units neither.
type UnitResult struct {
	Unit   string      `json:"unit"`
	Status UnitStatus  `json:"status"`
	Output interface{} `json:"output,omitempty"`
	Error  *string     `json:"error,omitempty"`
}

// RunResult is the caller-facing outcome of a run: per-unit terminal status
// plus the ordered execution trace.
type RunResult struct {
	RunID       string                `json:"run_id"`
	StartedAt   time.Time             `json:"started_at"`
	CompletedAt time.Time             `json:"completed_at"`
	Cancelled   bool                  `json:"cancelled,omitempty"`
	Units       map[string]UnitResult `json:"units"`
	Trace       []TraceEvent          `json:"trace"`
}

// Succeeded returns the names of units that produced a validated output.
func (r *RunResult) Succeeded() []string {
	return r.unitsWithStatus(UnitStatusSucceeded)
}

// Failed returns the names of units that failed.
func (r *RunResult) Failed() []string {
	return r.unitsWithStatus(UnitStatusFailed)
}

// Skipped returns the names of units that were never attempted because an
// ancestor failed or the run was cancelled.
func (r *RunResult) Skipped() []string {
	return r.unitsWithStatus(UnitStatusSkipped)
}

func (r *RunResult) unitsWithStatus(status UnitStatus) []string {
	var names []string
	for _, event := range r.Trace {
		res, ok := r.Units[event.Unit]
		if !ok || res.Status != status {
			continue
		}
		if event.Transition == Transition(status) {
			names = append(names, event.Unit)
		}
	}
	return names
}

// Output returns the validated output of a succeeded unit.
func (r *RunResult) Output(unit string) (interface{}, bool) {
	res, ok := r.Units[unit]
	if !ok || res.Status != UnitStatusSucceeded {
		return nil, false
	}
	return res.Output, true
}

// RunSummary is the archive listing view of a completed run.
type RunSummary struct {
	RunID       string    `json:"run_id"`
	StartedAt   time.Time `json:"started_at"`
	CompletedAt time.Time `json:"completed_at"`
	Succeeded   int       `json:"succeeded"`
	Failed      int       `json:"failed"`
	Skipped     int       `json:"skipped"`
}

// Summary condenses a run result for archive listings.
func (r *RunResult) Summary() RunSummary {
	s := RunSummary{
		RunID:       r.RunID,
		StartedAt:   r.StartedAt,
		CompletedAt: r.CompletedAt,
	}
	for _, res := range r.Units {
		switch res.Status {
		case UnitStatusSucceeded:
			s.Succeeded++
		case UnitStatusFailed:
			s.Failed++
		case UnitStatusSkipped:
			s.Skipped++
		}
	}
	return s
}
