package loom

import (
	"github.com/loomhq/loom/internal/adapters/validator"
	"github.com/loomhq/loom/internal/domain"
)

// Record is the loose input describing the product a run generates content
// for. Units read fields defensively; missing fields degrade a single
// unit's output, never the run.
type Record = domain.Record

// RunResult is the caller-facing outcome of a run: per-unit terminal
// status plus the ordered execution trace.
type RunResult = domain.RunResult

// RunSummary is the archive listing view of a completed run.
type RunSummary = domain.RunSummary

// UnitResult is the terminal outcome of one unit.
type UnitResult = domain.UnitResult

// UnitStatus is a unit's terminal status within a run.
type UnitStatus = domain.UnitStatus

const (
	UnitSucceeded = domain.UnitStatusSucceeded
	UnitFailed    = domain.UnitStatusFailed
	UnitSkipped   = domain.UnitStatusSkipped
)

// TraceEvent is one entry in the deterministic execution trace.
type TraceEvent = domain.TraceEvent

// KindSpec declares the structural schema of one artifact kind. Register
// custom kinds with Engine.RegisterKind before running custom units that
// validate against them.
type KindSpec = validator.KindSpec

// FieldSpec declares one required field within a KindSpec.
type FieldSpec = validator.FieldSpec

// FieldType names the declared type of a field.
type FieldType = validator.FieldType

const (
	TypeString  = validator.TypeString
	TypeNumber  = validator.TypeNumber
	TypeList    = validator.TypeList
	TypeMapping = validator.TypeMapping
)

// DependencyError reports a structural problem in the registered unit set:
// a cycle, an unknown dependency, or a duplicate name. It is returned by
// Run before any unit executes.
type DependencyError = domain.DependencyError

// GenerationError reports a provider call failure with its classification.
type GenerationError = domain.GenerationError

// ParseError reports that no structured payload could be extracted from a
// provider response.
type ParseError = domain.ParseError

// SchemaViolationError reports an output that failed structural validation.
type SchemaViolationError = domain.SchemaViolationError

// IsDependencyError reports whether err is a DependencyError.
func IsDependencyError(err error) bool {
	return domain.IsDependencyError(err)
}

// IsRateLimitExhausted reports whether err is a generation failure caused
// by spending the whole transient retry budget.
func IsRateLimitExhausted(err error) bool {
	return domain.IsRateLimitExhausted(err)
}

// IsParseError reports whether err is a ParseError.
func IsParseError(err error) bool {
	return domain.IsParseError(err)
}

// IsSchemaViolation reports whether err is a SchemaViolationError.
func IsSchemaViolation(err error) bool {
	return domain.IsSchemaViolation(err)
}
