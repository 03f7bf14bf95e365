package domain

import (
	"errors"
	"fmt"
)

var (
	ErrAlreadyRegistered = errors.New("unit already registered")
	ErrKeyExists         = errors.New("state key already written")
	ErrUnknownKind       = errors.New("unknown artifact kind")
	ErrRunNotFound       = errors.New("run not found")
	ErrClosed            = errors.New("archive closed")
)

// DependencyError reports a cyclic or unresolvable dependency graph. It is
// fatal and pre-execution only: no unit runs once it is raised.
type DependencyError struct {
	Unit       string
	Dependency string
	Message    string
}

func (e *DependencyError) Error() string {
	return e.Message
}

func NewCycleError(unit, dependency string) *DependencyError {
	return &DependencyError{
		Unit:       unit,
		Dependency: dependency,
		Message:    fmt.Sprintf("dependency cycle: edge %s -> %s closes a loop", dependency, unit),
	}
}

func NewUnknownDependencyError(unit, dependency string) *DependencyError {
	return &DependencyError{
		Unit:       unit,
		Dependency: dependency,
		Message:    fmt.Sprintf("unit %s depends on unregistered unit %s", unit, dependency),
	}
}

func NewDuplicateUnitError(unit string) *DependencyError {
	return &DependencyError{
		Unit:    unit,
		Message: fmt.Sprintf("unit %s registered twice", unit),
	}
}

func IsDependencyError(err error) bool {
	var depErr *DependencyError
	return errors.As(err, &depErr)
}

type GenerationErrorKind string

const (
	GenerationRateLimited        GenerationErrorKind = "rate_limited"
	GenerationTimeout            GenerationErrorKind = "timeout"
	GenerationAuth               GenerationErrorKind = "auth"
	GenerationMalformedRequest   GenerationErrorKind = "malformed_request"
	GenerationRateLimitExhausted GenerationErrorKind = "rate_limit_exhausted"
	GenerationProviderFailure    GenerationErrorKind = "provider_failure"
)

// GenerationError classifies a failed call to the text-generation provider.
// Rate-limit and timeout kinds are transient and retried by the client;
// everything else propagates immediately.
type GenerationError struct {
	Kind    GenerationErrorKind
	Message string
	Err     error
}

func (e *GenerationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("generation %s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("generation %s: %s", e.Kind, e.Message)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// Transient reports whether the error is eligible for retry.
func (e *GenerationError) Transient() bool {
	return e.Kind == GenerationRateLimited || e.Kind == GenerationTimeout
}

func NewGenerationError(kind GenerationErrorKind, message string, err error) *GenerationError {
	return &GenerationError{Kind: kind, Message: message, Err: err}
}

func NewRateLimitExhaustedError(attempts int, last error) *GenerationError {
	return &GenerationError{
		Kind:    GenerationRateLimitExhausted,
		Message: fmt.Sprintf("retry budget exhausted after %d attempts", attempts),
		Err:     last,
	}
}

func IsGenerationError(err error) bool {
	var genErr *GenerationError
	return errors.As(err, &genErr)
}

func IsRateLimitExhausted(err error) bool {
	var genErr *GenerationError
	return errors.As(err, &genErr) && genErr.Kind == GenerationRateLimitExhausted
}

func IsTransientGeneration(err error) bool {
	var genErr *GenerationError
	return errors.As(err, &genErr) && genErr.Transient()
}

type ParseErrorKind string

const (
	ParseNoStructuredPayload ParseErrorKind = "no_structured_payload"
)

// ParseError reports that no structured payload could be recovered from
// generator text. Raw retains the offending text for diagnostics.
type ParseError struct {
	Kind ParseErrorKind
	Raw  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: no balanced structured span in %d bytes of text", e.Kind, len(e.Raw))
}

func NewParseError(raw string) *ParseError {
	return &ParseError{Kind: ParseNoStructuredPayload, Raw: raw}
}

func IsParseError(err error) bool {
	var parseErr *ParseError
	return errors.As(err, &parseErr)
}

// SchemaViolationError reports the first structural constraint a candidate
// payload fails, with enough context to localize the defect.
type SchemaViolationError struct {
	Kind     string
	Path     string
	Expected string
	Actual   string
}

func (e *SchemaViolationError) Error() string {
	return fmt.Sprintf("schema violation in %s at %s: expected %s, got %s", e.Kind, e.Path, e.Expected, e.Actual)
}

func NewSchemaViolationError(kind, path, expected, actual string) *SchemaViolationError {
	return &SchemaViolationError{Kind: kind, Path: path, Expected: expected, Actual: actual}
}

func IsSchemaViolation(err error) bool {
	var schemaErr *SchemaViolationError
	return errors.As(err, &schemaErr)
}

// UnitError wraps a unit-level failure with the owning unit's name. The
// failure stays local to that unit's branch.
type UnitError struct {
	Unit string
	Err  error
}

func (e *UnitError) Error() string {
	return fmt.Sprintf("unit %s: %v", e.Unit, e.Err)
}

func (e *UnitError) Unwrap() error {
	return e.Err
}

func NewUnitError(unit string, err error) *UnitError {
	return &UnitError{Unit: unit, Err: err}
}
