// Package loom provides a dependency-aware content generation engine for Go
// applications.
//
// Loom executes a set of units over a shared input record. Each unit names
// the units it depends on; the engine runs independent units concurrently,
// feeds every unit the finalized outputs of its dependencies, and isolates a
// failure to the failing unit's dependents so that unrelated branches still
// complete. Units that call an external text-generation provider share one
// client with retry, exponential backoff, and inter-call throttling.
//
// Basic usage:
//
//	engine, err := loom.New(nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer engine.Close()
//
//	for _, unit := range loom.DefaultUnits(engine) {
//	    if err := engine.RegisterUnit(unit); err != nil {
//	        log.Fatal(err)
//	    }
//	}
//
//	result, err := engine.Run(ctx, loom.Record{"name": "Niacinamide 10% Serum"})
package loom

import (
	"log/slog"

	"github.com/loomhq/loom/internal/core"
	"github.com/loomhq/loom/internal/ports"
	"github.com/loomhq/loom/internal/units"
)

// Engine owns the wired execution stack and the registered unit set. Units
// execute in dependency order; registration order breaks ties in dispatch
// and trace ordering.
type Engine = core.Engine

// Option configures the engine at construction time.
type Option = core.Option

// New creates an engine from the given configuration. A nil config uses
// defaults; partial configs are filled in field by field.
func New(config *Config, opts ...Option) (*Engine, error) {
	return core.New(config, opts...)
}

// WithLogger sets the logger for the engine and every component under it.
func WithLogger(logger *slog.Logger) Option {
	return core.WithLogger(logger)
}

// WithProvider replaces the outbound text-generation provider. Tests use
// this to run full pipelines against a deterministic fake.
func WithProvider(p Provider) Option {
	return core.WithProvider(p)
}

// WithClock replaces the wall clock used for backoff, throttling, and trace
// timestamps.
func WithClock(c Clock) Option {
	return core.WithClock(c)
}

// WithArchive replaces the run archive.
func WithArchive(a Archive) Option {
	return core.WithArchive(a)
}

// DefaultUnits returns the built-in content units in their canonical
// registration order: parser, questions, product, comparison, faq.
func DefaultUnits(engine *Engine) []Unit {
	return units.Default(engine.Generator(), engine.Validator(), slog.Default())
}

// Unit is a named computation with a declared dependency set. Execute reads
// only the input record and its dependencies' finalized outputs.
type Unit = ports.Unit

// ExecutionInput is everything a unit may read during Execute.
type ExecutionInput = ports.ExecutionInput

// Generator issues generation requests with retry, backoff, and throttling.
type Generator = ports.Generator

// GenerateRequest carries one logical request to the provider.
type GenerateRequest = ports.GenerateRequest

// Provider is the raw outbound call to the external generation service.
type Provider = ports.Provider

// Validator checks structural invariants on unit outputs.
type Validator = ports.Validator

// Clock abstracts time for deterministic tests.
type Clock = ports.Clock

// Archive persists finished run results.
type Archive = ports.Archive
