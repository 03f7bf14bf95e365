// Package core assembles the execution engine: provider, generator,
// validator, scheduler, and optional archive, behind one Run entry point.
package core

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/loomhq/loom/internal/adapters/archive"
	"github.com/loomhq/loom/internal/adapters/generator"
	"github.com/loomhq/loom/internal/adapters/parser"
	"github.com/loomhq/loom/internal/adapters/scheduler"
	"github.com/loomhq/loom/internal/adapters/state"
	"github.com/loomhq/loom/internal/adapters/validator"
	"github.com/loomhq/loom/internal/domain"
	"github.com/loomhq/loom/internal/helpers/clock"
	"github.com/loomhq/loom/internal/ports"
)

type Option func(*options)

type options struct {
	logger   *slog.Logger
	clock    ports.Clock
	provider ports.Provider
	archive  ports.Archive
}

// WithLogger sets the logger for the engine and every component under it.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithClock replaces the wall clock. Tests use a manual clock to drive
// backoff and throttling without real sleeps.
func WithClock(c ports.Clock) Option {
	return func(o *options) { o.clock = c }
}

// WithProvider replaces the outbound HTTP provider with a caller-supplied
// one, typically a deterministic fake.
func WithProvider(p ports.Provider) Option {
	return func(o *options) { o.provider = p }
}

// WithArchive replaces the badger-backed run archive.
func WithArchive(a ports.Archive) Option {
	return func(o *options) { o.archive = a }
}

// Engine owns the wired execution stack and the registered unit set.
// Registration order is significant: it is the scheduler's tie-break for
// dispatch and trace ordering.
type Engine struct {
	config    *domain.Config
	logger    *slog.Logger
	generator ports.Generator
	validator *validator.Validator
	scheduler ports.Scheduler
	archive   ports.Archive

	mu    sync.Mutex
	units []ports.Unit
	names map[string]struct{}
}

func New(config *domain.Config, opts ...Option) (*Engine, error) {
	if config == nil {
		config = domain.DefaultConfig()
	} else {
		if err := domain.ApplyDefaults(config); err != nil {
			return nil, fmt.Errorf("apply config defaults: %w", err)
		}
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	if o.clock == nil {
		o.clock = clock.New()
	}
	if o.provider == nil {
		o.provider = generator.NewHTTPProvider(config.Provider, o.logger)
	}
	if o.archive == nil && config.Archive.Enabled {
		store, err := archive.Open(config.Archive.Path, o.logger)
		if err != nil {
			return nil, err
		}
		o.archive = store
	}

	extractor := parser.NewExtractor(o.logger)
	gen := generator.NewClient(o.provider, extractor, config.Generator, o.clock, o.logger)

	return &Engine{
		config:    config,
		logger:    o.logger.With("component", "engine"),
		generator: gen,
		validator: validator.New(o.logger, validator.DefaultKinds()...),
		scheduler: scheduler.New(config.Scheduler, o.clock, o.logger),
		archive:   o.archive,
		names:     make(map[string]struct{}),
	}, nil
}

// RegisterUnit adds a unit to the set executed by Run. Names must be
// unique across the engine.
func (e *Engine) RegisterUnit(unit ports.Unit) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	name := unit.Name()
	if _, exists := e.names[name]; exists {
		return domain.NewDuplicateUnitError(name)
	}
	e.names[name] = struct{}{}
	e.units = append(e.units, unit)
	e.logger.Debug("unit registered", "unit", name, "dependencies", unit.Dependencies())
	return nil
}

// RegisterKind adds a structural schema for a custom artifact kind, so
// custom units can validate their payloads the same way the built-ins do.
func (e *Engine) RegisterKind(spec validator.KindSpec) {
	e.validator.RegisterKind(spec)
	e.logger.Debug("kind registered", "kind", spec.Kind)
}

// Run executes every registered unit against the given input record. Graph
// violations surface as a domain.DependencyError before any unit starts;
// unit failures are reported inside the result.
func (e *Engine) Run(ctx context.Context, record domain.Record) (*domain.RunResult, error) {
	e.mu.Lock()
	units := make([]ports.Unit, len(e.units))
	copy(units, e.units)
	e.mu.Unlock()

	// Units read a private snapshot of the record; caller-side mutations
	// after this point cannot leak into the run.
	store := state.NewStore(record.Clone(), e.logger)
	result, err := e.scheduler.Run(ctx, units, store)
	if err != nil {
		return nil, err
	}

	if e.archive != nil {
		// Archival is best-effort; a storage problem must not fail a
		// completed run.
		if err := e.archive.SaveRun(ctx, result); err != nil {
			e.logger.Warn("failed to archive run", "run_id", result.RunID, "error", err)
		}
	}
	return result, nil
}

// Generator exposes the wired generation client so callers can build
// custom units on the same retry and throttle policy.
func (e *Engine) Generator() ports.Generator {
	return e.generator
}

// Validator exposes the wired output validator.
func (e *Engine) Validator() ports.Validator {
	return e.validator
}

// Archive exposes the run archive, or nil when archiving is disabled.
func (e *Engine) Archive() ports.Archive {
	return e.archive
}

func (e *Engine) Close() error {
	if e.archive == nil {
		return nil
	}
	return e.archive.Close()
}
