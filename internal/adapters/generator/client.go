// Package generator drives calls to the external text-generation provider:
// transient/fatal classification, bounded retry with exponential backoff,
// per-call timeouts, and a shared inter-call throttle.
package generator

import (
	"context"
	"errors"
	"log/slog"

	"github.com/loomhq/loom/internal/domain"
	"github.com/loomhq/loom/internal/ports"
)

type Client struct {
	provider  ports.Provider
	extractor ports.PayloadExtractor
	throttle  *Throttle
	clock     ports.Clock
	config    domain.GeneratorConfig
	logger    *slog.Logger
}

func NewClient(
	provider ports.Provider,
	extractor ports.PayloadExtractor,
	config domain.GeneratorConfig,
	clock ports.Clock,
	logger *slog.Logger,
) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if config.MaxRetries <= 0 {
		config.MaxRetries = 1
	}
	return &Client{
		provider:  provider,
		extractor: extractor,
		throttle:  NewThrottle(config.MinInterval.Std(), clock),
		clock:     clock,
		config:    config,
		logger:    logger.With("component", "generator"),
	}
}

// Generate issues one logical request. Transient failures (rate limiting,
// call timeout) are retried with doubling backoff until the attempt budget
// is spent; MaxRetries counts total transient attempts, so a budget of 3
// reports exhaustion after the third transient failure. Fatal failures
// return immediately.
func (c *Client) Generate(ctx context.Context, req ports.GenerateRequest) (string, error) {
	var lastErr error

	for attempt := 1; attempt <= c.config.MaxRetries; attempt++ {
		if err := c.throttle.Acquire(ctx); err != nil {
			return "", err
		}

		text, err := c.call(ctx, req)
		if err == nil {
			c.logger.Debug("generation succeeded", "attempt", attempt, "response_bytes", len(text))
			return text, nil
		}
		if ctx.Err() != nil {
			return "", ctx.Err()
		}

		genErr := c.classify(err)
		if !genErr.Transient() {
			c.logger.Error("generation failed", "attempt", attempt, "kind", string(genErr.Kind), "error", genErr.Error())
			return "", genErr
		}

		lastErr = genErr
		if attempt == c.config.MaxRetries {
			break
		}

		delay := BackoffDelay(attempt, c.config.BaseDelay.Std(), c.config.MaxDelay.Std())
		c.logger.Info("transient generation failure, backing off",
			"attempt", attempt,
			"max_retries", c.config.MaxRetries,
			"kind", string(genErr.Kind),
			"delay", delay,
		)
		if err := c.clock.Sleep(ctx, delay); err != nil {
			return "", err
		}
	}

	c.logger.Error("generation retry budget exhausted", "attempts", c.config.MaxRetries)
	return "", domain.NewRateLimitExhaustedError(c.config.MaxRetries, lastErr)
}

// GenerateJSON drives Generate and extracts a structured payload from the
// response text. Extraction failures are not retried here; that policy
// belongs to the owning unit.
func (c *Client) GenerateJSON(ctx context.Context, req ports.GenerateRequest) (interface{}, error) {
	text, err := c.Generate(ctx, req)
	if err != nil {
		return nil, err
	}
	return c.extractor.Extract(text)
}

func (c *Client) call(ctx context.Context, req ports.GenerateRequest) (string, error) {
	callCtx := ctx
	if timeout := c.config.CallTimeout.Std(); timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return c.provider.Complete(callCtx, req)
}

// classify maps provider failures onto the generation error taxonomy.
// Exceeding the per-call timeout counts as transient, same as rate limiting.
func (c *Client) classify(err error) *domain.GenerationError {
	var genErr *domain.GenerationError
	if errors.As(err, &genErr) {
		return genErr
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return domain.NewGenerationError(domain.GenerationTimeout, "call timeout exceeded", err)
	}
	return domain.NewGenerationError(domain.GenerationProviderFailure, "provider call failed", err)
}

var _ ports.Generator = (*Client)(nil)
