package ports

import (
	"context"
)

// GenerateRequest carries one logical request to the text-generation
// provider. ShapeHint describes the expected payload shape and is advisory;
// requests are ephemeral and never persisted. A zero MaxTokens defers to
// the provider's configured limit.
type GenerateRequest struct {
	SystemPrompt string
	UserPrompt   string
	ShapeHint    string
	MaxTokens    int
}

// Generator issues a single logical generation with retry/backoff and
// rate-limit awareness. Errors are domain.GenerationError values.
type Generator interface {
	Generate(ctx context.Context, req GenerateRequest) (string, error)

	// GenerateJSON drives Generate and extracts a structured payload from
	// the response text.
	GenerateJSON(ctx context.Context, req GenerateRequest) (interface{}, error)
}

// Provider is the raw outbound call to the external text-generation service.
// Implementations classify failures as domain.GenerationError kinds; the
// retry policy lives above this interface, in the client.
type Provider interface {
	Complete(ctx context.Context, req GenerateRequest) (string, error)
}
