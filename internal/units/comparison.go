package units

import (
	"context"
	"log/slog"

	"github.com/loomhq/loom/internal/adapters/validator"
	"github.com/loomhq/loom/internal/ports"
)

// Comparison generates a two-sided comparison between the parsed product and
// a fictional competitor.
type Comparison struct {
	gen       ports.Generator
	validator ports.Validator
	logger    *slog.Logger
}

func NewComparison(gen ports.Generator, v ports.Validator, logger *slog.Logger) *Comparison {
	return &Comparison{
		gen:       gen,
		validator: v,
		logger:    logger.With("unit", NameComparison),
	}
}

func (u *Comparison) Name() string           { return NameComparison }
func (u *Comparison) Dependencies() []string { return []string{NameParser} }

func (u *Comparison) Execute(ctx context.Context, in ports.ExecutionInput) (interface{}, error) {
	parsed := asMapping(in.Outputs[NameParser])

	raw, err := u.gen.GenerateJSON(ctx, ports.GenerateRequest{
		SystemPrompt: comparisonSystemPrompt(),
		UserPrompt:   comparisonUserPrompt(parsed),
		ShapeHint:    `{"products": [{"name", "attributes"}, {"name", "attributes"}]}`,
	})
	if err != nil {
		return nil, err
	}

	payload := map[string]interface{}{
		"page_type": validator.KindComparison,
	}
	if list := listPayload(raw, "products"); list != nil {
		payload["products"] = list
	}

	u.logger.Debug("comparison generated")
	return u.validator.Validate(validator.KindComparison, payload)
}
