package units

import (
	"context"
	"log/slog"

	"github.com/loomhq/loom/internal/adapters/validator"
	"github.com/loomhq/loom/internal/ports"
)

// Product generates the product-page artifact from the parsed product.
type Product struct {
	gen       ports.Generator
	validator ports.Validator
	logger    *slog.Logger
}

func NewProduct(gen ports.Generator, v ports.Validator, logger *slog.Logger) *Product {
	return &Product{
		gen:       gen,
		validator: v,
		logger:    logger.With("unit", NameProduct),
	}
}

func (u *Product) Name() string           { return NameProduct }
func (u *Product) Dependencies() []string { return []string{NameParser} }

func (u *Product) Execute(ctx context.Context, in ports.ExecutionInput) (interface{}, error) {
	parsed := asMapping(in.Outputs[NameParser])

	raw, err := u.gen.GenerateJSON(ctx, ports.GenerateRequest{
		SystemPrompt: productSystemPrompt(),
		UserPrompt:   productUserPrompt(parsed),
		ShapeHint:    `{"title", "description", "sections"}`,
	})
	if err != nil {
		return nil, err
	}

	payload := map[string]interface{}{
		"page_type": validator.KindProductPage,
	}
	copyPresent(payload, asMapping(raw), "title", "description", "sections")

	u.logger.Debug("product page generated")
	return u.validator.Validate(validator.KindProductPage, payload)
}
