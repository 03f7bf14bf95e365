package units

import (
	"context"
	"log/slog"

	"github.com/loomhq/loom/internal/adapters/validator"
	"github.com/loomhq/loom/internal/ports"
)

// FAQ answers the generated user questions from the product data. It is the
// only unit with two dependencies and carries the hard floor of fifteen
// entries.
type FAQ struct {
	gen       ports.Generator
	validator ports.Validator
	logger    *slog.Logger
}

func NewFAQ(gen ports.Generator, v ports.Validator, logger *slog.Logger) *FAQ {
	return &FAQ{
		gen:       gen,
		validator: v,
		logger:    logger.With("unit", NameFAQ),
	}
}

func (u *FAQ) Name() string           { return NameFAQ }
func (u *FAQ) Dependencies() []string { return []string{NameParser, NameQuestions} }

func (u *FAQ) Execute(ctx context.Context, in ports.ExecutionInput) (interface{}, error) {
	parsed := asMapping(in.Outputs[NameParser])
	questions := listPayload(in.Outputs[NameQuestions], "questions")

	raw, err := u.gen.GenerateJSON(ctx, ports.GenerateRequest{
		SystemPrompt: faqSystemPrompt(),
		UserPrompt:   faqUserPrompt(parsed, questions),
		ShapeHint:    `{"faqs": [{"question", "answer"}]}`,
	})
	if err != nil {
		return nil, err
	}

	payload := map[string]interface{}{
		"page_type": validator.KindFAQ,
	}
	if list := listPayload(raw, "faqs"); list != nil {
		payload["faqs"] = list
	}

	u.logger.Debug("faq generated")
	return u.validator.Validate(validator.KindFAQ, payload)
}
