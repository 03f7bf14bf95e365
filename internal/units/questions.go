package units

import (
	"context"
	"log/slog"

	"github.com/loomhq/loom/internal/adapters/validator"
	"github.com/loomhq/loom/internal/ports"
)

// Questions generates categorized user questions about the parsed product.
type Questions struct {
	gen       ports.Generator
	validator ports.Validator
	logger    *slog.Logger
}

func NewQuestions(gen ports.Generator, v ports.Validator, logger *slog.Logger) *Questions {
	return &Questions{
		gen:       gen,
		validator: v,
		logger:    logger.With("unit", NameQuestions),
	}
}

func (u *Questions) Name() string           { return NameQuestions }
func (u *Questions) Dependencies() []string { return []string{NameParser} }

func (u *Questions) Execute(ctx context.Context, in ports.ExecutionInput) (interface{}, error) {
	parsed := asMapping(in.Outputs[NameParser])

	raw, err := u.gen.GenerateJSON(ctx, ports.GenerateRequest{
		SystemPrompt: questionsSystemPrompt(),
		UserPrompt:   questionsUserPrompt(parsed),
		ShapeHint:    `{"questions": [{"category", "text"}]}`,
	})
	if err != nil {
		return nil, err
	}

	payload := map[string]interface{}{}
	if list := listPayload(raw, "questions"); list != nil {
		payload["questions"] = list
	}

	u.logger.Debug("questions generated")
	return u.validator.Validate(validator.KindQuestions, payload)
}
