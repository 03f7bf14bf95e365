package units

import (
	"context"
	"log/slog"

	"github.com/loomhq/loom/internal/adapters/validator"
	"github.com/loomhq/loom/internal/ports"
)

// Parser normalizes the raw input record into the structured product payload
// every downstream unit reads. It is the only unit with no dependencies and
// the only one that never calls the generator.
type Parser struct {
	validator ports.Validator
	logger    *slog.Logger
}

func NewParser(v ports.Validator, logger *slog.Logger) *Parser {
	return &Parser{
		validator: v,
		logger:    logger.With("unit", NameParser),
	}
}

func (u *Parser) Name() string           { return NameParser }
func (u *Parser) Dependencies() []string { return nil }

func (u *Parser) Execute(ctx context.Context, in ports.ExecutionInput) (interface{}, error) {
	record := in.Record

	payload := map[string]interface{}{
		"name":            record.StringField("name"),
		"concentration":   record.StringField("concentration"),
		"skin_type":       stringList(record.StringsField("skin_type")),
		"key_ingredients": stringList(record.StringsField("key_ingredients")),
		"benefits":        stringList(record.StringsField("benefits")),
		"how_to_use":      record.StringField("how_to_use"),
		"side_effects":    record.StringField("side_effects"),
		"price":           record.StringField("price"),
	}

	u.logger.Debug("record normalized", "fields", len(payload))
	return u.validator.Validate(validator.KindParsedProduct, payload)
}

func stringList(items []string) []interface{} {
	out := make([]interface{}, 0, len(items))
	for _, item := range items {
		out = append(out, item)
	}
	return out
}
