// Package units holds the built-in content units: parser, questions,
// product, comparison, and faq. Each reads its dependencies' finalized
// outputs, optionally drives the generator, and validates its payload
// before the scheduler publishes it.
package units

import (
	"log/slog"

	"github.com/loomhq/loom/internal/ports"
)

const (
	NameParser     = "parser"
	NameQuestions  = "questions"
	NameProduct    = "product"
	NameComparison = "comparison"
	NameFAQ        = "faq"
)

// Default returns the five content units in their canonical registration
// order: parser first, then the three independent page units, then faq.
func Default(gen ports.Generator, validator ports.Validator, logger *slog.Logger) []ports.Unit {
	if logger == nil {
		logger = slog.Default()
	}
	return []ports.Unit{
		NewParser(validator, logger),
		NewQuestions(gen, validator, logger),
		NewProduct(gen, validator, logger),
		NewComparison(gen, validator, logger),
		NewFAQ(gen, validator, logger),
	}
}

// asMapping returns a payload as a mapping, or nil.
func asMapping(v interface{}) map[string]interface{} {
	m, _ := v.(map[string]interface{})
	return m
}

// listPayload accepts either a bare list or a mapping wrapping the list
// under key, which generators produce interchangeably.
func listPayload(v interface{}, key string) []interface{} {
	if list, ok := v.([]interface{}); ok {
		return list
	}
	if m, ok := v.(map[string]interface{}); ok {
		if list, ok := m[key].([]interface{}); ok {
			return list
		}
	}
	return nil
}

// copyPresent copies the named keys from src into dst, skipping absent
// ones. Missing content stays missing for the validator to reject; nothing
// is defaulted.
func copyPresent(dst, src map[string]interface{}, keys ...string) {
	if src == nil {
		return
	}
	for _, key := range keys {
		if v, ok := src[key]; ok {
			dst[key] = v
		}
	}
}
