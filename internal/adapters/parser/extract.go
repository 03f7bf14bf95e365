// Package parser recovers structured payloads from free-form generator
// text. Responses may be clean JSON, fenced in markdown, or buried in
// prose; extraction finds the outermost balanced span that parses.
package parser

import (
	"log/slog"
	"strings"

	"github.com/loomhq/loom/internal/domain"
	"github.com/loomhq/loom/internal/ports"
	"github.com/loomhq/loom/internal/xjson"
)

var fenceMarkers = []string{"```json", "```JSON", "```"}

type Extractor struct {
	logger *slog.Logger
}

func NewExtractor(logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{logger: logger.With("component", "extractor")}
}

// Extract strips wrapping markers, locates the outermost balanced object or
// array span, and parses it. Candidates are tried left to right; an outer
// span that fails to parse falls through to spans starting later. Identical
// input always yields identical output.
func (e *Extractor) Extract(text string) (interface{}, error) {
	cleaned := stripFences(text)

	for i := 0; i < len(cleaned); i++ {
		open := cleaned[i]
		if open != '{' && open != '[' {
			continue
		}
		end, ok := matchSpan(cleaned, i)
		if !ok {
			continue
		}
		span := cleaned[i : end+1]
		var payload interface{}
		if err := xjson.Unmarshal([]byte(span), &payload); err != nil {
			e.logger.Debug("balanced span rejected by parser", "offset", i, "length", len(span))
			continue
		}
		return payload, nil
	}

	e.logger.Debug("no structured payload in response", "length", len(text))
	return nil, domain.NewParseError(text)
}

func stripFences(text string) string {
	for _, marker := range fenceMarkers {
		text = strings.ReplaceAll(text, marker, "")
	}
	return strings.TrimSpace(text)
}

// matchSpan finds the index of the delimiter closing the one at start.
// Nesting is balanced across both delimiter kinds, and delimiters inside
// quoted strings (including escaped quotes) are ignored.
func matchSpan(s string, start int) (int, bool) {
	var stack []byte
	inString := false
	escaped := false

	for i := start; i < len(s); i++ {
		c := s[i]

		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case '{', '[':
			stack = append(stack, c)
		case '}', ']':
			if len(stack) == 0 {
				return 0, false
			}
			open := stack[len(stack)-1]
			if (c == '}' && open != '{') || (c == ']' && open != '[') {
				return 0, false
			}
			stack = stack[:len(stack)-1]
			if len(stack) == 0 {
				return i, true
			}
		}
	}
	return 0, false
}

var _ ports.PayloadExtractor = (*Extractor)(nil)
