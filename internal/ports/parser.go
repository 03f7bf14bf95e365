package ports

// PayloadExtractor recovers a structured payload from free-form generator
// text. Extraction is deterministic: identical text always yields an
// identical payload or the same domain.ParseError.
type PayloadExtractor interface {
	Extract(text string) (interface{}, error)
}
