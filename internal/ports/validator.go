package ports

// Validator checks structural invariants on a candidate payload for a named
// artifact kind. On success it returns the payload unchanged as the
// validated output; a violation is rejected outright with a
// domain.SchemaViolationError, never patched or defaulted.
type Validator interface {
	Validate(kind string, payload interface{}) (interface{}, error)
}
