// Package validator enforces per-kind structural invariants on candidate
// payloads. A violation is rejected outright with field-path context;
// nothing is patched or defaulted.
package validator

import (
	"fmt"
	"log/slog"

	"github.com/loomhq/loom/internal/domain"
	"github.com/loomhq/loom/internal/ports"
)

type FieldType string

const (
	TypeString  FieldType = "string"
	TypeNumber  FieldType = "number"
	TypeList    FieldType = "list"
	TypeMapping FieldType = "mapping"
)

// FieldSpec declares one required top-level or item field.
type FieldSpec struct {
	Name string
	Type FieldType

	// Const, when set on a string field, requires that exact value.
	Const string

	// MinItems / ExactItems constrain list fields. Zero means unconstrained.
	MinItems   int
	ExactItems int

	// ItemFields, when set on a list field, requires every entry to be a
	// mapping carrying these fields.
	ItemFields []FieldSpec
}

// KindSpec is the declared shape of one artifact kind. Fields are checked in
// declaration order and the first violation wins.
type KindSpec struct {
	Kind   string
	Fields []FieldSpec
}

type Validator struct {
	kinds  map[string]KindSpec
	logger *slog.Logger
}

func New(logger *slog.Logger, specs ...KindSpec) *Validator {
	if logger == nil {
		logger = slog.Default()
	}
	v := &Validator{
		kinds:  make(map[string]KindSpec, len(specs)),
		logger: logger.With("component", "validator"),
	}
	for _, spec := range specs {
		v.kinds[spec.Kind] = spec
	}
	return v
}

func (v *Validator) RegisterKind(spec KindSpec) {
	v.kinds[spec.Kind] = spec
}

// Validate checks the payload against the named kind. Checks run in order:
// required fields present and correctly typed, then list count constraints,
// then nested item shape. On success the payload itself is the validated
// output.
func (v *Validator) Validate(kind string, payload interface{}) (interface{}, error) {
	spec, ok := v.kinds[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownKind, kind)
	}

	root, ok := payload.(map[string]interface{})
	if !ok {
		return nil, domain.NewSchemaViolationError(kind, "$", "mapping", describe(payload))
	}

	for _, field := range spec.Fields {
		if err := checkPresenceAndType(kind, root, field); err != nil {
			return nil, err
		}
	}
	for _, field := range spec.Fields {
		if err := checkCounts(kind, root, field); err != nil {
			return nil, err
		}
	}
	for _, field := range spec.Fields {
		if err := checkItemShape(kind, root, field); err != nil {
			return nil, err
		}
	}

	v.logger.Debug("payload accepted", "kind", kind)
	return payload, nil
}

func checkPresenceAndType(kind string, root map[string]interface{}, field FieldSpec) error {
	value, present := root[field.Name]
	if !present {
		return domain.NewSchemaViolationError(kind, field.Name, string(field.Type), "missing")
	}
	if !typeMatches(field.Type, value) {
		return domain.NewSchemaViolationError(kind, field.Name, string(field.Type), describe(value))
	}
	if field.Const != "" {
		if s, _ := value.(string); s != field.Const {
			return domain.NewSchemaViolationError(kind, field.Name, fmt.Sprintf("%q", field.Const), fmt.Sprintf("%q", s))
		}
	}
	return nil
}

func checkCounts(kind string, root map[string]interface{}, field FieldSpec) error {
	if field.Type != TypeList || (field.MinItems == 0 && field.ExactItems == 0) {
		return nil
	}
	list, _ := root[field.Name].([]interface{})
	if field.ExactItems > 0 && len(list) != field.ExactItems {
		return domain.NewSchemaViolationError(kind, field.Name,
			fmt.Sprintf("exactly %d entries", field.ExactItems),
			fmt.Sprintf("%d entries", len(list)))
	}
	if field.MinItems > 0 && len(list) < field.MinItems {
		return domain.NewSchemaViolationError(kind, field.Name,
			fmt.Sprintf("at least %d entries", field.MinItems),
			fmt.Sprintf("%d entries", len(list)))
	}
	return nil
}

func checkItemShape(kind string, root map[string]interface{}, field FieldSpec) error {
	if field.Type != TypeList || len(field.ItemFields) == 0 {
		return nil
	}
	list, _ := root[field.Name].([]interface{})
	for i, item := range list {
		path := fmt.Sprintf("%s[%d]", field.Name, i)
		entry, ok := item.(map[string]interface{})
		if !ok {
			return domain.NewSchemaViolationError(kind, path, "mapping", describe(item))
		}
		for _, sub := range field.ItemFields {
			subPath := path + "." + sub.Name
			value, present := entry[sub.Name]
			if !present {
				return domain.NewSchemaViolationError(kind, subPath, string(sub.Type), "missing")
			}
			if !typeMatches(sub.Type, value) {
				return domain.NewSchemaViolationError(kind, subPath, string(sub.Type), describe(value))
			}
		}
	}
	return nil
}

func typeMatches(t FieldType, value interface{}) bool {
	switch t {
	case TypeString:
		_, ok := value.(string)
		return ok
	case TypeNumber:
		switch value.(type) {
		case float64, int, int64:
			return true
		}
		return false
	case TypeList:
		_, ok := value.([]interface{})
		return ok
	case TypeMapping:
		_, ok := value.(map[string]interface{})
		return ok
	}
	return false
}

func describe(value interface{}) string {
	switch value.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case float64, int, int64:
		return "number"
	case bool:
		return "bool"
	case []interface{}:
		return "list"
	case map[string]interface{}:
		return "mapping"
	}
	return fmt.Sprintf("%T", value)
}

var _ ports.Validator = (*Validator)(nil)
