package domain

// Record is the validated input record for a run. It is created once by the
// caller and treated as immutable for the run's duration; units read it
// through the shared state and never write to it.
type Record map[string]interface{}

// StringField returns a top-level field coerced to string, or "" when the
// field is absent or not a string.
func (r Record) StringField(name string) string {
	if v, ok := r[name]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// StringsField returns a top-level list field as a string slice. Non-string
// entries are skipped.
func (r Record) StringsField(name string) []string {
	v, ok := r[name]
	if !ok {
		return nil
	}
	items, ok := v.([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// Clone returns a shallow copy of the record.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}
