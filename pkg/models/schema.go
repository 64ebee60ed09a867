package models

// Schema is a decoded JSON-schema fragment. The generator walks it
// dynamically, so it stays an untyped map rather than a struct.
type Schema map[string]any

// Type returns the declared "type" keyword, or "" when absent.
func (s Schema) Type() string {
	t, _ := s["type"].(string)
	return t
}

// Format returns the declared "format" keyword, or "".
func (s Schema) Format() string {
	f, _ := s["format"].(string)
	return f
}

// Properties returns the object property schemas, keyed by field name.
func (s Schema) Properties() map[string]Schema {
	raw, ok := s["properties"].(map[string]any)
	if !ok {
		return nil
	}
	props := make(map[string]Schema, len(raw))
	for name, v := range raw {
		if m, ok := v.(map[string]any); ok {
			props[name] = Schema(m)
		}
	}
	return props
}

// Required returns the required property names of an object schema.
func (s Schema) Required() []string {
	raw, ok := s["required"].([]any)
	if !ok {
		return nil
	}
	req := make([]string, 0, len(raw))
	for _, v := range raw {
		if name, ok := v.(string); ok {
			req = append(req, name)
		}
	}
	return req
}

// Enum returns the declared enum values, or nil.
func (s Schema) Enum() []any {
	e, _ := s["enum"].([]any)
	return e
}

// Items returns the array item schema, or nil.
func (s Schema) Items() Schema {
	if m, ok := s["items"].(map[string]any); ok {
		return Schema(m)
	}
	return nil
}

// Number reads a numeric keyword (minimum, maximum, multipleOf, ...).
// JSON decoding yields float64; YAML may yield int.
func (s Schema) Number(key string) (float64, bool) {
	switch v := s[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	}
	return 0, false
}

// Bool reads a boolean keyword (uniqueItems, exclusiveMinimum, ...).
func (s Schema) Bool(key string) bool {
	b, _ := s[key].(bool)
	return b
}

// String reads a string keyword (pattern, description, ...).
func (s Schema) String(key string) string {
	v, _ := s[key].(string)
	return v
}
