package foundation

import (
	"math"
	"math/rand"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/masseyis/tdg/pkg/models"
)

// valueGen synthesizes schema-conforming values. Both random sources are
// seeded together, and every map walk happens in sorted key order, so the
// same seed always replays the same draw sequence.
type valueGen struct {
	rng  *rand.Rand
	fake *gofakeit.Faker
	hint string
}

func newValueGen(seed int64, domainHint string) *valueGen {
	return &valueGen{
		rng:  rand.New(rand.NewSource(seed)),
		fake: gofakeit.New(seed),
		hint: strings.ToLower(domainHint),
	}
}

// forSchema generates a value conforming to the schema. Unknown or empty
// schemas yield nil rather than an error.
func (v *valueGen) forSchema(s models.Schema) any {
	if len(s) == 0 {
		return nil
	}

	if enum := s.Enum(); len(enum) > 0 {
		return enum[v.rng.Intn(len(enum))]
	}
	if examples, ok := s["examples"].([]any); ok && len(examples) > 0 {
		return examples[v.rng.Intn(len(examples))]
	}

	switch s.Type() {
	case "string":
		return v.str(s)
	case "number":
		return v.number(s)
	case "integer":
		return v.integer(s)
	case "boolean":
		return v.fake.Bool()
	case "array":
		return v.array(s)
	case "object":
		return v.object(s)
	case "null":
		return nil
	}
	return nil
}

func (v *valueGen) str(s models.Schema) string {
	switch s.Format() {
	case "date":
		return v.fake.Date().Format("2006-01-02")
	case "date-time":
		return v.fake.Date().Format(time.RFC3339)
	case "time":
		return v.fake.Date().Format("15:04:05")
	case "email":
		return v.fake.Email()
	case "hostname":
		return v.fake.DomainName()
	case "ipv4":
		return v.fake.IPv4Address()
	case "ipv6":
		return v.fake.IPv6Address()
	case "uri":
		return v.fake.URL()
	case "uuid":
		return v.fake.UUID()
	case "password":
		return v.fake.Password(true, true, true, false, false, 12)
	}

	if pattern := s.String("pattern"); pattern != "" {
		return v.regex(pattern)
	}

	if hinted := v.hintedString(s); hinted != "" {
		return hinted
	}

	minLen := intKeyword(s, "minLength", 0)
	maxLen := intKeyword(s, "maxLength", 100)
	text := v.fake.Sentence(8)
	if len(text) < minLen {
		text += strings.Repeat("x", minLen-len(text))
	}
	if len(text) > maxLen {
		text = text[:maxLen]
	}
	return text
}

// hintedString picks a realistic value when the field description or the
// job's domain hint names a recognizable concept.
func (v *valueGen) hintedString(s models.Schema) string {
	if v.hint == "" {
		return ""
	}
	desc := strings.ToLower(s.String("description"))
	switch {
	case strings.Contains(desc, "name") || strings.Contains(v.hint, "name"):
		return v.fake.Name()
	case strings.Contains(desc, "email"):
		return v.fake.Email()
	case strings.Contains(desc, "phone"):
		return v.fake.Phone()
	case strings.Contains(desc, "address"):
		return v.fake.Street()
	case strings.Contains(desc, "company"):
		return v.fake.Company()
	}
	return ""
}

// regex generates a string matching the pattern. gofakeit panics on some
// patterns, so fall back to a plain word when that happens.
func (v *valueGen) regex(pattern string) (out string) {
	defer func() {
		if recover() != nil {
			out = v.fake.Word()
		}
	}()
	return v.fake.Regex(pattern)
}

func (v *valueGen) number(s models.Schema) float64 {
	min, hasMin := s.Number("minimum")
	if !hasMin {
		min = 0
	}
	max, hasMax := s.Number("maximum")
	if !hasMax {
		max = 1000000
	}
	if s.Bool("exclusiveMinimum") {
		min += 0.01
	}
	if s.Bool("exclusiveMaximum") {
		max -= 0.01
	}
	if max < min {
		max = min
	}

	value := min + v.rng.Float64()*(max-min)
	if mult, ok := s.Number("multipleOf"); ok && mult != 0 {
		value = math.Round(value/mult) * mult
	}
	return value
}

func (v *valueGen) integer(s models.Schema) int {
	minF, hasMin := s.Number("minimum")
	if !hasMin {
		minF = 0
	}
	maxF, hasMax := s.Number("maximum")
	if !hasMax {
		maxF = 1000000
	}
	min, max := int(minF), int(maxF)
	if s.Bool("exclusiveMinimum") {
		min++
	}
	if s.Bool("exclusiveMaximum") {
		max--
	}
	if max < min {
		max = min
	}

	value := min + v.rng.Intn(max-min+1)
	if mult, ok := s.Number("multipleOf"); ok && mult != 0 {
		value = int(math.Round(float64(value)/mult) * mult)
	}
	return value
}

func (v *valueGen) array(s models.Schema) []any {
	minItems := intKeyword(s, "minItems", 0)
	maxItems := intKeyword(s, "maxItems", 10)
	if maxItems < minItems {
		maxItems = minItems
	}
	itemSchema := s.Items()

	count := minItems + v.rng.Intn(maxItems-minItems+1)
	items := make([]any, 0, count)
	for i := 0; i < count; i++ {
		item := v.forSchema(itemSchema)
		if s.Bool("uniqueItems") && containsValue(items, item) {
			continue
		}
		items = append(items, item)
	}
	return items
}

func (v *valueGen) object(s models.Schema) map[string]any {
	props := s.Properties()
	required := make(map[string]bool)
	for _, name := range s.Required() {
		required[name] = true
	}

	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	sort.Strings(names)

	obj := make(map[string]any)
	for _, name := range names {
		if required[name] || v.rng.Float64() > 0.5 {
			obj[name] = v.forSchema(props[name])
		}
	}

	additionalOK := true
	if b, ok := s["additionalProperties"].(bool); ok {
		additionalOK = b
	}
	if additionalOK && v.rng.Float64() > 0.7 {
		for i := v.rng.Intn(3) + 1; i > 0; i-- {
			key := v.fake.Word()
			if _, exists := obj[key]; !exists {
				obj[key] = v.fake.Word()
			}
		}
	}
	return obj
}

// boundary generates a value probing the schema's declared limits.
func (v *valueGen) boundary(s models.Schema) any {
	switch s.Type() {
	case "string":
		minLen := intKeyword(s, "minLength", 0)
		maxLen := intKeyword(s, "maxLength", 1000)
		switch v.rng.Intn(3) {
		case 0:
			if minLen > 0 {
				return strings.Repeat("x", minLen)
			}
			return ""
		case 1:
			return strings.Repeat("x", maxLen)
		default:
			return ""
		}

	case "number", "integer":
		min, hasMin := s.Number("minimum")
		max, hasMax := s.Number("maximum")
		switch {
		case hasMin && hasMax:
			if v.rng.Intn(2) == 0 {
				return min
			}
			return max
		case hasMin:
			return min
		case hasMax:
			return max
		}

	case "array":
		minItems := intKeyword(s, "minItems", 0)
		maxItems := intKeyword(s, "maxItems", 100)
		count := minItems
		if v.rng.Intn(2) == 1 {
			count = maxItems
		}
		items := make([]any, 0, count)
		for i := 0; i < count; i++ {
			items = append(items, v.forSchema(s.Items()))
		}
		return items
	}

	return v.forSchema(s)
}

var typeMismatches = map[string]any{
	"string":  123,
	"number":  "not_a_number",
	"integer": 3.14,
	"boolean": "yes",
	"array":   "not_an_array",
	"object":  "not_an_object",
}

// negative generates a value the schema should reject: a type mismatch or
// a constraint violation.
func (v *valueGen) negative(s models.Schema) any {
	schemaType := s.Type()

	if mismatch, ok := typeMismatches[schemaType]; ok && v.rng.Float64() > 0.5 {
		return mismatch
	}

	switch schemaType {
	case "string":
		if len(s.Enum()) > 0 {
			return "invalid_enum_value"
		}
		if s.String("pattern") != "" {
			return "does_not_match_pattern"
		}
		if minLen, ok := s.Number("minLength"); ok {
			if minLen > 0 {
				return strings.Repeat("x", int(minLen)-1)
			}
			return ""
		}
		if maxLen, ok := s.Number("maxLength"); ok {
			return strings.Repeat("x", int(maxLen)+1)
		}

	case "number", "integer":
		if min, ok := s.Number("minimum"); ok {
			return min - 1
		}
		if max, ok := s.Number("maximum"); ok {
			return max + 1
		}
		if mult, ok := s.Number("multipleOf"); ok {
			return mult + 0.5
		}

	case "array":
		if minItems, ok := s.Number("minItems"); ok && minItems > 0 {
			return []any{}
		}
		if maxItems, ok := s.Number("maxItems"); ok {
			count := int(maxItems) + 1
			items := make([]any, 0, count)
			for i := 0; i < count; i++ {
				items = append(items, v.forSchema(s.Items()))
			}
			return items
		}

	case "object":
		if required := s.Required(); len(required) > 0 {
			obj := v.object(s)
			delete(obj, required[0])
			return obj
		}
	}

	return nil
}

func intKeyword(s models.Schema, key string, defaultVal int) int {
	if n, ok := s.Number(key); ok {
		return int(n)
	}
	return defaultVal
}

func containsValue(items []any, candidate any) bool {
	for _, item := range items {
		if reflect.DeepEqual(item, candidate) {
			return true
		}
	}
	return false
}
