// Package foundation synthesizes deterministic rule-based test cases from
// endpoint schemas. It makes no external calls and never fails for a
// well-formed endpoint, which is what lets the hybrid pipeline treat it as
// the always-available floor under enhancement.
package foundation

import (
	"fmt"
	"hash/fnv"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/masseyis/tdg/pkg/models"
)

// Generator produces foundation cases. Stateless and safe for concurrent
// use; every call builds its own seeded value generator.
type Generator struct {
	maxCases int
}

// NewGenerator creates a Generator. maxCases bounds CasesPerEndpoint.
func NewGenerator(maxCases int) *Generator {
	if maxCases < 1 {
		maxCases = 1
	}
	return &Generator{maxCases: maxCases}
}

// Generate returns at least one valid case for a well-formed endpoint.
// Given the same options.Seed and endpoint it returns an identical
// sequence. Unsupported schema shapes degrade to minimal cases instead of
// erroring; only a malformed endpoint (missing method or path) fails.
func (g *Generator) Generate(endpoint models.EndpointSpec, opts models.GenerationOptions) ([]models.TestCase, error) {
	if strings.TrimSpace(endpoint.Method) == "" {
		return nil, fmt.Errorf("endpoint %q has no method", endpoint.Path)
	}
	if strings.TrimSpace(endpoint.Path) == "" {
		return nil, fmt.Errorf("endpoint %s has no path", endpoint.Method)
	}

	count := opts.CasesPerEndpoint
	if count < 1 {
		count = 1
	}
	if count > g.maxCases {
		count = g.maxCases
	}

	vg := newValueGen(seedFor(opts.Seed, endpoint), opts.DomainHint)
	validCount, boundaryCount, negativeCount := distribution(endpoint.Method, count)

	cases := make([]models.TestCase, 0, validCount+boundaryCount+negativeCount)
	for i := 0; i < validCount; i++ {
		cases = append(cases, g.validCase(vg, endpoint, i))
	}
	for i := 0; i < boundaryCount; i++ {
		cases = append(cases, g.boundaryCase(vg, endpoint, i))
	}
	for i := 0; i < negativeCount; i++ {
		cases = append(cases, g.negativeCase(vg, endpoint, i))
	}
	return cases, nil
}

// distribution splits the requested count across categories. POST leans
// toward valid cases with rich bodies; every method emits at least one of
// each category.
func distribution(method string, count int) (valid, boundary, negative int) {
	if strings.EqualFold(method, "POST") {
		valid = count * 2 / 3
		if half := count / 2; half > valid {
			valid = half
		}
		boundary = count / 4
	} else {
		valid = count / 2
		boundary = count / 3
	}
	if valid < 1 {
		valid = 1
	}
	if boundary < 1 {
		boundary = 1
	}
	negative = count - valid - boundary
	if negative < 1 {
		negative = 1
	}
	return valid, boundary, negative
}

func (g *Generator) validCase(vg *valueGen, endpoint models.EndpointSpec, index int) models.TestCase {
	pathParams := map[string]any{}
	queryParams := map[string]any{}
	headers := map[string]string{"Content-Type": "application/json"}

	for _, param := range endpoint.Parameters {
		switch param.In {
		case models.ParamInPath:
			pathParams[param.Name] = g.paramValue(vg, param)
		case models.ParamInQuery:
			if param.Required || vg.rng.Float64() > 0.5 {
				queryParams[param.Name] = g.paramValue(vg, param)
			}
		case models.ParamInHeader:
			if param.Required || vg.rng.Float64() > 0.5 {
				headers[param.Name] = fmt.Sprint(g.paramValue(vg, param))
			}
		}
	}

	switch endpoint.Auth {
	case models.AuthBearer:
		headers["Authorization"] = "Bearer {{access_token}}"
	case models.AuthBasic:
		headers["Authorization"] = "Basic {{credentials}}"
	case models.AuthAPIKey:
		headers["X-API-Key"] = "{{api_key}}"
	}

	var body any
	if len(endpoint.RequestBody) > 0 {
		body = vg.forSchema(endpoint.RequestBody)
	}

	expected := 200
	if strings.EqualFold(endpoint.Method, "POST") {
		expected = 201
	}

	return models.TestCase{
		ID:             vg.caseID(),
		Name:           caseName("Valid", endpoint, index),
		Description:    fmt.Sprintf("Valid test case for %s %s", endpoint.Method, endpoint.Path),
		Category:       models.CategoryValid,
		Method:         endpoint.Method,
		Path:           endpoint.Path,
		PathParams:     pathParams,
		QueryParams:    queryParams,
		Headers:        headers,
		Body:           body,
		ExpectedStatus: expected,
	}
}

func (g *Generator) boundaryCase(vg *valueGen, endpoint models.EndpointSpec, index int) models.TestCase {
	c := g.validCase(vg, endpoint, index)
	c.Name = caseName("Boundary", endpoint, index)
	c.Description = fmt.Sprintf("Boundary test case for %s %s", endpoint.Method, endpoint.Path)
	c.Category = models.CategoryBoundary

	if len(endpoint.RequestBody) == 0 || c.Body == nil {
		return c
	}

	// For object bodies, push one property to its declared limit; anything
	// else gets a boundary value for the whole schema.
	body, ok := c.Body.(map[string]any)
	props := endpoint.RequestBody.Properties()
	if !ok || len(props) == 0 {
		c.Body = vg.boundary(endpoint.RequestBody)
		return c
	}

	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	sort.Strings(names)
	target := names[vg.rng.Intn(len(names))]
	body[target] = vg.boundary(props[target])
	return c
}

func (g *Generator) negativeCase(vg *valueGen, endpoint models.EndpointSpec, index int) models.TestCase {
	c := g.validCase(vg, endpoint, index)
	c.Name = caseName("Negative", endpoint, index)
	c.Description = fmt.Sprintf("Negative test case for %s %s", endpoint.Method, endpoint.Path)
	c.Category = models.CategoryNegative

	var scenarios []string
	if body, ok := c.Body.(map[string]any); ok && len(endpoint.RequestBody.Required()) > 0 && len(body) > 0 {
		scenarios = append(scenarios, "missing_required")
	}
	if len(endpoint.RequestBody) > 0 {
		scenarios = append(scenarios, "invalid_type")
	}
	if endpoint.Auth != "" && endpoint.Auth != models.AuthNone {
		scenarios = append(scenarios, "auth_failure")
	}
	if len(scenarios) == 0 {
		return c
	}

	switch scenarios[vg.rng.Intn(len(scenarios))] {
	case "missing_required":
		body := c.Body.(map[string]any)
		delete(body, endpoint.RequestBody.Required()[0])
		c.ExpectedStatus = 400
	case "invalid_type":
		c.Body = vg.negative(endpoint.RequestBody)
		c.ExpectedStatus = 400
	case "auth_failure":
		delete(c.Headers, "Authorization")
		delete(c.Headers, "X-API-Key")
		c.ExpectedStatus = 401
	}
	return c
}

func (g *Generator) paramValue(vg *valueGen, param models.Parameter) any {
	if len(param.Schema) > 0 {
		return vg.forSchema(param.Schema)
	}

	name := strings.ToLower(param.Name)
	switch {
	case strings.Contains(name, "id"):
		return vg.rng.Intn(1000) + 1
	case strings.Contains(name, "page"), strings.Contains(name, "limit"):
		return vg.rng.Intn(100) + 1
	case strings.Contains(name, "sort"):
		if vg.rng.Intn(2) == 0 {
			return "asc"
		}
		return "desc"
	}
	return "test_" + param.Name
}

func caseName(prefix string, endpoint models.EndpointSpec, index int) string {
	ref := endpoint.OperationID
	if ref == "" {
		ref = endpoint.Method
	}
	return fmt.Sprintf("%s_%s_%d", prefix, ref, index)
}

// seedFor mixes the job seed with a hash of the endpoint identity so
// different endpoints draw different values under the same seed. Without a
// seed the stream is time-randomized.
func seedFor(seed *int64, endpoint models.EndpointSpec) int64 {
	h := fnv.New64a()
	h.Write([]byte(strings.ToUpper(endpoint.Method)))
	h.Write([]byte(" "))
	h.Write([]byte(endpoint.Path))
	mix := int64(h.Sum64())
	if seed == nil {
		return mix ^ time.Now().UnixNano()
	}
	return *seed ^ mix
}

// caseID draws a deterministic UUID from the value generator's stream.
func (v *valueGen) caseID() uuid.UUID {
	id, err := uuid.NewRandomFromReader(v.rng)
	if err != nil {
		return uuid.Nil
	}
	return id
}
