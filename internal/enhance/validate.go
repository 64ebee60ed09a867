package enhance

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/masseyis/tdg/pkg/models"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

var knownMethods = map[string]bool{
	"GET": true, "POST": true, "PUT": true, "PATCH": true,
	"DELETE": true, "HEAD": true, "OPTIONS": true,
}

var pathParamPattern = regexp.MustCompile(`\{([^}]+)\}`)

// validateCases filters provider output down to cases this system can
// execute. Dropping a case is never an error; enhancement is best effort
// and the foundation cases are already in hand. Missing path params are
// backfilled from the foundation cases before a case is rejected.
func validateCases(endpoint models.EndpointSpec, cases, foundation []models.TestCase) []models.TestCase {
	schema := compileBodySchema(endpoint)

	kept := make([]models.TestCase, 0, len(cases))
	for _, c := range cases {
		if reason := checkCase(endpoint, &c, foundation, schema); reason != "" {
			slog.Debug("dropping enhanced case", "name", c.Name, "reason", reason)
			continue
		}
		kept = append(kept, c)
	}
	return kept
}

func checkCase(endpoint models.EndpointSpec, c *models.TestCase, foundation []models.TestCase, schema *jsonschema.Schema) string {
	if strings.TrimSpace(c.Name) == "" {
		return "empty name"
	}
	if !knownMethods[c.Method] {
		return fmt.Sprintf("unknown method %q", c.Method)
	}
	if !strings.HasPrefix(c.Path, "/") {
		return fmt.Sprintf("path %q does not start with /", c.Path)
	}
	if !models.KnownCategory(c.Category) {
		return fmt.Sprintf("unknown category %q", c.Category)
	}
	if c.ExpectedStatus < 100 || c.ExpectedStatus > 599 {
		return fmt.Sprintf("status %d out of range", c.ExpectedStatus)
	}

	for _, match := range pathParamPattern.FindAllStringSubmatch(c.Path, -1) {
		name := match[1]
		if _, present := c.PathParams[name]; present {
			continue
		}
		value, found := foundationParam(foundation, name)
		if !found {
			return fmt.Sprintf("no value for path param %q", name)
		}
		if c.PathParams == nil {
			c.PathParams = map[string]any{}
		}
		c.PathParams[name] = value
	}

	if schema != nil && c.Category == models.CategoryValid && c.Body != nil {
		if err := schema.Validate(c.Body); err != nil {
			return fmt.Sprintf("body fails schema: %v", err)
		}
	}
	return ""
}

func foundationParam(foundation []models.TestCase, name string) (any, bool) {
	for _, f := range foundation {
		if v, present := f.PathParams[name]; present {
			return v, true
		}
	}
	return nil, false
}

// compileBodySchema compiles the endpoint's request body schema for
// checking valid-case bodies. A schema that will not compile disables the
// body check rather than failing the whole endpoint.
func compileBodySchema(endpoint models.EndpointSpec) *jsonschema.Schema {
	if len(endpoint.RequestBody) == 0 {
		return nil
	}
	raw, err := json.Marshal(endpoint.RequestBody)
	if err != nil {
		return nil
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("request-body.json", strings.NewReader(string(raw))); err != nil {
		return nil
	}
	schema, err := compiler.Compile("request-body.json")
	if err != nil {
		slog.Debug("request body schema does not compile", "path", endpoint.Path, "error", err)
		return nil
	}
	return schema
}
