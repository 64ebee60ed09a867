package enhance

import (
	"encoding/json"
	"fmt"

	"github.com/masseyis/tdg/pkg/models"
)

// promptCase is the trimmed-down view of a test case shown to the model.
// Keeping IDs and descriptions out of the prompt saves tokens and stops the
// model from echoing them back.
type promptCase struct {
	Name           string            `json:"name"`
	Method         string            `json:"method"`
	Path           string            `json:"path"`
	Category       models.Category   `json:"category"`
	ExpectedStatus int               `json:"expected_status"`
	Body           any               `json:"body,omitempty"`
	QueryParams    map[string]any    `json:"query_params,omitempty"`
	PathParams     map[string]any    `json:"path_params,omitempty"`
	Headers        map[string]string `json:"headers,omitempty"`
}

const promptTemplate = `You are an expert API test case generator. Below are foundation test cases for an endpoint. Enhance them with domain-specific values and additional edge cases.

ENDPOINT:
- Method: %s
- Path: %s
- Summary: %s
- Domain: %s

FOUNDATION TEST CASES:
%s

TASK:
1. Replace generic values with realistic, domain-appropriate data.
2. Add boundary cases probing limits and edge conditions.
3. Add negative cases for invalid inputs and failure scenarios.

REQUIREMENTS:
- Generate 2-3 additional enhanced cases, quality over quantity.
- Keep the same JSON structure as the foundation cases.
- category must be one of "valid", "boundary" or "negative".
- expected_status must be the HTTP status the case should produce.

Return ONLY a valid JSON array of enhanced test cases, with these fields per case: name, method, path, category, expected_status, body, query_params, path_params, headers.`

// buildPrompt renders the enhancement prompt for one endpoint and its
// foundation cases.
func buildPrompt(endpoint models.EndpointSpec, foundation []models.TestCase, opts models.GenerationOptions) string {
	slim := make([]promptCase, 0, len(foundation))
	for _, c := range foundation {
		slim = append(slim, promptCase{
			Name:           c.Name,
			Method:         c.Method,
			Path:           c.Path,
			Category:       c.Category,
			ExpectedStatus: c.ExpectedStatus,
			Body:           c.Body,
			QueryParams:    c.QueryParams,
			PathParams:     c.PathParams,
			Headers:        c.Headers,
		})
	}

	cases, err := json.MarshalIndent(slim, "", "  ")
	if err != nil {
		cases = []byte("[]")
	}

	summary := endpoint.Summary
	if summary == "" {
		summary = "N/A"
	}
	domain := opts.DomainHint
	if domain == "" {
		domain = "General"
	}

	return fmt.Sprintf(promptTemplate, endpoint.Method, endpoint.Path, summary, domain, cases)
}
