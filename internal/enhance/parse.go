package enhance

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/masseyis/tdg/pkg/models"
)

// wireCase is the shape providers return for a single case. Everything is
// optional; parse fills defaults from the endpoint.
type wireCase struct {
	Name           string            `json:"name"`
	Description    string            `json:"description"`
	Method         string            `json:"method"`
	Path           string            `json:"path"`
	Category       string            `json:"category"`
	ExpectedStatus int               `json:"expected_status"`
	Body           any               `json:"body"`
	QueryParams    map[string]any    `json:"query_params"`
	PathParams     map[string]any    `json:"path_params"`
	Headers        map[string]string `json:"headers"`
}

// parseCases extracts test cases from a raw model response. Models wrap
// JSON in prose and code fences, so this cuts out the outermost array (or an
// object with a "cases" array) before decoding.
func parseCases(raw string, endpoint models.EndpointSpec) ([]models.TestCase, error) {
	var wire []wireCase

	if fragment, ok := cut(raw, '[', ']'); ok {
		if err := json.Unmarshal([]byte(fragment), &wire); err != nil {
			return nil, fmt.Errorf("decoding case array: %w", ErrInvalidResponse)
		}
	} else if fragment, ok := cut(raw, '{', '}'); ok {
		var envelope struct {
			Cases []wireCase `json:"cases"`
		}
		if err := json.Unmarshal([]byte(fragment), &envelope); err != nil {
			return nil, fmt.Errorf("decoding case object: %w", ErrInvalidResponse)
		}
		wire = envelope.Cases
	} else {
		return nil, fmt.Errorf("no JSON found in response: %w", ErrInvalidResponse)
	}

	cases := make([]models.TestCase, 0, len(wire))
	for _, w := range wire {
		cases = append(cases, fromWire(w, endpoint))
	}
	return cases, nil
}

func fromWire(w wireCase, endpoint models.EndpointSpec) models.TestCase {
	if w.Name == "" {
		w.Name = "Enhanced test case"
	}
	if w.Method == "" {
		w.Method = endpoint.Method
	}
	if w.Path == "" {
		w.Path = endpoint.Path
	}
	if w.Category == "" {
		w.Category = string(models.CategoryValid)
	}
	if w.ExpectedStatus == 0 {
		w.ExpectedStatus = 200
	}
	if w.QueryParams == nil {
		w.QueryParams = map[string]any{}
	}
	if w.PathParams == nil {
		w.PathParams = map[string]any{}
	}
	if w.Headers == nil {
		w.Headers = map[string]string{}
	}

	return models.TestCase{
		ID:             uuid.New(),
		Name:           w.Name,
		Description:    w.Description,
		Category:       models.Category(strings.ToLower(w.Category)),
		Method:         strings.ToUpper(w.Method),
		Path:           w.Path,
		PathParams:     w.PathParams,
		QueryParams:    w.QueryParams,
		Headers:        w.Headers,
		Body:           w.Body,
		ExpectedStatus: w.ExpectedStatus,
	}
}

// cut returns the substring spanning the first opening delimiter through
// the last closing delimiter.
func cut(s string, opening, closing byte) (string, bool) {
	start := strings.IndexByte(s, opening)
	end := strings.LastIndexByte(s, closing)
	if start == -1 || end <= start {
		return "", false
	}
	return s[start : end+1], true
}
