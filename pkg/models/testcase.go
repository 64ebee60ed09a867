package models

import "github.com/google/uuid"

// Category classifies what a test case exercises.
type Category string

const (
	// CategoryValid exercises the documented happy path.
	CategoryValid Category = "valid"
	// CategoryBoundary probes declared limits (min/max, enum edges).
	CategoryBoundary Category = "boundary"
	// CategoryNegative sends deliberately invalid input and expects rejection.
	CategoryNegative Category = "negative"
)

// KnownCategory reports whether c is one of the three recognized categories.
func KnownCategory(c Category) bool {
	switch c {
	case CategoryValid, CategoryBoundary, CategoryNegative:
		return true
	}
	return false
}

// TestCase is a single executable API test case. Immutable once created.
type TestCase struct {
	ID             uuid.UUID         `json:"id"`
	Name           string            `json:"name"`
	Description    string            `json:"description,omitempty"`
	Category       Category          `json:"category"`
	Method         string            `json:"method"`
	Path           string            `json:"path"`
	PathParams     map[string]any    `json:"path_params,omitempty"`
	QueryParams    map[string]any    `json:"query_params,omitempty"`
	Headers        map[string]string `json:"headers,omitempty"`
	Body           any               `json:"body,omitempty"`
	ExpectedStatus int               `json:"expected_status"`
}
