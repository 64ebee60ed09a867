package enhance

import (
	"testing"

	"github.com/google/uuid"
	"github.com/masseyis/tdg/pkg/models"
)

func enhancedCase(mutate func(c *models.TestCase)) models.TestCase {
	c := models.TestCase{
		ID:             uuid.New(),
		Name:           "enhanced",
		Category:       models.CategoryValid,
		Method:         "POST",
		Path:           "/pets",
		PathParams:     map[string]any{},
		QueryParams:    map[string]any{},
		Headers:        map[string]string{},
		ExpectedStatus: 201,
	}
	if mutate != nil {
		mutate(&c)
	}
	return c
}

func TestValidateCases_DropsUnexecutableCases(t *testing.T) {
	endpoint := models.EndpointSpec{Method: "POST", Path: "/pets"}

	tests := []struct {
		name string
		c    models.TestCase
		keep bool
	}{
		{"well formed case survives", enhancedCase(nil), true},
		{"empty name", enhancedCase(func(c *models.TestCase) { c.Name = "  " }), false},
		{"unknown method", enhancedCase(func(c *models.TestCase) { c.Method = "TELEPORT" }), false},
		{"relative path", enhancedCase(func(c *models.TestCase) { c.Path = "pets" }), false},
		{"unknown category", enhancedCase(func(c *models.TestCase) { c.Category = "exploratory" }), false},
		{"status too low", enhancedCase(func(c *models.TestCase) { c.ExpectedStatus = 99 }), false},
		{"status too high", enhancedCase(func(c *models.TestCase) { c.ExpectedStatus = 600 }), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kept := validateCases(endpoint, []models.TestCase{tt.c}, nil)
			if got := len(kept) == 1; got != tt.keep {
				t.Errorf("expected keep=%v, got %d kept cases", tt.keep, len(kept))
			}
		})
	}
}

func TestValidateCases_BackfillsPathParams(t *testing.T) {
	endpoint := models.EndpointSpec{Method: "GET", Path: "/pets/{petId}"}
	foundation := []models.TestCase{
		{PathParams: map[string]any{"petId": 42}},
	}

	t.Run("missing param taken from foundation", func(t *testing.T) {
		c := enhancedCase(func(c *models.TestCase) {
			c.Method = "GET"
			c.Path = "/pets/{petId}"
			c.ExpectedStatus = 200
		})
		kept := validateCases(endpoint, []models.TestCase{c}, foundation)
		if len(kept) != 1 {
			t.Fatalf("expected case kept, got %d", len(kept))
		}
		if kept[0].PathParams["petId"] != 42 {
			t.Errorf("expected petId backfilled to 42, got %v", kept[0].PathParams)
		}
	})

	t.Run("provided param wins over foundation", func(t *testing.T) {
		c := enhancedCase(func(c *models.TestCase) {
			c.Method = "GET"
			c.Path = "/pets/{petId}"
			c.PathParams = map[string]any{"petId": 7}
			c.ExpectedStatus = 200
		})
		kept := validateCases(endpoint, []models.TestCase{c}, foundation)
		if len(kept) != 1 || kept[0].PathParams["petId"] != 7 {
			t.Errorf("expected petId 7 preserved, got %v", kept)
		}
	})

	t.Run("no value anywhere drops the case", func(t *testing.T) {
		c := enhancedCase(func(c *models.TestCase) {
			c.Method = "GET"
			c.Path = "/pets/{petId}"
			c.ExpectedStatus = 200
		})
		kept := validateCases(endpoint, []models.TestCase{c}, nil)
		if len(kept) != 0 {
			t.Errorf("expected case dropped, got %v", kept)
		}
	})
}

func TestValidateCases_BodySchema(t *testing.T) {
	endpoint := models.EndpointSpec{
		Method: "POST",
		Path:   "/pets",
		RequestBody: models.Schema{
			"type":     "object",
			"required": []any{"name"},
			"properties": map[string]any{
				"name": map[string]any{"type": "string"},
				"age":  map[string]any{"type": "integer"},
			},
		},
	}

	t.Run("conforming valid body kept", func(t *testing.T) {
		c := enhancedCase(func(c *models.TestCase) {
			c.Body = map[string]any{"name": "Buddy", "age": float64(3)}
		})
		if kept := validateCases(endpoint, []models.TestCase{c}, nil); len(kept) != 1 {
			t.Errorf("expected case kept, got %d", len(kept))
		}
	})

	t.Run("violating valid body dropped", func(t *testing.T) {
		c := enhancedCase(func(c *models.TestCase) {
			c.Body = map[string]any{"age": "not a number"}
		})
		if kept := validateCases(endpoint, []models.TestCase{c}, nil); len(kept) != 0 {
			t.Errorf("expected case dropped, got %d", len(kept))
		}
	})

	t.Run("negative bodies may violate the schema", func(t *testing.T) {
		c := enhancedCase(func(c *models.TestCase) {
			c.Category = models.CategoryNegative
			c.ExpectedStatus = 400
			c.Body = map[string]any{"age": "not a number"}
		})
		if kept := validateCases(endpoint, []models.TestCase{c}, nil); len(kept) != 1 {
			t.Errorf("expected case kept, got %d", len(kept))
		}
	})

	t.Run("nil body skips the check", func(t *testing.T) {
		c := enhancedCase(nil)
		if kept := validateCases(endpoint, []models.TestCase{c}, nil); len(kept) != 1 {
			t.Errorf("expected case kept, got %d", len(kept))
		}
	})
}
