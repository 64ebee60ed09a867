package mock

import (
	"context"

	"github.com/google/uuid"
	"github.com/masseyis/tdg/internal/enhance"
	"github.com/masseyis/tdg/pkg/models"
)

// MockEnhancer satisfies models.Enhancer for testing.
type MockEnhancer struct {
	Name_       string
	EnhanceFunc func(ctx context.Context, endpoint models.EndpointSpec, foundation []models.TestCase, opts models.GenerationOptions) ([]models.TestCase, error)
}

func (m *MockEnhancer) Name() string { return m.Name_ }

func (m *MockEnhancer) Enhance(ctx context.Context, endpoint models.EndpointSpec, foundation []models.TestCase, opts models.GenerationOptions) ([]models.TestCase, error) {
	if m.EnhanceFunc != nil {
		return m.EnhanceFunc(ctx, endpoint, foundation, opts)
	}
	return nil, nil
}

// NewMockEnhancer returns a MockEnhancer producing two plausible cases per
// endpoint.
func NewMockEnhancer() *MockEnhancer {
	return &MockEnhancer{
		Name_: "mock",
		EnhanceFunc: func(_ context.Context, endpoint models.EndpointSpec, _ []models.TestCase, _ models.GenerationOptions) ([]models.TestCase, error) {
			return []models.TestCase{
				{
					ID:             uuid.New(),
					Name:           "Enhanced_valid_domain_data",
					Category:       models.CategoryValid,
					Method:         endpoint.Method,
					Path:           endpoint.Path,
					PathParams:     map[string]any{},
					QueryParams:    map[string]any{},
					Headers:        map[string]string{"Content-Type": "application/json"},
					ExpectedStatus: 200,
				},
				{
					ID:             uuid.New(),
					Name:           "Enhanced_negative_oversized_input",
					Category:       models.CategoryNegative,
					Method:         endpoint.Method,
					Path:           endpoint.Path,
					PathParams:     map[string]any{},
					QueryParams:    map[string]any{},
					Headers:        map[string]string{"Content-Type": "application/json"},
					ExpectedStatus: 400,
				},
			}, nil
		},
	}
}

// NewFailingEnhancer returns a MockEnhancer that always returns the given
// error.
func NewFailingEnhancer(err error) *MockEnhancer {
	return &MockEnhancer{
		Name_: "mock-failing",
		EnhanceFunc: func(_ context.Context, _ models.EndpointSpec, _ []models.TestCase, _ models.GenerationOptions) ([]models.TestCase, error) {
			return nil, err
		},
	}
}

// NewTimeoutEnhancer returns a MockEnhancer that blocks until context is
// cancelled.
func NewTimeoutEnhancer() *MockEnhancer {
	return &MockEnhancer{
		Name_: "mock-timeout",
		EnhanceFunc: func(ctx context.Context, _ models.EndpointSpec, _ []models.TestCase, _ models.GenerationOptions) ([]models.TestCase, error) {
			<-ctx.Done()
			return nil, enhance.ErrEnhanceTimeout
		},
	}
}

// Compile-time check that MockEnhancer implements Enhancer.
var _ models.Enhancer = (*MockEnhancer)(nil)
