package enhance

import (
	"context"

	"github.com/masseyis/tdg/pkg/models"
)

// NullProvider performs no enhancement. Selecting it pins the service to
// pure foundation output, which keeps generation fully deterministic.
type NullProvider struct{}

func NewNullProvider() *NullProvider { return &NullProvider{} }

func (p *NullProvider) Name() string { return "null" }

func (p *NullProvider) Enhance(_ context.Context, _ models.EndpointSpec, _ []models.TestCase, _ models.GenerationOptions) ([]models.TestCase, error) {
	return nil, nil
}

var _ models.Enhancer = (*NullProvider)(nil)
