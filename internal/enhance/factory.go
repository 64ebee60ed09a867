package enhance

import (
	"fmt"

	"github.com/masseyis/tdg/internal/config"
	"github.com/masseyis/tdg/pkg/models"
)

// NewProvider constructs the configured enhancement provider.
// Called once at server startup.
func NewProvider(cfg config.AIConfig) (models.Enhancer, error) {
	switch cfg.Provider {
	case "null":
		return NewNullProvider(), nil
	case "openai":
		return NewOpenAIProvider(cfg.OpenAI), nil
	case "anthropic":
		return NewAnthropicProvider(cfg.Anthropic), nil
	default:
		return nil, fmt.Errorf("unknown AI provider %q: must be one of null, openai, anthropic", cfg.Provider)
	}
}
