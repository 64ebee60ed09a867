package enhance_test

import (
	"testing"

	"github.com/masseyis/tdg/internal/config"
	"github.com/masseyis/tdg/internal/enhance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProvider_Null(t *testing.T) {
	cfg := config.AIConfig{Provider: "null"}
	p, err := enhance.NewProvider(cfg)
	require.NoError(t, err)
	assert.Equal(t, "null", p.Name())
}

func TestNewProvider_OpenAI(t *testing.T) {
	cfg := config.AIConfig{
		Provider: "openai",
		OpenAI:   config.OpenAIConfig{APIKey: "sk-test", BaseURL: "https://api.openai.com/v1", Model: "gpt-4o-mini"},
	}
	p, err := enhance.NewProvider(cfg)
	require.NoError(t, err)
	assert.Equal(t, "openai", p.Name())
}

func TestNewProvider_Anthropic(t *testing.T) {
	cfg := config.AIConfig{
		Provider:  "anthropic",
		Anthropic: config.AnthropicConfig{APIKey: "sk-ant-test", BaseURL: "https://api.anthropic.com", Model: "claude-3-haiku-20240307"},
	}
	p, err := enhance.NewProvider(cfg)
	require.NoError(t, err)
	assert.Equal(t, "anthropic", p.Name())
}

func TestNewProvider_Unknown(t *testing.T) {
	cfg := config.AIConfig{Provider: "unknown-provider"}
	_, err := enhance.NewProvider(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown AI provider")
	assert.Contains(t, err.Error(), "unknown-provider")
}

func TestNewProvider_Empty(t *testing.T) {
	cfg := config.AIConfig{Provider: ""}
	_, err := enhance.NewProvider(cfg)
	require.Error(t, err)
}
