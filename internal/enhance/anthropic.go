package enhance

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/masseyis/tdg/internal/config"
	"github.com/masseyis/tdg/pkg/models"
)

const anthropicVersion = "2023-06-01"

// AnthropicProvider implements models.Enhancer against the Anthropic
// messages API.
type AnthropicProvider struct {
	cfg    config.AnthropicConfig
	client *http.Client
}

func NewAnthropicProvider(cfg config.AnthropicConfig) *AnthropicProvider {
	return &AnthropicProvider{cfg: cfg, client: &http.Client{}}
}

func (p *AnthropicProvider) Name() string { return "anthropic" }

func (p *AnthropicProvider) Enhance(ctx context.Context, endpoint models.EndpointSpec, foundation []models.TestCase, opts models.GenerationOptions) ([]models.TestCase, error) {
	payload := map[string]any{
		"model":       p.cfg.Model,
		"max_tokens":  2000,
		"temperature": 0.3,
		"system":      systemPrompt,
		"messages": []map[string]string{
			{"role": "user", "content": buildPrompt(endpoint, foundation, opts)},
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.cfg.BaseURL+"/v1/messages", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", p.cfg.APIKey)
	req.Header.Set("anthropic-version", anthropicVersion)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling anthropic: %w", err)
	}
	defer resp.Body.Close()

	if err := checkStatus("anthropic", resp); err != nil {
		return nil, err
	}

	var decoded struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decoding anthropic response: %w", ErrInvalidResponse)
	}
	if len(decoded.Content) == 0 {
		return nil, fmt.Errorf("anthropic returned no content: %w", ErrInvalidResponse)
	}

	return parseCases(decoded.Content[0].Text, endpoint)
}

var _ models.Enhancer = (*AnthropicProvider)(nil)
