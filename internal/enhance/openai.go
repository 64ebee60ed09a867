package enhance

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/masseyis/tdg/internal/config"
	"github.com/masseyis/tdg/pkg/models"
)

const systemPrompt = "You are a test data generation expert. Generate test cases as valid JSON."

// OpenAIProvider implements models.Enhancer against the OpenAI chat
// completions API.
type OpenAIProvider struct {
	cfg    config.OpenAIConfig
	client *http.Client
}

func NewOpenAIProvider(cfg config.OpenAIConfig) *OpenAIProvider {
	return &OpenAIProvider{cfg: cfg, client: &http.Client{}}
}

func (p *OpenAIProvider) Name() string { return "openai" }

// modelFor maps the speed preference to a model and token budget. Faster
// preferences use the cheaper model with a tighter budget.
func (p *OpenAIProvider) modelFor(speed models.SpeedPreference) (string, int) {
	switch speed {
	case models.SpeedFast:
		return "gpt-4o-mini", 1500
	case models.SpeedQuality:
		return "gpt-4o", 3000
	default:
		return p.cfg.Model, 2000
	}
}

func (p *OpenAIProvider) Enhance(ctx context.Context, endpoint models.EndpointSpec, foundation []models.TestCase, opts models.GenerationOptions) ([]models.TestCase, error) {
	model, maxTokens := p.modelFor(opts.Speed)

	payload := map[string]any{
		"model": model,
		"messages": []map[string]string{
			{"role": "system", "content": systemPrompt},
			{"role": "user", "content": buildPrompt(endpoint, foundation, opts)},
		},
		"temperature": 0.3,
		"max_tokens":  maxTokens,
	}

	var decoded struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := p.post(ctx, p.cfg.BaseURL+"/chat/completions", payload, &decoded); err != nil {
		return nil, err
	}
	if len(decoded.Choices) == 0 {
		return nil, fmt.Errorf("openai returned no choices: %w", ErrInvalidResponse)
	}

	return parseCases(decoded.Choices[0].Message.Content, endpoint)
}

func (p *OpenAIProvider) post(ctx context.Context, url string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.cfg.APIKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("calling openai: %w", err)
	}
	defer resp.Body.Close()

	if err := checkStatus("openai", resp); err != nil {
		return err
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding openai response: %w", ErrInvalidResponse)
	}
	return nil
}

// checkStatus maps provider HTTP statuses onto the package sentinels.
// Overload and server errors count as the provider being unavailable so the
// circuit breaker sees them as failures.
func checkStatus(provider string, resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode <= 299 {
		return nil
	}
	sample, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return fmt.Errorf("%s returned status %d: %s: %w", provider, resp.StatusCode, sample, ErrProviderUnavailable)
	}
	return fmt.Errorf("%s returned status %d: %s", provider, resp.StatusCode, sample)
}

var _ models.Enhancer = (*OpenAIProvider)(nil)
