package enhance

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/masseyis/tdg/internal/cache"
	"github.com/masseyis/tdg/internal/config"
	"github.com/masseyis/tdg/pkg/models"
	"github.com/sony/gobreaker"
)

// Client wraps a provider with the guardrails every call needs: a
// process-wide concurrency cap, a per-call timeout, a circuit breaker, and
// validation of whatever the model returns. The cache is optional and
// fail-open.
type Client struct {
	provider models.Enhancer
	limiter  chan struct{}
	timeout  time.Duration
	breaker  *gobreaker.CircuitBreaker
	cache    cache.Cache
	cacheTTL time.Duration
}

// NewClient builds a Client from the AI config. ca may be nil when no
// Redis is configured.
func NewClient(provider models.Enhancer, cfg config.AIConfig, ca cache.Cache) *Client {
	limit := cfg.ConcurrencyLimit
	if limit < 1 {
		limit = 1
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "enhance",
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.6
		},
	})

	return &Client{
		provider: provider,
		limiter:  make(chan struct{}, limit),
		timeout:  cfg.EnhanceTimeout,
		breaker:  breaker,
		cache:    ca,
		cacheTTL: cfg.CacheTTL,
	}
}

// Enabled reports whether calls will actually reach a model. The null
// provider pins generation to foundation output, so callers skip the
// enhancement stage entirely.
func (c *Client) Enabled() bool {
	return c.provider != nil && c.provider.Name() != "null"
}

// Provider returns the active provider name for logging.
func (c *Client) Provider() string {
	if c.provider == nil {
		return "none"
	}
	return c.provider.Name()
}

// Enhance runs one guarded provider call and returns only the cases that
// survive validation. Callers treat any error as a signal to continue with
// foundation cases.
func (c *Client) Enhance(ctx context.Context, endpoint models.EndpointSpec, foundation []models.TestCase, opts models.GenerationOptions) ([]models.TestCase, error) {
	if !c.Enabled() {
		return nil, nil
	}

	key := cache.EnhanceKey(fingerprint(endpoint, foundation, opts))
	if c.cache != nil {
		if raw, found, err := c.cache.Get(ctx, key); err == nil && found {
			var cases []models.TestCase
			if err := json.Unmarshal(raw, &cases); err == nil {
				return cases, nil
			}
		}
	}

	select {
	case c.limiter <- struct{}{}:
		defer func() { <-c.limiter }()
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	result, err := c.breaker.Execute(func() (any, error) {
		return c.provider.Enhance(callCtx, endpoint, foundation, opts)
	})
	if err != nil {
		switch {
		case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
			return nil, fmt.Errorf("circuit open: %w", ErrProviderUnavailable)
		case errors.Is(err, context.DeadlineExceeded):
			return nil, fmt.Errorf("enhancing %s %s: %w", endpoint.Method, endpoint.Path, ErrEnhanceTimeout)
		}
		return nil, err
	}

	raw, _ := result.([]models.TestCase)
	kept := validateCases(endpoint, raw, foundation)

	if c.cache != nil && len(kept) > 0 {
		if encoded, err := json.Marshal(kept); err == nil {
			_ = c.cache.Set(ctx, key, encoded, c.cacheTTL)
		}
	}
	return kept, nil
}

// fingerprint identifies one enhancement request: the same endpoint,
// foundation cases and options always hash to the same key.
func fingerprint(endpoint models.EndpointSpec, foundation []models.TestCase, opts models.GenerationOptions) string {
	h := sha256.New()
	enc := json.NewEncoder(h)
	_ = enc.Encode(endpoint)
	_ = enc.Encode(foundation)
	_ = enc.Encode(opts.Speed)
	_ = enc.Encode(opts.DomainHint)
	return hex.EncodeToString(h.Sum(nil))
}
