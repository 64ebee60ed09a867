package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for the tdg server.
type Config struct {
	Server     ServerConfig
	Generation GenerationConfig
	AI         AIConfig
	Redis      RedisConfig
	Sentry     SentryConfig
	RateLimit  RateLimitConfig
}

type ServerConfig struct {
	Port int
	Env  string
}

type GenerationConfig struct {
	Workers      int
	QueueSize    int
	ResultTTL    time.Duration
	DefaultCases int
	MaxCases     int
}

type AIConfig struct {
	Provider         string
	EnhanceTimeout   time.Duration
	ConcurrencyLimit int
	CacheTTL         time.Duration
	OpenAI           OpenAIConfig
	Anthropic        AnthropicConfig
}

type OpenAIConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

type AnthropicConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

type RedisConfig struct {
	URL string
}

type SentryConfig struct {
	DSN string
}

type RateLimitConfig struct {
	PerMinute int
}

var validProviders = map[string]bool{
	"null":      true,
	"openai":    true,
	"anthropic": true,
}

// Load reads configuration from environment variables and returns a validated Config.
// Returns an error with a descriptive message if any required value is missing or invalid.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port: envInt("TDG_PORT", 8080),
			Env:  envString("TDG_ENV", "development"),
		},
		Generation: GenerationConfig{
			Workers:      envInt("GENERATION_WORKERS", 2),
			QueueSize:    envInt("GENERATION_QUEUE_SIZE", 100),
			ResultTTL:    envDuration("RESULT_TTL", 30*time.Minute),
			DefaultCases: envInt("DEFAULT_CASES_PER_ENDPOINT", 10),
			MaxCases:     envInt("MAX_CASES_PER_ENDPOINT", 500),
		},
		AI: AIConfig{
			Provider:         envString("AI_PROVIDER", "null"),
			EnhanceTimeout:   envDurationSecs("AI_ENHANCE_TIMEOUT_SECS", 45*time.Second),
			ConcurrencyLimit: envInt("AI_CONCURRENCY_LIMIT", 8),
			CacheTTL:         envDuration("AI_CACHE_TTL", 1*time.Hour),
			OpenAI: OpenAIConfig{
				APIKey:  os.Getenv("OPENAI_API_KEY"),
				BaseURL: envString("OPENAI_BASE_URL", "https://api.openai.com/v1"),
				Model:   envString("OPENAI_MODEL", "gpt-4o-mini"),
			},
			Anthropic: AnthropicConfig{
				APIKey:  os.Getenv("ANTHROPIC_API_KEY"),
				BaseURL: envString("ANTHROPIC_BASE_URL", "https://api.anthropic.com"),
				Model:   envString("ANTHROPIC_MODEL", "claude-3-haiku-20240307"),
			},
		},
		Redis: RedisConfig{
			URL: os.Getenv("REDIS_URL"),
		},
		Sentry: SentryConfig{
			DSN: os.Getenv("SENTRY_DSN"),
		},
		RateLimit: RateLimitConfig{
			PerMinute: envInt("RATE_LIMIT_PER_MINUTE", 60),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Generation.Workers < 1 {
		return fmt.Errorf("GENERATION_WORKERS must be at least 1, got %d", c.Generation.Workers)
	}
	if c.Generation.QueueSize < 1 {
		return fmt.Errorf("GENERATION_QUEUE_SIZE must be at least 1, got %d", c.Generation.QueueSize)
	}
	if c.Generation.ResultTTL <= 0 {
		return fmt.Errorf("RESULT_TTL must be positive, got %s", c.Generation.ResultTTL)
	}
	if c.Generation.MaxCases < 1 {
		return fmt.Errorf("MAX_CASES_PER_ENDPOINT must be at least 1, got %d", c.Generation.MaxCases)
	}
	if c.Generation.DefaultCases < 1 || c.Generation.DefaultCases > c.Generation.MaxCases {
		return fmt.Errorf("DEFAULT_CASES_PER_ENDPOINT must be between 1 and %d, got %d",
			c.Generation.MaxCases, c.Generation.DefaultCases)
	}

	if c.AI.Provider == "" {
		return fmt.Errorf("AI_PROVIDER is required")
	}
	if !validProviders[c.AI.Provider] {
		return fmt.Errorf("AI_PROVIDER must be one of null, openai, anthropic; got %q", c.AI.Provider)
	}
	if c.AI.ConcurrencyLimit < 1 {
		return fmt.Errorf("AI_CONCURRENCY_LIMIT must be at least 1, got %d", c.AI.ConcurrencyLimit)
	}

	if c.AI.Provider == "openai" && c.AI.OpenAI.APIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is required when AI_PROVIDER is openai")
	}
	if c.AI.Provider == "anthropic" && c.AI.Anthropic.APIKey == "" {
		return fmt.Errorf("ANTHROPIC_API_KEY is required when AI_PROVIDER is anthropic")
	}

	if c.Redis.URL != "" &&
		!strings.HasPrefix(c.Redis.URL, "redis://") && !strings.HasPrefix(c.Redis.URL, "rediss://") {
		return fmt.Errorf("REDIS_URL must start with redis:// or rediss://, got %q", c.Redis.URL)
	}

	if c.RateLimit.PerMinute < 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must not be negative, got %d", c.RateLimit.PerMinute)
	}

	return nil
}

func envString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

func envDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}

func envDurationSecs(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	secs, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return time.Duration(secs) * time.Second
}
