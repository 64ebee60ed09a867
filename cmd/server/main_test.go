package main

import (
	"testing"
	"time"

	"github.com/masseyis/tdg/internal/config"
	"github.com/masseyis/tdg/internal/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ─── run() config validation tests ──────────────────────────────────────────

func setBaseEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"REDIS_URL", "SENTRY_DSN", "AI_PROVIDER",
		"OPENAI_API_KEY", "ANTHROPIC_API_KEY",
	} {
		t.Setenv(key, "")
	}
}

func TestRun_FailsOnMissingProviderKey(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("AI_PROVIDER", "openai")

	err := run()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load config")
}

func TestRun_FailsOnInvalidRedisScheme(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("REDIS_URL", "http://localhost:6379")

	err := run()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load config")
}

func TestRun_FailsOnBadWorkerCount(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("GENERATION_WORKERS", "0")

	err := run()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load config")
}

func TestRun_FailsOnUnreachableRedis(t *testing.T) {
	setBaseEnv(t)
	// Nothing listens on this port, so the startup ping fails fast.
	t.Setenv("REDIS_URL", "redis://127.0.0.1:16390")

	err := run()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ping redis")
}

// ─── reporter wiring ─────────────────────────────────────────────────────────

func TestNewReporter_NoDSN(t *testing.T) {
	reporter, err := newReporter(config.SentryConfig{}, "test")
	require.NoError(t, err)
	assert.IsType(t, report.Nop{}, reporter)
}

func TestNewReporter_InvalidDSN(t *testing.T) {
	_, err := newReporter(config.SentryConfig{DSN: "not-a-dsn"}, "test")
	require.Error(t, err)
}

// ─── shutdown timeout constant test ─────────────────────────────────────────

func TestShutdownTimeout(t *testing.T) {
	assert.Equal(t, 30*time.Second, shutdownTimeout)
}
