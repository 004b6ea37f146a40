package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allKeys = []string{
	"SERVER_PORT", "SERVER_HOST", "GOOGLE_API_KEY", "GEMINI_BASE_URL",
	"OPENROUTER_API_KEY", "OPENROUTER_BASE_URL", "OPENAI_API_KEY", "OPENAI_BASE_URL",
	"DEFAULT_MODEL", "REQUEST_TIMEOUT", "MAX_CONCURRENT_TASKS",
	"APP_ENV", "LOG_LEVEL", "LOG_FORMAT", "APP_VERSION",
}

func clearEnv(t *testing.T) {
	t.Helper()
	t.Chdir(t.TempDir())
	for _, k := range allKeys {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Addr())
	assert.Equal(t, "https://openrouter.ai/api/v1", cfg.LLM.OpenRouterBaseURL)
	assert.Equal(t, 90*time.Second, cfg.LLM.RequestTimeout)
	assert.Equal(t, 4, cfg.Task.MaxConcurrentTasks)
	assert.False(t, cfg.IsDevelopment())
	assert.ErrorIs(t, cfg.RequireProvider(), ErrNoProvider)
}

func TestLoad_FromEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("GOOGLE_API_KEY", "g-key")
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("REQUEST_TIMEOUT", "30")
	t.Setenv("MAX_CONCURRENT_TASKS", "not-a-number")
	t.Setenv("APP_ENV", "development")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "g-key", cfg.LLM.GoogleAPIKey)
	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.LLM.RequestTimeout)
	assert.Equal(t, 4, cfg.Task.MaxConcurrentTasks)
	assert.True(t, cfg.IsDevelopment())
	assert.NoError(t, cfg.RequireProvider())
}

func TestLoad_DurationSyntax(t *testing.T) {
	clearEnv(t)
	t.Setenv("REQUEST_TIMEOUT", "2m")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 2*time.Minute, cfg.LLM.RequestTimeout)
}

func TestLoad_InvalidValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("REQUEST_TIMEOUT", "soon")
	_, err := Load()
	assert.Error(t, err)

	t.Setenv("REQUEST_TIMEOUT", "-5")
	_, err = Load()
	assert.Error(t, err)

	t.Setenv("REQUEST_TIMEOUT", "")
	t.Setenv("MAX_CONCURRENT_TASKS", "0")
	_, err = Load()
	assert.Error(t, err)
}

func TestRequireProvider_AnyKey(t *testing.T) {
	for _, cfg := range []*Config{
		{LLM: LLMConfig{GoogleAPIKey: "x"}},
		{LLM: LLMConfig{OpenRouterAPIKey: "x"}},
		{LLM: LLMConfig{OpenAIAPIKey: "x"}},
	} {
		assert.NoError(t, cfg.RequireProvider())
	}
}
