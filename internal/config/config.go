package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// ErrNoProvider is returned by RequireProvider when no LLM API key is set.
// The server keeps running in that state and shows the error to users.
var ErrNoProvider = errors.New("no LLM API key set: configure GOOGLE_API_KEY, OPENROUTER_API_KEY or OPENAI_API_KEY in the environment or .env file")

// Config holds all configuration for the application
type Config struct {
	Server ServerConfig
	LLM    LLMConfig
	Task   TaskConfig
	App    AppConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port string
	Host string
}

// Addr returns the listen address
func (s ServerConfig) Addr() string {
	return s.Host + ":" + s.Port
}

// LLMConfig holds LLM-related configuration
type LLMConfig struct {
	GoogleAPIKey      string
	GeminiBaseURL     string
	OpenRouterAPIKey  string
	OpenRouterBaseURL string
	OpenAIAPIKey      string
	OpenAIBaseURL     string
	DefaultModel      string
	RequestTimeout    time.Duration
}

// TaskConfig holds task-related configuration
type TaskConfig struct {
	MaxConcurrentTasks int
}

// AppConfig holds environment and logging configuration
type AppConfig struct {
	Environment string
	LogLevel    string
	LogFormat   string
	Version     string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file, but don't fail if it doesn't exist
	_ = godotenv.Load()

	timeout, err := getEnvAsDuration("REQUEST_TIMEOUT", 90*time.Second)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8080"),
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
		},
		LLM: LLMConfig{
			GoogleAPIKey:      getEnv("GOOGLE_API_KEY", ""),
			GeminiBaseURL:     getEnv("GEMINI_BASE_URL", ""),
			OpenRouterAPIKey:  getEnv("OPENROUTER_API_KEY", ""),
			OpenRouterBaseURL: getEnv("OPENROUTER_BASE_URL", "https://openrouter.ai/api/v1"),
			OpenAIAPIKey:      getEnv("OPENAI_API_KEY", ""),
			OpenAIBaseURL:     getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
			DefaultModel:      getEnv("DEFAULT_MODEL", ""),
			RequestTimeout:    timeout,
		},
		Task: TaskConfig{
			MaxConcurrentTasks: getEnvAsInt("MAX_CONCURRENT_TASKS", 4),
		},
		App: AppConfig{
			Environment: getEnv("APP_ENV", "production"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
			LogFormat:   getEnv("LOG_FORMAT", "text"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that the configuration values are usable. Missing API
// keys are not a validation error; see RequireProvider.
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("SERVER_PORT is required")
	}
	if c.LLM.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must be positive, got %s", c.LLM.RequestTimeout)
	}
	if c.Task.MaxConcurrentTasks < 1 {
		return fmt.Errorf("MAX_CONCURRENT_TASKS must be at least 1, got %d", c.Task.MaxConcurrentTasks)
	}
	return nil
}

// RequireProvider returns ErrNoProvider unless at least one LLM API key is set
func (c *Config) RequireProvider() error {
	if c.LLM.GoogleAPIKey == "" && c.LLM.OpenRouterAPIKey == "" && c.LLM.OpenAIAPIKey == "" {
		return ErrNoProvider
	}
	return nil
}

// IsDevelopment reports whether APP_ENV is development
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an environment variable as int or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsDuration accepts a Go duration ("90s") or a number of seconds
func getEnvAsDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return d, nil
}
