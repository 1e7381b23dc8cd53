// Package config provides application configuration.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/mentoralabs/mentora/internal/llm"
)

// Config holds all application configuration.
type Config struct {
	Port        string
	FrontendURL string
	DBPath      string
	LLM         llm.Config
}

// Load reads configuration from environment variables. Missing model-backend
// credentials are a fatal startup condition: the engine must not serve
// requests without a configured deployment.
func Load() (*Config, error) {
	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		FrontendURL: getEnv("FRONTEND_URL", ""),
		DBPath:      getEnv("DB_PATH", "./data/mentora.db"),
		LLM: llm.Config{
			APIKey:     getEnv("AZURE_OPENAI_API_KEY", ""),
			Endpoint:   getEnv("AZURE_OPENAI_ENDPOINT", ""),
			APIVersion: getEnv("AZURE_OPENAI_API_VERSION", "2024-02-15"),
			Deployment: getEnv("AZURE_OPENAI_DEPLOYMENT", ""),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required configuration fields are set.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}
	if c.DBPath == "" {
		return fmt.Errorf("DB_PATH cannot be empty")
	}
	if c.LLM.APIKey == "" {
		return fmt.Errorf("AZURE_OPENAI_API_KEY is required")
	}
	if c.LLM.Endpoint == "" {
		return fmt.Errorf("AZURE_OPENAI_ENDPOINT is required")
	}
	if c.LLM.Deployment == "" {
		return fmt.Errorf("AZURE_OPENAI_DEPLOYMENT is required")
	}
	return nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.FrontendURL == "" ||
		strings.Contains(c.FrontendURL, "localhost") ||
		strings.Contains(c.FrontendURL, "127.0.0.1")
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
