// File: internal/services/ai/config.go
package ai

import (
	"fmt"
	"time"
)

const (
	ProviderOllama = "ollama"
	ProviderOpenAI = "openai"
)

type Config struct {
	Provider string
	BaseURL  string
	APIKey   string

	// Timeout bounds one synchronous inference call, including model load time.
	Timeout time.Duration

	Temperature float32
}

func (c *Config) Validate() error {
	switch c.Provider {
	case ProviderOllama:
	case ProviderOpenAI:
		if c.BaseURL == "" && c.APIKey == "" {
			return fmt.Errorf("AI_API_KEY or AI_BASE_URL is required for the openai provider")
		}
	default:
		return fmt.Errorf("unknown AI provider %q", c.Provider)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("temperature must be between 0 and 2")
	}
	return nil
}

func DefaultConfig() *Config {
	return &Config{
		Provider:    ProviderOllama,
		BaseURL:     "http://localhost:11434",
		Timeout:     120 * time.Second,
		Temperature: 0.7,
	}
}
