// Package openrouter provides a client for the OpenRouter chat completions API.
package openrouter

import (
	"time"

	"planner_backend/internal/platform/config"
)

// Config holds configuration for the OpenRouter API client.
type Config struct {
	APIKey  string        // Bearer token
	BaseURL string        // e.g. "https://openrouter.ai/api/v1"
	Model   string        // e.g. "mistralai/mistral-7b-instruct:free"
	Timeout time.Duration // HTTP request timeout
}

// ConfigFrom builds the client configuration from the application config.
func ConfigFrom(cfg *config.Config) Config {
	return Config{
		APIKey:  cfg.OpenRouter.APIKey,
		BaseURL: cfg.OpenRouter.BaseURL,
		Model:   cfg.OpenRouter.Model,
		Timeout: cfg.Completion.Timeout,
	}
}
