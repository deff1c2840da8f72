package llm

import (
	"context"
)

// Request is a single generation call: a system directive, a user prompt with
// the data embedded, and a randomness setting.
type Request struct {
	System      string
	Prompt      string
	Temperature float32
	Tier        ModelTier
}

// Client is an abstraction over LLM providers
type Client interface {
	// GenerateContent generates free text
	GenerateContent(ctx context.Context, req Request) (string, error)
	// GenerateJSON generates a response constrained to a single JSON object
	GenerateJSON(ctx context.Context, req Request) (string, error)
	// GetModel returns the underlying provider model for a tier
	GetModel(tier ModelTier) string
	// Close releases any resources held by the client
	Close() error
}

// NewClient creates a new LLM client based on configuration
func NewClient(ctx context.Context, config *Config, apiKey string) (Client, error) {
	if config == nil {
		config = DefaultConfig()
	}

	switch config.Provider {
	case ProviderGroq, ProviderOpenAI:
		return NewOpenAIClient(config, apiKey)
	default:
		return NewGeminiClient(ctx, config, apiKey)
	}
}
