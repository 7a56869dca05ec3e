package llm

import "fmt"

// ProviderConfig holds what's needed to construct an LLM client.
type ProviderConfig struct {
	Provider string // "anthropic" or "openai"
	Model    string
	APIKey   string
	BaseURL  string // optional: override API base URL (OpenAI-compatible endpoints)
}

// NewFromConfig creates the appropriate ToolClient based on provider name.
func NewFromConfig(cfg ProviderConfig) (ToolClient, error) {
	switch cfg.Provider {
	case "anthropic":
		return NewAnthropicClient(cfg.APIKey, cfg.Model), nil

	case "openai":
		return NewOpenAIClient(cfg.APIKey, cfg.Model, cfg.BaseURL), nil

	case "":
		return nil, fmt.Errorf("no LLM provider configured (set coach.provider in fincoach.json)")

	default:
		return nil, fmt.Errorf("unknown LLM provider: %q (supported: anthropic, openai)", cfg.Provider)
	}
}
