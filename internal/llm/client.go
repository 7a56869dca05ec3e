// Package llm provides a provider-agnostic interface for LLM calls.
package llm

import "context"

// Message represents a single plain-text conversation turn.
type Message struct {
	Role    string
	Content string
}

// Client is the minimal chat interface.
type Client interface {
	Chat(ctx context.Context, systemPrompt, userMessage string) (string, error)
	ChatWithHistory(ctx context.Context, systemPrompt string, messages []Message) (string, error)
}

// ToolClient extends Client with tool-use capability. The coach requires a
// ToolClient; providers that cannot do structured tool calls cannot drive it.
type ToolClient interface {
	Client
	ChatWithTools(ctx context.Context, systemPrompt string,
		messages []ToolMessage, tools []ToolDef) (*Response, error)
}
