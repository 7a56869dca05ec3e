package llm

import "encoding/json"

// ToolDef defines a tool the LLM can call.
type ToolDef struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"input_schema"`
}

// ToolCall represents the LLM requesting a tool invocation.
type ToolCall struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Input json.RawMessage `json:"input"`
}

// ToolResult is the response to a tool call.
type ToolResult struct {
	ToolCallID string `json:"tool_use_id"`
	Content    string `json:"content"`
	IsError    bool   `json:"is_error,omitempty"`
}

// ContentBlock is a single block in a message (text or tool_use).
type ContentBlock struct {
	Type     string    `json:"type"` // "text" or "tool_use"
	Text     string    `json:"text,omitempty"`
	ToolCall *ToolCall `json:"tool_call,omitempty"`
}

// Usage reports token consumption for a single model call.
type Usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// Response is the LLM's response, possibly containing tool calls.
type Response struct {
	Content    []ContentBlock `json:"content"`
	StopReason string         `json:"stop_reason"` // "end_turn", "tool_use", "max_tokens"
	Model      string         `json:"model,omitempty"`
	Usage      Usage          `json:"usage"`
}

// FirstToolCall returns the first tool_use block in the response, or nil.
// Providers may emit several tool calls in one turn; only the first is
// honored so a conversation never holds more than one unresolved invocation.
func (r *Response) FirstToolCall() *ToolCall {
	for _, block := range r.Content {
		if block.Type == "tool_use" && block.ToolCall != nil {
			return block.ToolCall
		}
	}
	return nil
}

// Text concatenates all text blocks in the response.
func (r *Response) Text() string {
	var out string
	for _, block := range r.Content {
		if block.Type == "text" {
			out += block.Text
		}
	}
	return out
}

// ToolMessage is a rich conversation turn that can contain text, tool calls,
// or tool results.
type ToolMessage struct {
	Role        string         `json:"role"` // "user", "assistant", "tool_result"
	Content     []ContentBlock `json:"content,omitempty"`
	ToolResults []ToolResult   `json:"tool_results,omitempty"`
}

// UserText builds a plain-text user turn.
func UserText(text string) ToolMessage {
	return ToolMessage{
		Role:    "user",
		Content: []ContentBlock{{Type: "text", Text: text}},
	}
}

// AssistantText builds a plain-text assistant turn.
func AssistantText(text string) ToolMessage {
	return ToolMessage{
		Role:    "assistant",
		Content: []ContentBlock{{Type: "text", Text: text}},
	}
}
