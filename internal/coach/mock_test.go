package coach

import (
	"context"
	"errors"
	"fmt"

	"github.com/exedev/fincoach/internal/llm"
)

// scriptedClient plays back a fixed sequence of model responses and records
// the conversation it was shown on every call.
type scriptedClient struct {
	responses []*llm.Response
	calls     [][]llm.ToolMessage
	errs      []error
}

func (s *scriptedClient) Chat(ctx context.Context, system, user string) (string, error) {
	return "", errors.New("not used")
}

func (s *scriptedClient) ChatWithHistory(ctx context.Context, system string, msgs []llm.Message) (string, error) {
	return "", errors.New("not used")
}

func (s *scriptedClient) ChatWithTools(ctx context.Context, system string,
	messages []llm.ToolMessage, tools []llm.ToolDef) (*llm.Response, error) {

	snapshot := make([]llm.ToolMessage, len(messages))
	copy(snapshot, messages)
	s.calls = append(s.calls, snapshot)

	idx := len(s.calls) - 1
	if idx < len(s.errs) && s.errs[idx] != nil {
		return nil, s.errs[idx]
	}
	if idx >= len(s.responses) {
		return nil, fmt.Errorf("scripted client exhausted after %d calls", idx)
	}
	return s.responses[idx], nil
}

func textResponse(text string) *llm.Response {
	return &llm.Response{
		Content:    []llm.ContentBlock{{Type: "text", Text: text}},
		StopReason: "end_turn",
	}
}

func toolResponse(id, name, input string) *llm.Response {
	return &llm.Response{
		Content: []llm.ContentBlock{{
			Type:     "tool_use",
			ToolCall: &llm.ToolCall{ID: id, Name: name, Input: []byte(input)},
		}},
		StopReason: "tool_use",
	}
}

// echoTool records the arguments it was executed with.
type echoTool struct {
	name     string
	lastArgs map[string]interface{}
	calls    int
	err      error
}

func (t *echoTool) Name() string        { return t.name }
func (t *echoTool) Description() string { return "test tool" }

func (t *echoTool) InputSchema() map[string]interface{} {
	return map[string]interface{}{
		"type":       "object",
		"properties": map[string]interface{}{},
	}
}

func (t *echoTool) Execute(ctx context.Context, args map[string]interface{}) (map[string]interface{}, error) {
	t.calls++
	t.lastArgs = args
	if t.err != nil {
		return nil, t.err
	}
	return map[string]interface{}{"ok": true, "verified": true}, nil
}
