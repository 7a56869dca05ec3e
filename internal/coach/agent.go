// Package coach drives the tool-calling loop: it sends the conversation to
// the model, executes requested tools against the catalog, feeds results
// back, and repeats until the model produces a final text answer.
package coach

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/exedev/fincoach/internal/llm"
	"github.com/exedev/fincoach/internal/tools"
)

// ErrTurnBudget is returned when the model keeps requesting tools past the
// configured turn limit.
var ErrTurnBudget = errors.New("coach: tool turn budget exceeded")

const (
	defaultMaxTurns   = 10
	defaultMaxRetries = 2
)

// Recorder persists conversation turns and tool invocations. Persistence is
// best-effort: failures are logged and never abort a chat.
type Recorder interface {
	RecordTurn(ctx context.Context, sessionID, role, content string) error
	RecordInvocation(ctx context.Context, sessionID, tool, input, output string, isError bool) error
}

// Agent answers one user message at a time for a single bound account.
// It owns its Conversation exclusively; turns are strictly sequential.
type Agent struct {
	client    llm.ToolClient
	catalog   *tools.Catalog
	accountID string
	sessionID string

	history    []llm.ToolMessage
	maxTurns   int
	maxRetries int
	recorder   Recorder
	logger     *slog.Logger
}

// Option configures an Agent.
type Option func(*Agent)

// WithMaxTurns caps how many model turns one exchange may take.
func WithMaxTurns(n int) Option {
	return func(a *Agent) {
		if n > 0 {
			a.maxTurns = n
		}
	}
}

// WithMaxRetries sets how often a transient model error is retried.
func WithMaxRetries(n int) Option {
	return func(a *Agent) {
		if n >= 0 {
			a.maxRetries = n
		}
	}
}

// WithRecorder attaches a transcript recorder.
func WithRecorder(r Recorder) Option {
	return func(a *Agent) { a.recorder = r }
}

// WithSessionID tags recorded turns with a session identifier.
func WithSessionID(id string) Option {
	return func(a *Agent) { a.sessionID = id }
}

// New creates an agent bound to one account.
func New(client llm.ToolClient, catalog *tools.Catalog, accountID string, logger *slog.Logger, opts ...Option) *Agent {
	if logger == nil {
		logger = slog.Default()
	}
	a := &Agent{
		client:     client,
		catalog:    catalog,
		accountID:  accountID,
		sessionID:  "default",
		maxTurns:   defaultMaxTurns,
		maxRetries: defaultMaxRetries,
		logger:     logger,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// History returns a copy of the conversation so far.
func (a *Agent) History() []llm.ToolMessage {
	out := make([]llm.ToolMessage, len(a.history))
	copy(out, a.history)
	return out
}

// Chat processes one user message and returns the model's final text
// answer, running as many tool rounds as the model requests (up to the turn
// budget). Each tool round appends exactly two turns to the conversation:
// the model's tool-use turn and its matching result.
func (a *Agent) Chat(ctx context.Context, userMessage string) (string, error) {
	system := systemPrompt(a.accountID)
	defs := a.catalog.Defs()

	a.history = append(a.history, llm.UserText(userMessage))
	a.record(ctx, "user", userMessage)

	for turn := 0; turn < a.maxTurns; turn++ {
		resp, err := llm.RetryCall(ctx, a.maxRetries, a.logger, func() (*llm.Response, error) {
			return a.client.ChatWithTools(ctx, system, a.history, defs)
		})
		if err != nil {
			return "", fmt.Errorf("coach model call: %w", err)
		}

		if resp.StopReason != "tool_use" {
			final := resp.Text()
			a.history = append(a.history, llm.AssistantText(final))
			a.record(ctx, "assistant", final)
			return final, nil
		}

		if err := a.runToolTurn(ctx, resp); err != nil {
			return "", err
		}
	}

	return "", ErrTurnBudget
}

// runToolTurn executes the single tool invocation in resp and appends both
// the model's raw tool-use turn and the wrapped result to the conversation.
// Only the first tool_use block is honored; the system prompt asks the
// model for one tool at a time, so further blocks would be a protocol
// violation we resolve in our favor.
func (a *Agent) runToolTurn(ctx context.Context, resp *llm.Response) error {
	tc := resp.FirstToolCall()
	if tc == nil {
		return fmt.Errorf("coach: stop reason %q without a tool_use block", resp.StopReason)
	}

	args := map[string]interface{}{}
	if len(tc.Input) > 0 {
		if err := json.Unmarshal(tc.Input, &args); err != nil {
			a.logger.Warn("unparseable tool arguments", "tool", tc.Name, "error", err)
			args = map[string]interface{}{}
		}
	}
	// Argument enrichment: the model may omit the account identity; the
	// session's bound account fills the gap.
	if _, ok := args["account_id"]; !ok {
		args["account_id"] = a.accountID
	}

	a.history = append(a.history, llm.ToolMessage{Role: "assistant", Content: resp.Content})

	content, isError := a.execute(ctx, tc.Name, args)
	a.history = append(a.history, llm.ToolMessage{
		Role: "tool_result",
		ToolResults: []llm.ToolResult{{
			ToolCallID: tc.ID,
			Content:    content,
			IsError:    isError,
		}},
	})

	if a.recorder != nil {
		input, _ := json.Marshal(args)
		if err := a.recorder.RecordInvocation(ctx, a.sessionID, tc.Name, string(input), content, isError); err != nil {
			a.logger.Warn("record invocation failed", "error", err)
		}
	}
	return nil
}

// execute resolves and runs a tool. Failures, including unknown tool names,
// are returned as error results so the model can react instead of the whole
// exchange aborting.
func (a *Agent) execute(ctx context.Context, name string, args map[string]interface{}) (content string, isError bool) {
	a.logger.Debug("executing tool", "tool", name)

	tool, err := a.catalog.Resolve(name)
	if err != nil {
		a.logger.Warn("tool resolution failed", "tool", name, "error", err)
		return err.Error(), true
	}

	result, err := tool.Execute(ctx, args)
	if err != nil {
		a.logger.Warn("tool execution failed", "tool", name, "error", err)
		return err.Error(), true
	}

	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Sprintf("encode tool result: %v", err), true
	}
	return string(data), false
}

func (a *Agent) record(ctx context.Context, role, content string) {
	if a.recorder == nil {
		return
	}
	if err := a.recorder.RecordTurn(ctx, a.sessionID, role, content); err != nil {
		a.logger.Warn("record turn failed", "error", err)
	}
}
