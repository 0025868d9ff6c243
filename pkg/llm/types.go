package llm

import "context"

// Message roles on the model transport.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// Message represents one ordered entry in a model conversation
type Message struct {
	Role       string     `json:"role"`
	Content    string     `json:"content"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
}

// ToolCall is a model-requested tool invocation. Arguments is the raw
// argument text as produced by the model; decoding is the resolver's job.
type ToolCall struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// ToolSchema declares one tool to the model
type ToolSchema struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

// ChatRequest carries everything needed for one model call
type ChatRequest struct {
	Model        string
	Messages     []Message
	Tools        []ToolSchema
	ToolChoice   string
	Temperature  float64
	MaxTokens    int
	JSONResponse bool
}

// ChatResponse is the model's reply to one ChatRequest
type ChatResponse struct {
	Content   string
	ToolCalls []ToolCall
	Usage     *TokenUsage
}

// TokenUsage tracks token consumption
type TokenUsage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// Client is the transport to an external language model
type Client interface {
	// Complete makes a single model call
	Complete(ctx context.Context, req ChatRequest) (*ChatResponse, error)

	// Provider returns the transport name
	Provider() string
}
