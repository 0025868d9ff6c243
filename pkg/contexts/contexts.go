package contexts

import (
	"encoding/json"
	"fmt"
	"time"
)

// Role values used in chat history.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage represents a single conversation turn
type ChatMessage struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
	Progress  *string   `json:"progress,omitempty"`
}

// UserContext holds per-session user state: profile data and the full
// chat history. The history is append-only.
type UserContext struct {
	Profile     map[string]string `json:"profile"`
	ChatHistory []ChatMessage     `json:"chat_history"`
}

// NewUserContext creates a user context with the given profile
func NewUserContext(profile map[string]string) *UserContext {
	if profile == nil {
		profile = make(map[string]string)
	}
	return &UserContext{
		Profile:     profile,
		ChatHistory: []ChatMessage{},
	}
}

// AddUserMessage appends a user-authored turn to the chat history
func (uc *UserContext) AddUserMessage(content string) {
	uc.ChatHistory = append(uc.ChatHistory, ChatMessage{
		Role:      RoleUser,
		Content:   content,
		Timestamp: time.Now().UTC(),
	})
}

// AddAssistantMessage appends an assistant turn, optionally carrying a
// progress note describing the work that produced it
func (uc *UserContext) AddAssistantMessage(content string, progress string) {
	msg := ChatMessage{
		Role:      RoleAssistant,
		Content:   content,
		Timestamp: time.Now().UTC(),
	}
	if progress != "" {
		msg.Progress = &progress
	}
	uc.ChatHistory = append(uc.ChatHistory, msg)
}

// LastUserMessage scans the history backward for the most recent
// user-authored turn. Returns empty string if none exists.
func (uc *UserContext) LastUserMessage() string {
	for i := len(uc.ChatHistory) - 1; i >= 0; i-- {
		if uc.ChatHistory[i].Role == RoleUser {
			return uc.ChatHistory[i].Content
		}
	}
	return ""
}

// Encode serializes the context to JSON
func (uc *UserContext) Encode() ([]byte, error) {
	return json.MarshalIndent(uc, "", "  ")
}

// DecodeUserContext restores a UserContext from its JSON form
func DecodeUserContext(data []byte) (*UserContext, error) {
	var uc UserContext
	if err := json.Unmarshal(data, &uc); err != nil {
		return nil, fmt.Errorf("failed to decode user context: %w", err)
	}
	if uc.Profile == nil {
		uc.Profile = make(map[string]string)
	}
	if uc.ChatHistory == nil {
		uc.ChatHistory = []ChatMessage{}
	}
	return &uc, nil
}

// AgentOutput is the standardized result of one agent turn. Immutable
// once produced; Output is non-empty on every path.
type AgentOutput struct {
	IsFinal             bool   `json:"final_output"`
	ProgressDescription string `json:"progress_description"`
	Output              string `json:"output"`
}

// AgentContext tracks progress and accumulated outputs for one plan
// execution. It is owned exclusively by the plan executor for the
// duration of one plan and discarded after the final output is merged
// into the user context.
type AgentContext struct {
	TotalStep      int           `json:"total_step"`
	CurrentStep    int           `json:"current_step"`
	AgentIDHistory []string      `json:"agent_id_history"`
	AgentOutputs   []AgentOutput `json:"agent_output"`
}

// NewAgentContext creates a fresh context for a plan of totalStep steps
func NewAgentContext(totalStep int) *AgentContext {
	if totalStep < 1 {
		totalStep = 1
	}
	return &AgentContext{
		TotalStep:      totalStep,
		CurrentStep:    0,
		AgentIDHistory: []string{},
		AgentOutputs:   []AgentOutput{},
	}
}

// AddResult records one agent's output. Identity history and output
// history change together; CurrentStep always equals their length.
func (ac *AgentContext) AddResult(agentID string, output AgentOutput) {
	ac.AgentIDHistory = append(ac.AgentIDHistory, agentID)
	ac.AgentOutputs = append(ac.AgentOutputs, output)
	ac.CurrentStep = len(ac.AgentIDHistory)
}

// IsFinalStep reports whether the context has reached its last step
func (ac *AgentContext) IsFinalStep() bool {
	return ac.CurrentStep >= ac.TotalStep
}

// LastOutput returns the most recently recorded output, or nil when no
// step has completed yet
func (ac *AgentContext) LastOutput() *AgentOutput {
	if len(ac.AgentOutputs) == 0 {
		return nil
	}
	return &ac.AgentOutputs[len(ac.AgentOutputs)-1]
}

// Encode serializes the context to JSON
func (ac *AgentContext) Encode() ([]byte, error) {
	return json.MarshalIndent(ac, "", "  ")
}

// DecodeAgentContext restores an AgentContext from its JSON form
func DecodeAgentContext(data []byte) (*AgentContext, error) {
	var ac AgentContext
	if err := json.Unmarshal(data, &ac); err != nil {
		return nil, fmt.Errorf("failed to decode agent context: %w", err)
	}
	if ac.AgentIDHistory == nil {
		ac.AgentIDHistory = []string{}
	}
	if ac.AgentOutputs == nil {
		ac.AgentOutputs = []AgentOutput{}
	}
	return &ac, nil
}
