package agent

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/harun/stargent/internal/observability"
	"github.com/harun/stargent/pkg/contexts"
	"github.com/harun/stargent/pkg/llm"
	"github.com/harun/stargent/pkg/prompt"
	"github.com/harun/stargent/pkg/tools"
	"github.com/rs/zerolog"
)

// ModelCaller is the gateway surface the runner depends on
type ModelCaller interface {
	Call(ctx context.Context, req llm.ChatRequest) (*llm.ChatResponse, error)
}

// ModelSettings carries the per-call model parameters
type ModelSettings struct {
	Model       string
	Temperature float64
	MaxTokens   int
}

// DefaultModelSettings returns the settings used when none are configured
func DefaultModelSettings() ModelSettings {
	return ModelSettings{
		Model:       "gpt-4.1-mini",
		Temperature: 0.7,
		MaxTokens:   2000,
	}
}

// Config holds runner construction parameters
type Config struct {
	Identity Identity
	Store    prompt.Store
	Gateway  ModelCaller
	Registry *tools.Registry
	// Tools is this identity's subset of the registry; empty means the
	// model is called without tool declarations.
	Tools    []string
	Settings ModelSettings
	Logger   zerolog.Logger
}

// Runner executes one agent's full turn: assemble the grounded prompt,
// call the model, resolve requested tool calls, and package the result.
type Runner struct {
	identity  Identity
	store     prompt.Store
	gateway   ModelCaller
	registry  *tools.Registry
	toolNames []string
	settings  ModelSettings
	logger    zerolog.Logger
}

// NewRunner creates a runner for one agent identity
func NewRunner(cfg Config) (*Runner, error) {
	observability.EnsureRegistered()

	if cfg.Identity == "" {
		return nil, fmt.Errorf("identity is required")
	}
	if cfg.Store == nil {
		return nil, fmt.Errorf("template store is required")
	}
	if cfg.Gateway == nil {
		return nil, fmt.Errorf("gateway is required")
	}

	settings := cfg.Settings
	if settings.Model == "" {
		settings = DefaultModelSettings()
	}

	return &Runner{
		identity:  cfg.Identity,
		store:     cfg.Store,
		gateway:   cfg.Gateway,
		registry:  cfg.Registry,
		toolNames: cfg.Tools,
		settings:  settings,
		logger:    cfg.Logger.With().Str("agent", string(cfg.Identity)).Logger(),
	}, nil
}

// Identity returns the agent identity this runner serves
func (r *Runner) Identity() Identity {
	return r.identity
}

// Run executes one agent turn. It always returns a well-formed
// AgentOutput with non-empty Output; no fault propagates to the caller.
func (r *Runner) Run(ctx context.Context, userCtx *contexts.UserContext, agentCtx *contexts.AgentContext) (out contexts.AgentOutput) {
	start := time.Now()
	success := true

	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error().Interface("panic", rec).Msg("Agent run panicked")
			success = false
			out = r.apologyOutput()
		}
		observability.RecordAgentRun(string(r.identity), time.Since(start), success)
	}()

	base := r.store.Load(string(r.identity))
	grounded := prompt.Assemble(userCtx, agentCtx, base)
	task := userCtx.LastUserMessage()

	messages := []llm.Message{
		{Role: llm.RoleSystem, Content: grounded},
		{Role: llm.RoleUser, Content: task},
	}

	req := r.newRequest(messages)
	if r.registry != nil && len(r.toolNames) > 0 {
		req.Tools = r.registry.Schemas(r.toolNames...)
	}

	response, err := r.gateway.Call(ctx, req)
	if err != nil {
		if !errors.Is(err, llm.ErrUnavailable) {
			r.logger.Error().Err(err).Msg("Unexpected gateway failure")
		}
		success = false
		return r.apologyOutput()
	}

	content, followUps := tools.Resolve(ctx, response, r.registry)

	final := content
	if len(followUps) > 0 {
		final = r.groundedAnswer(ctx, messages, followUps, content)
	}

	// Finality is decided before this result is appended to the history
	isFinal := agentCtx.CurrentStep+1 >= agentCtx.TotalStep

	if final == "" {
		final = "Unable to generate a response. Please try again."
	}

	r.logger.Info().Bool("final", isFinal).Int("tool_calls", len(response.ToolCalls)).Msg("Agent run complete")

	return contexts.AgentOutput{
		IsFinal:             isFinal,
		ProgressDescription: fmt.Sprintf("%s completed its task", r.identity),
		Output:              final,
	}
}

// groundedAnswer issues the second model call carrying the tool results.
// When that call is unavailable it falls back to the first call's text.
func (r *Runner) groundedAnswer(ctx context.Context, messages []llm.Message, followUps []llm.Message, firstText string) string {
	extended := append(append([]llm.Message{}, messages...), followUps...)

	response, err := r.gateway.Call(ctx, r.newRequest(extended))
	if err != nil {
		r.logger.Warn().Err(err).Msg("Tool-grounded follow-up call failed, using first response text")
		if firstText != "" {
			return firstText
		}
		return "The requested data was collected, but composing the final answer failed. Please try again."
	}

	return response.Content
}

func (r *Runner) newRequest(messages []llm.Message) llm.ChatRequest {
	return llm.ChatRequest{
		Model:       r.settings.Model,
		Messages:    messages,
		Temperature: r.settings.Temperature,
		MaxTokens:   r.settings.MaxTokens,
	}
}

func (r *Runner) apologyOutput() contexts.AgentOutput {
	return contexts.AgentOutput{
		IsFinal:             true,
		ProgressDescription: fmt.Sprintf("%s run failed", r.identity),
		Output:              fmt.Sprintf("Sorry, the %s agent ran into a temporary problem. Please try again shortly.", r.identity),
	}
}
