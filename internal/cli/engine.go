package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/harun/stargent/pkg/orchestrator"
	"github.com/harun/stargent/pkg/planner"
	"github.com/harun/stargent/pkg/session"
)

// Engine ties planning, execution, and persistence into one
// request/response cycle per user message.
type Engine struct {
	planner  *planner.Planner
	executor *orchestrator.Executor
	sessions *session.Store
	logger   zerolog.Logger
}

// NewEngine creates the engine over its already-wired parts
func NewEngine(p *planner.Planner, e *orchestrator.Executor, s *session.Store, lg zerolog.Logger) *Engine {
	return &Engine{
		planner:  p,
		executor: e,
		sessions: s,
		logger:   lg.With().Str("component", "engine").Logger(),
	}
}

// Ask runs one full turn: load session, plan, execute, merge the final
// answer back into the conversation, and persist everything.
func (e *Engine) Ask(ctx context.Context, sessionKey, message string) (string, error) {
	userCtx, err := e.sessions.LoadUserContext(sessionKey)
	if err != nil {
		return "", fmt.Errorf("failed to load session %s: %w", sessionKey, err)
	}

	userCtx.AddUserMessage(message)

	plan := e.planner.Plan(ctx, userCtx)
	agentCtx, err := e.executor.Execute(ctx, plan, userCtx)
	if err != nil {
		return "", fmt.Errorf("plan execution failed: %w", err)
	}

	final := agentCtx.LastOutput()
	progress := make([]string, 0, len(agentCtx.AgentOutputs))
	for _, output := range agentCtx.AgentOutputs {
		if output.ProgressDescription != "" {
			progress = append(progress, output.ProgressDescription)
		}
	}
	userCtx.AddAssistantMessage(final.Output, strings.Join(progress, "; "))

	if err := e.sessions.SaveUserContext(sessionKey, userCtx); err != nil {
		return "", fmt.Errorf("failed to save session %s: %w", sessionKey, err)
	}
	if err := e.sessions.SaveAgentContext(sessionKey, agentCtx); err != nil {
		return "", fmt.Errorf("failed to archive plan for %s: %w", sessionKey, err)
	}

	e.logger.Info().
		Str("session", sessionKey).
		Str("plan_id", plan.ID).
		Int("steps", agentCtx.CurrentStep).
		Msg("Turn complete")

	return final.Output, nil
}
