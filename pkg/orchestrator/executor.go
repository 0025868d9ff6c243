package orchestrator

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/harun/stargent/internal/observability"
	"github.com/harun/stargent/pkg/contexts"
	"github.com/harun/stargent/pkg/planner"
)

// Executor walks a plan's steps in order, sharing one AgentContext
// across them so later agents see earlier results.
type Executor struct {
	registry *Registry
	logger   zerolog.Logger
}

// NewExecutor creates an executor over the given runner registry. The
// registry must carry a runner for the default identity so every plan
// step can be resolved.
func NewExecutor(registry *Registry, logger zerolog.Logger) (*Executor, error) {
	observability.EnsureRegistered()

	if registry == nil {
		return nil, fmt.Errorf("registry is required")
	}
	if runner, _ := registry.Resolve(""); runner == nil {
		return nil, fmt.Errorf("registry has no runner for the default identity")
	}

	return &Executor{
		registry: registry,
		logger:   logger.With().Str("component", "executor").Logger(),
	}, nil
}

// Execute runs every step of the plan sequentially and returns the
// accumulated agent context. The last recorded output is always final.
func (e *Executor) Execute(ctx context.Context, plan *planner.Plan, userCtx *contexts.UserContext) (*contexts.AgentContext, error) {
	if plan == nil || len(plan.Steps) == 0 {
		return nil, fmt.Errorf("plan has no steps")
	}

	agentCtx := contexts.NewAgentContext(len(plan.Steps))

	for i, step := range plan.Steps {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("plan %s aborted at step %d: %w", plan.ID, i+1, err)
		}

		runner, matched := e.registry.Resolve(step.AgentName)
		if !matched {
			e.logger.Warn().Str("agent", step.AgentName).Msg("No runner for plan step agent, using default")
		}

		e.logger.Info().
			Str("plan_id", plan.ID).
			Int("step", i+1).
			Int("total", plan.TotalSteps).
			Str("agent", string(runner.Identity())).
			Msg("Executing plan step")

		output := runner.Run(ctx, userCtx, agentCtx)
		agentCtx.AddResult(string(runner.Identity()), output)
		observability.RecordPlanStep()

		// An early final output ends the plan; remaining steps are moot
		if output.IsFinal && agentCtx.CurrentStep < agentCtx.TotalStep {
			agentCtx.TotalStep = agentCtx.CurrentStep
			break
		}
	}

	e.enforceFinalTail(agentCtx)

	return agentCtx, nil
}

// enforceFinalTail guarantees the last recorded output is marked final
// even if a runner misjudged its position.
func (e *Executor) enforceFinalTail(agentCtx *contexts.AgentContext) {
	last := agentCtx.LastOutput()
	if last == nil || last.IsFinal {
		return
	}
	e.logger.Warn().Msg("Last plan step was not marked final, forcing finality")
	agentCtx.AgentOutputs[len(agentCtx.AgentOutputs)-1].IsFinal = true
}
