package planner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/harun/stargent/internal/observability"
	"github.com/harun/stargent/pkg/agent"
	"github.com/harun/stargent/pkg/contexts"
	"github.com/harun/stargent/pkg/llm"
	"github.com/harun/stargent/pkg/prompt"
)

// planInstructions is appended to the manager template so the model
// always sees the agent roster and the required JSON shape, even when
// the template on disk is minimal.
const planInstructions = `
Decompose the user's request into at most 3 steps. Available agents:
- kiki: market trends, indices, and news
- ager: individual stock lookup and technical analysis
- ramu: market scenario simulation
- coli: portfolio composition coaching
- bibi: general investment conversation

Respond with JSON only, in this exact shape:
{"total_steps": <n>, "plans": [{"agent_name": "...", "description": "...", "tool_recommendation": ["tool1", "tool2"]}]}`

// Config holds planner construction parameters
type Config struct {
	Store    prompt.Store
	Gateway  agent.ModelCaller
	Settings agent.ModelSettings
	Logger   zerolog.Logger
}

// Planner asks the manager model to decompose a user request into an
// ordered plan of agent steps. It never fails: every decode or
// transport problem degrades to a usable fallback plan.
type Planner struct {
	store    prompt.Store
	gateway  agent.ModelCaller
	settings agent.ModelSettings
	logger   zerolog.Logger
}

// NewPlanner creates a planner backed by the manager template and gateway
func NewPlanner(cfg Config) (*Planner, error) {
	observability.EnsureRegistered()

	if cfg.Store == nil {
		return nil, fmt.Errorf("template store is required")
	}
	if cfg.Gateway == nil {
		return nil, fmt.Errorf("gateway is required")
	}

	settings := cfg.Settings
	if settings.Model == "" {
		settings = agent.DefaultModelSettings()
	}

	return &Planner{
		store:    cfg.Store,
		gateway:  cfg.Gateway,
		settings: settings,
		logger:   cfg.Logger.With().Str("component", "planner").Logger(),
	}, nil
}

// Plan produces an execution plan for the latest user message. The
// returned plan always has between 1 and MaxSteps steps with known
// agent names.
func (p *Planner) Plan(ctx context.Context, userCtx *contexts.UserContext) *Plan {
	task := userCtx.LastUserMessage()

	base := p.store.Load(string(agent.IdentityManager))
	req := llm.ChatRequest{
		Model: p.settings.Model,
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: base + "\n" + planInstructions},
			{Role: llm.RoleUser, Content: task},
		},
		Temperature: p.settings.Temperature,
		MaxTokens:   p.settings.MaxTokens,
	}

	response, err := p.gateway.Call(ctx, req)
	if err != nil {
		if !errors.Is(err, llm.ErrUnavailable) {
			p.logger.Error().Err(err).Msg("Unexpected gateway failure during planning")
		}
		return p.finish(p.defaultPlan(task))
	}

	plan, origin := p.decode(response.Content, task)
	plan.Origin = origin
	return p.finish(plan)
}

// decode turns the manager's raw text into a plan, degrading from JSON
// decode to keyword scan to the default single-step plan.
func (p *Planner) decode(raw string, task string) (*Plan, PlanOrigin) {
	var envelope struct {
		TotalSteps int    `json:"total_steps"`
		Steps      []Step `json:"plans"`
	}

	cleaned := stripFences(raw)
	if err := json.Unmarshal([]byte(cleaned), &envelope); err == nil && len(envelope.Steps) > 0 {
		return &Plan{Steps: envelope.Steps}, OriginModel
	}

	p.logger.Warn().Str("raw", truncateForLog(raw)).Msg("Manager response was not a decodable plan, scanning for agent keywords")

	if identity, ok := scanIdentity(raw); ok {
		return &Plan{Steps: []Step{{
			AgentName:   string(identity),
			Description: task,
		}}}, OriginKeyword
	}

	return p.defaultPlan(task), OriginDefault
}

// finish normalizes agent names, clamps the step count, and stamps the
// plan's bookkeeping fields.
func (p *Planner) finish(plan *Plan) *Plan {
	if len(plan.Steps) > MaxSteps {
		plan.Steps = plan.Steps[:MaxSteps]
	}

	for i := range plan.Steps {
		identity, known := agent.ParseIdentity(plan.Steps[i].AgentName)
		// The manager plans work but never executes a step itself
		if !known || identity == agent.IdentityManager {
			identity = agent.DefaultIdentity
		}
		plan.Steps[i].AgentName = string(identity)
	}

	plan.ID = uuid.New().String()
	plan.TotalSteps = len(plan.Steps)
	plan.Mode = plan.mode()
	plan.CreatedAt = time.Now()

	observability.RecordPlan(string(plan.Mode), string(plan.Origin))
	p.logger.Info().Str("plan_id", plan.ID).Int("steps", plan.TotalSteps).Str("origin", string(plan.Origin)).Msg("Plan ready")

	return plan
}

func (p *Planner) defaultPlan(task string) *Plan {
	return &Plan{
		Origin: OriginDefault,
		Steps: []Step{{
			AgentName:   string(agent.DefaultIdentity),
			Description: task,
		}},
	}
}

// scanIdentity looks for a worker agent name in free-form manager text,
// checking specialists before the general advisor.
func scanIdentity(raw string) (agent.Identity, bool) {
	lowered := strings.ToLower(raw)
	for _, identity := range agent.WorkerIdentities() {
		if identity == agent.DefaultIdentity {
			continue
		}
		if strings.Contains(lowered, string(identity)) {
			return identity, true
		}
	}
	if strings.Contains(lowered, string(agent.DefaultIdentity)) {
		return agent.DefaultIdentity, true
	}
	return agent.DefaultIdentity, false
}

// stripFences removes a surrounding markdown code fence, with or
// without a json language tag.
func stripFences(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}

func truncateForLog(s string) string {
	const limit = 200
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
