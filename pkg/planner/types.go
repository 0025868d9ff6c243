package planner

import (
	"encoding/json"
	"fmt"
	"time"
)

// MaxSteps caps how many steps a plan may carry. Oversized model plans
// are truncated rather than rejected.
const MaxSteps = 3

// PlanMode records which agents a plan engages
type PlanMode string

const (
	// ModeSingle is a one-step plan handled by a single agent
	ModeSingle PlanMode = "single"
	// ModeMulti is a plan spanning two or more agent steps
	ModeMulti PlanMode = "multi"
)

// PlanOrigin records how a plan was produced
type PlanOrigin string

const (
	// OriginModel means the manager model produced a usable plan
	OriginModel PlanOrigin = "model"
	// OriginKeyword means the plan came from the keyword fallback scan
	OriginKeyword PlanOrigin = "keyword"
	// OriginDefault means the fixed single-step fallback plan was used
	OriginDefault PlanOrigin = "default"
)

// ToolHints is the manager's suggested tools for one step. The model
// emits a list, but a bare string also decodes; the hints are advisory
// and never restrict what an agent may call.
type ToolHints []string

// UnmarshalJSON accepts ["a", "b"], "a", or null
func (h *ToolHints) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*h = list
		return nil
	}

	var single string
	if err := json.Unmarshal(data, &single); err != nil {
		return fmt.Errorf("tool_recommendation must be a string or a list of strings")
	}
	if single == "" {
		*h = nil
		return nil
	}
	*h = ToolHints{single}
	return nil
}

// Step is one unit of delegated work inside a plan
type Step struct {
	AgentName          string    `json:"agent_name"`
	Description        string    `json:"description"`
	ToolRecommendation ToolHints `json:"tool_recommendation,omitempty"`
}

// Plan is an ordered sequence of agent steps for one user request
type Plan struct {
	ID         string     `json:"id"`
	TotalSteps int        `json:"total_steps"`
	Steps      []Step     `json:"plans"`
	Mode       PlanMode   `json:"mode"`
	Origin     PlanOrigin `json:"origin"`
	CreatedAt  time.Time  `json:"created_at"`
}

func (p *Plan) mode() PlanMode {
	if len(p.Steps) > 1 {
		return ModeMulti
	}
	return ModeSingle
}
