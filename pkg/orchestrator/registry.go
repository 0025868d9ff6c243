package orchestrator

import (
	"context"
	"fmt"
	"sync"

	"github.com/harun/stargent/pkg/agent"
	"github.com/harun/stargent/pkg/contexts"
)

// StepRunner executes a single plan step for one agent identity
type StepRunner interface {
	Run(ctx context.Context, userCtx *contexts.UserContext, agentCtx *contexts.AgentContext) contexts.AgentOutput
	Identity() agent.Identity
}

// Registry maps agent identities to their step runners
type Registry struct {
	mu      sync.RWMutex
	runners map[agent.Identity]StepRunner
}

// NewRegistry creates an empty runner registry
func NewRegistry() *Registry {
	return &Registry{runners: make(map[agent.Identity]StepRunner)}
}

// Register adds a runner under its own identity. Re-registering an
// identity is rejected.
func (r *Registry) Register(runner StepRunner) error {
	if runner == nil {
		return fmt.Errorf("runner cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	identity := runner.Identity()
	if _, exists := r.runners[identity]; exists {
		return fmt.Errorf("runner already registered for %s", identity)
	}
	r.runners[identity] = runner
	return nil
}

// Resolve returns the runner for a plan step's agent name. Unknown
// names and unregistered identities resolve to the default identity's
// runner; the second return reports whether that fallback happened.
func (r *Registry) Resolve(name string) (StepRunner, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	identity, known := agent.ParseIdentity(name)
	if known {
		if runner, ok := r.runners[identity]; ok {
			return runner, true
		}
	}
	return r.runners[agent.DefaultIdentity], false
}

// Identities returns the registered identities
func (r *Registry) Identities() []agent.Identity {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]agent.Identity, 0, len(r.runners))
	for id := range r.runners {
		ids = append(ids, id)
	}
	return ids
}
