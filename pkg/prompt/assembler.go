package prompt

import (
	"fmt"
	"sort"
	"strings"

	"github.com/harun/stargent/pkg/contexts"
)

const (
	// recentTurns is how many chat turns are carried into the prompt
	recentTurns = 5
	// chatBudget caps each quoted chat turn, in runes
	chatBudget = 100
	// outputBudget caps each quoted agent output, in runes
	outputBudget = 200
)

// Assemble builds the grounded prompt from user and agent state on top
// of the base template. It is a pure function: no clock reads, no
// randomness; identical inputs produce byte-identical output.
func Assemble(userCtx *contexts.UserContext, agentCtx *contexts.AgentContext, base string) string {
	var b strings.Builder

	b.WriteString(base)
	b.WriteString("\n\n=== Context ===\n")

	if len(userCtx.Profile) > 0 {
		b.WriteString("\n[User Profile]\n")
		keys := make([]string, 0, len(userCtx.Profile))
		for key := range userCtx.Profile {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			fmt.Fprintf(&b, "- %s: %s\n", key, userCtx.Profile[key])
		}
	}

	if len(userCtx.ChatHistory) > 0 {
		b.WriteString("\n[Recent Conversation]\n")
		history := userCtx.ChatHistory
		if len(history) > recentTurns {
			history = history[len(history)-recentTurns:]
		}
		for _, turn := range history {
			speaker := "User"
			if turn.Role == contexts.RoleAssistant {
				speaker = "AI"
			}
			fmt.Fprintf(&b, "- %s: %s\n", speaker, truncate(turn.Content, chatBudget))
		}
	}

	if len(agentCtx.AgentOutputs) > 0 {
		b.WriteString("\n[Prior Agent Results]\n")
		for i, output := range agentCtx.AgentOutputs {
			agentID := fmt.Sprintf("agent-%d", i)
			if i < len(agentCtx.AgentIDHistory) {
				agentID = agentCtx.AgentIDHistory[i]
			}
			fmt.Fprintf(&b, "- %s: %s\n", agentID, output.ProgressDescription)
			fmt.Fprintf(&b, "  result: %s\n", truncate(output.Output, outputBudget))
		}
	}

	b.WriteString("\n[Progress]\n")
	fmt.Fprintf(&b, "- current step: %d/%d\n", agentCtx.CurrentStep+1, agentCtx.TotalStep)
	invoked := "none"
	if len(agentCtx.AgentIDHistory) > 0 {
		invoked = strings.Join(agentCtx.AgentIDHistory, ", ")
	}
	fmt.Fprintf(&b, "- agents completed: %s\n", invoked)

	b.WriteString("\nUse the context above to respond to the user's request appropriately.")

	return b.String()
}

func truncate(s string, budget int) string {
	runes := []rune(s)
	if len(runes) <= budget {
		return s
	}
	return string(runes[:budget]) + "..."
}
