package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/harun/stargent/pkg/llm"
	"github.com/rs/zerolog/log"
)

// Resolve executes the tool calls requested in a model response and
// formats the results back into the conversation.
//
// When the response carries no tool calls, the response text is returned
// unchanged with no follow-up messages. Otherwise the first follow-up is
// the assistant message echoing the calls, followed by one tool-role
// message per call carrying the originating call's identifier. Decode
// failures, unknown tools and handler faults all degrade into textual
// error content per call; Resolve never raises.
func Resolve(ctx context.Context, resp *llm.ChatResponse, registry *Registry) (string, []llm.Message) {
	if resp == nil || len(resp.ToolCalls) == 0 {
		if resp == nil {
			return "", nil
		}
		return resp.Content, nil
	}

	followUps := []llm.Message{{
		Role:      llm.RoleAssistant,
		Content:   resp.Content,
		ToolCalls: resp.ToolCalls,
	}}

	for _, call := range resp.ToolCalls {
		content := resolveCall(ctx, call, registry)

		followUps = append(followUps, llm.Message{
			Role:       llm.RoleTool,
			Content:    content,
			ToolCallID: call.ID,
		})
	}

	return resp.Content, followUps
}

func resolveCall(ctx context.Context, call llm.ToolCall, registry *Registry) string {
	args := map[string]any{}
	if call.Arguments != "" {
		if err := json.Unmarshal([]byte(call.Arguments), &args); err != nil {
			log.Warn().Str("tool", call.Name).Err(err).Msg("Tool argument decode failed")
			return fmt.Sprintf("error: failed to decode arguments for %s", call.Name)
		}
	}

	if registry == nil || registry.Get(call.Name) == nil {
		return fmt.Sprintf("error: unknown tool '%s'", call.Name)
	}

	log.Debug().Str("tool", call.Name).Interface("args", args).Msg("Executing tool")

	result := registry.Execute(ctx, call.Name, args)
	if !result.Success {
		return fmt.Sprintf("error: %s", result.Error)
	}

	return result.Output
}
