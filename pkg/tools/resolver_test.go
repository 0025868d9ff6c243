package tools

import (
	"context"
	"testing"

	"github.com/harun/stargent/pkg/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolvePlainResponse(t *testing.T) {
	reg := NewRegistry()

	text, followUps := Resolve(context.Background(), &llm.ChatResponse{Content: "just text"}, reg)
	assert.Equal(t, "just text", text)
	assert.Empty(t, followUps)
}

func TestResolveNilResponse(t *testing.T) {
	text, followUps := Resolve(context.Background(), nil, NewRegistry())
	assert.Equal(t, "", text)
	assert.Empty(t, followUps)
}

func TestResolveExecutesTool(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register(echoDefinition()))

	resp := &llm.ChatResponse{
		Content: "",
		ToolCalls: []llm.ToolCall{
			{ID: "call-1", Name: "echo", Arguments: `{"text":"hi there"}`},
		},
	}

	_, followUps := Resolve(context.Background(), resp, reg)
	require.Len(t, followUps, 2)

	// First follow-up echoes the assistant's tool calls
	assert.Equal(t, llm.RoleAssistant, followUps[0].Role)
	require.Len(t, followUps[0].ToolCalls, 1)
	assert.Equal(t, "call-1", followUps[0].ToolCalls[0].ID)

	// Then one tool message per call, linked by call id
	assert.Equal(t, llm.RoleTool, followUps[1].Role)
	assert.Equal(t, "call-1", followUps[1].ToolCallID)
	assert.Equal(t, "hi there", followUps[1].Content)
}

func TestResolveUnknownTool(t *testing.T) {
	reg := NewRegistry()

	resp := &llm.ChatResponse{
		ToolCalls: []llm.ToolCall{
			{ID: "call-9", Name: "no_such_tool", Arguments: `{}`},
		},
	}

	assert.NotPanics(t, func() {
		_, followUps := Resolve(context.Background(), resp, reg)
		require.Len(t, followUps, 2)
		assert.Equal(t, "call-9", followUps[1].ToolCallID)
		assert.Contains(t, followUps[1].Content, "unknown tool")
	})
}

func TestResolveBadArguments(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register(echoDefinition()))

	resp := &llm.ChatResponse{
		ToolCalls: []llm.ToolCall{
			{ID: "call-2", Name: "echo", Arguments: `{not valid json`},
		},
	}

	_, followUps := Resolve(context.Background(), resp, reg)
	require.Len(t, followUps, 2)
	assert.Contains(t, followUps[1].Content, "failed to decode arguments")
}

func TestResolveFaultIsolatedPerCall(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register(echoDefinition()))

	resp := &llm.ChatResponse{
		ToolCalls: []llm.ToolCall{
			{ID: "call-a", Name: "missing", Arguments: `{}`},
			{ID: "call-b", Name: "echo", Arguments: `{"text":"still works"}`},
		},
	}

	_, followUps := Resolve(context.Background(), resp, reg)
	require.Len(t, followUps, 3)
	assert.Contains(t, followUps[1].Content, "unknown tool")
	assert.Equal(t, "still works", followUps[2].Content)
}
