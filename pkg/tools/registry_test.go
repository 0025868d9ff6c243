package tools

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func echoDefinition() Definition {
	return Definition{
		Name:        "echo",
		Description: "Echo the input text",
		Parameters: []Parameter{
			{Name: "text", Type: "string", Description: "text to echo", Required: true},
		},
		Handler: func(ctx context.Context, args map[string]any) (any, error) {
			return args["text"], nil
		},
	}
}

func TestRegisterAndGet(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register(echoDefinition()))

	assert.NotNil(t, reg.Get("echo"))
	assert.Nil(t, reg.Get("missing"))
	assert.Equal(t, []string{"echo"}, reg.Names())
}

func TestRegisterValidation(t *testing.T) {
	reg := NewRegistry()

	tests := []struct {
		name string
		def  Definition
	}{
		{"empty name", Definition{Description: "d", Handler: func(ctx context.Context, args map[string]any) (any, error) { return nil, nil }}},
		{"empty description", Definition{Name: "t", Handler: func(ctx context.Context, args map[string]any) (any, error) { return nil, nil }}},
		{"nil handler", Definition{Name: "t", Description: "d"}},
		{"bad param type", Definition{
			Name: "t", Description: "d",
			Parameters: []Parameter{{Name: "p", Type: "float"}},
			Handler:    func(ctx context.Context, args map[string]any) (any, error) { return nil, nil },
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, reg.Register(tt.def))
		})
	}

	require.NoError(t, reg.Register(echoDefinition()))
	assert.Error(t, reg.Register(echoDefinition()), "duplicate registration must fail")
}

func TestExecute(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register(echoDefinition()))

	result := reg.Execute(context.Background(), "echo", map[string]any{"text": "hello"})
	assert.True(t, result.Success)
	assert.Equal(t, "hello", result.Output)
}

func TestExecuteUnknownTool(t *testing.T) {
	reg := NewRegistry()

	result := reg.Execute(context.Background(), "missing", nil)
	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "unknown tool")
}

func TestExecuteRejectsInvalidArguments(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register(echoDefinition()))

	// Required parameter missing
	result := reg.Execute(context.Background(), "echo", map[string]any{})
	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "invalid arguments")

	// Wrong type
	result = reg.Execute(context.Background(), "echo", map[string]any{"text": 42})
	assert.False(t, result.Success)
}

func TestExecuteCapturesHandlerFault(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register(Definition{
		Name:        "broken",
		Description: "always fails",
		Handler: func(ctx context.Context, args map[string]any) (any, error) {
			return nil, fmt.Errorf("backend offline")
		},
	}))

	result := reg.Execute(context.Background(), "broken", nil)
	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "backend offline")
}

func TestExecuteRecoversFromPanic(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register(Definition{
		Name:        "panicky",
		Description: "panics on call",
		Handler: func(ctx context.Context, args map[string]any) (any, error) {
			panic("boom")
		},
	}))

	assert.NotPanics(t, func() {
		result := reg.Execute(context.Background(), "panicky", nil)
		assert.False(t, result.Success)
		assert.Contains(t, result.Error, "panicked")
	})
}

func TestSchemasSubset(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register(echoDefinition()))

	schemas := reg.Schemas("echo", "missing")
	require.Len(t, schemas, 1)
	assert.Equal(t, "echo", schemas[0].Name)

	props, ok := schemas[0].Parameters["properties"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, props, "text")
	assert.Equal(t, []string{"text"}, schemas[0].Parameters["required"])

	assert.Nil(t, reg.Schemas("missing"))
	assert.Nil(t, reg.Schemas())
}
