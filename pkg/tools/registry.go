package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/harun/stargent/internal/observability"
	"github.com/harun/stargent/pkg/llm"
	"github.com/rs/zerolog/log"
	"github.com/xeipuuv/gojsonschema"
)

// Parameter defines a parameter for a tool
type Parameter struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description"`
	Required    bool   `json:"required"`
}

// Handler is the function signature for tool execution
type Handler func(ctx context.Context, args map[string]any) (any, error)

// Definition defines a tool's metadata and handler
type Definition struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Parameters  []Parameter `json:"parameters"`
	Handler     Handler     `json:"-"`
}

// Result represents the outcome of one tool execution
type Result struct {
	Success bool   `json:"success"`
	Output  string `json:"output,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Registry maps tool names to executable capabilities. The declared
// parameter schema is surfaced both to the model (as the tool
// declaration) and to argument validation before dispatch.
type Registry struct {
	defs    map[string]*Definition
	schemas map[string]*gojsonschema.Schema
	mu      sync.RWMutex
}

// NewRegistry creates an empty tool registry
func NewRegistry() *Registry {
	return &Registry{
		defs:    make(map[string]*Definition),
		schemas: make(map[string]*gojsonschema.Schema),
	}
}

// Register adds a tool to the registry
func (r *Registry) Register(def Definition) error {
	if err := validateDefinition(def); err != nil {
		return fmt.Errorf("invalid tool definition: %w", err)
	}

	schemaDoc := schemaObject(def.Parameters)
	raw, err := json.Marshal(schemaDoc)
	if err != nil {
		return fmt.Errorf("failed to marshal schema: %w", err)
	}
	schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return fmt.Errorf("failed to compile schema: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.defs[def.Name]; exists {
		return fmt.Errorf("tool already registered: %s", def.Name)
	}

	r.defs[def.Name] = &def
	r.schemas[def.Name] = schema

	log.Info().Str("tool", def.Name).Msg("Tool registered")

	return nil
}

// Get returns a tool definition by name, or nil when absent
func (r *Registry) Get(name string) *Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.defs[name]
}

// Names returns all registered tool names, sorted
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.defs))
	for name := range r.defs {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}

// Schemas returns model-facing tool declarations for the named subset.
// Unknown names are skipped; an agent with no known tools gets nil.
func (r *Registry) Schemas(names ...string) []llm.ToolSchema {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var schemas []llm.ToolSchema
	for _, name := range names {
		def, ok := r.defs[name]
		if !ok {
			continue
		}
		schemas = append(schemas, llm.ToolSchema{
			Name:        def.Name,
			Description: def.Description,
			Parameters:  schemaObject(def.Parameters),
		})
	}

	return schemas
}

// Execute validates the arguments against the declared schema and runs
// the handler. Faults, including handler panics, are captured into the
// Result; Execute itself never raises.
func (r *Registry) Execute(ctx context.Context, name string, args map[string]any) (result Result) {
	start := time.Now()

	defer func() {
		if rec := recover(); rec != nil {
			result = Result{Success: false, Error: fmt.Sprintf("tool %s panicked: %v", name, rec)}
		}
		observability.RecordToolExecution(name, time.Since(start), result.Success)
	}()

	r.mu.RLock()
	def := r.defs[name]
	schema := r.schemas[name]
	r.mu.RUnlock()

	if def == nil {
		return Result{Success: false, Error: fmt.Sprintf("unknown tool '%s'", name)}
	}

	if args == nil {
		args = map[string]any{}
	}

	validation, err := schema.Validate(gojsonschema.NewGoLoader(args))
	if err != nil {
		return Result{Success: false, Error: fmt.Sprintf("argument validation failed for %s: %v", name, err)}
	}
	if !validation.Valid() {
		details := make([]string, 0, len(validation.Errors()))
		for _, desc := range validation.Errors() {
			details = append(details, desc.String())
		}
		return Result{Success: false, Error: fmt.Sprintf("invalid arguments for %s: %s", name, strings.Join(details, "; "))}
	}

	output, err := def.Handler(ctx, args)
	if err != nil {
		log.Warn().Str("tool", name).Err(err).Msg("Tool execution failed")
		return Result{Success: false, Error: fmt.Sprintf("tool %s failed: %v", name, err)}
	}

	return Result{Success: true, Output: fmt.Sprintf("%v", output)}
}

func validateDefinition(def Definition) error {
	if def.Name == "" {
		return fmt.Errorf("tool name cannot be empty")
	}
	if def.Description == "" {
		return fmt.Errorf("tool description cannot be empty")
	}
	if def.Handler == nil {
		return fmt.Errorf("tool handler cannot be nil")
	}
	for _, param := range def.Parameters {
		if param.Name == "" {
			return fmt.Errorf("parameter name cannot be empty")
		}
		switch param.Type {
		case "string", "integer", "number", "boolean", "array", "object":
		default:
			return fmt.Errorf("unsupported parameter type %q for %s", param.Type, param.Name)
		}
	}
	return nil
}

func schemaObject(params []Parameter) map[string]any {
	properties := make(map[string]any, len(params))
	required := []string{}

	for _, param := range params {
		properties[param.Name] = map[string]any{
			"type":        param.Type,
			"description": param.Description,
		}
		if param.Required {
			required = append(required, param.Name)
		}
	}

	schema := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}

	return schema
}
