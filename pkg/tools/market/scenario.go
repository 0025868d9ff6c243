package market

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/harun/stargent/pkg/llm"
)

// Scenario is one simulated market outcome
type Scenario struct {
	Name        string `json:"name"`
	Outlook     string `json:"outlook"`
	Probability string `json:"probability"`
}

const scenarioPrompt = `You are a market scenario simulator. Given a topic,
produce exactly three plausible scenarios: optimistic, neutral, and
pessimistic. Respond with JSON only, in this exact shape:
{"scenarios": [{"name": "...", "outlook": "...", "probability": "..."}]}`

// ScenarioCaller is the gateway surface the generator depends on
type ScenarioCaller interface {
	Call(ctx context.Context, req llm.ChatRequest) (*llm.ChatResponse, error)
}

// ScenarioGenerator produces structured scenarios through the model,
// degrading to a fixed set when the model is unavailable or its answer
// cannot be decoded.
type ScenarioGenerator struct {
	gateway ScenarioCaller
	model   string
	logger  zerolog.Logger
}

// NewScenarioGenerator creates a generator over the given gateway
func NewScenarioGenerator(gateway ScenarioCaller, model string, logger zerolog.Logger) *ScenarioGenerator {
	return &ScenarioGenerator{
		gateway: gateway,
		model:   model,
		logger:  logger.With().Str("component", "scenarios").Logger(),
	}
}

// Generate returns three scenarios for the topic. It never fails; the
// worst case is the fixed fallback set.
func (g *ScenarioGenerator) Generate(ctx context.Context, topic string) []Scenario {
	if g.gateway == nil {
		return fallbackScenarios(topic)
	}

	response, err := g.gateway.Call(ctx, llm.ChatRequest{
		Model: g.model,
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: scenarioPrompt},
			{Role: llm.RoleUser, Content: topic},
		},
		Temperature:  0.8,
		MaxTokens:    1500,
		JSONResponse: true,
	})
	if err != nil {
		g.logger.Warn().Err(err).Msg("Scenario model call failed, using fallback scenarios")
		return fallbackScenarios(topic)
	}

	var envelope struct {
		Scenarios []Scenario `json:"scenarios"`
	}
	if err := json.Unmarshal([]byte(response.Content), &envelope); err != nil || len(envelope.Scenarios) == 0 {
		g.logger.Warn().Msg("Scenario response was not decodable, using fallback scenarios")
		return fallbackScenarios(topic)
	}

	return envelope.Scenarios
}

// fallbackScenarios is the fixed answer when the model cannot help
func fallbackScenarios(topic string) []Scenario {
	subject := strings.TrimSpace(topic)
	if subject == "" {
		subject = "the market"
	}
	return []Scenario{
		{
			Name:        "optimistic",
			Outlook:     fmt.Sprintf("Conditions around %s improve and sentiment recovers faster than expected.", subject),
			Probability: "low",
		},
		{
			Name:        "neutral",
			Outlook:     fmt.Sprintf("%s moves sideways while participants wait for clearer signals.", subject),
			Probability: "high",
		},
		{
			Name:        "pessimistic",
			Outlook:     fmt.Sprintf("Pressure on %s builds and volatility stays elevated.", subject),
			Probability: "medium",
		},
	}
}
