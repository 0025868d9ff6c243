package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/harun/stargent/internal/observability"
	"github.com/rs/zerolog"
)

// GatewayConfig controls the retry discipline around model calls
type GatewayConfig struct {
	// MaxRetries is the number of retries after the first attempt.
	// Zero disables retries entirely, for a single attempt.
	MaxRetries int
	// RetryDelay is the fixed wait between attempts. Default 1s.
	RetryDelay time.Duration
	Logger     zerolog.Logger
}

// Gateway wraps a Client with bounded retries. Every failure category
// observed from the transport is retry-eligible; exhausting the budget
// yields ErrUnavailable rather than the raw fault.
type Gateway struct {
	client     Client
	maxRetries int
	retryDelay time.Duration
	logger     zerolog.Logger
}

// NewGateway creates a gateway around the given transport
func NewGateway(client Client, cfg GatewayConfig) (*Gateway, error) {
	if client == nil {
		return nil, fmt.Errorf("client is required")
	}
	if cfg.MaxRetries < 0 {
		return nil, fmt.Errorf("max retries cannot be negative")
	}

	retryDelay := cfg.RetryDelay
	if retryDelay == 0 {
		retryDelay = time.Second
	}

	return &Gateway{
		client:     client,
		maxRetries: cfg.MaxRetries,
		retryDelay: retryDelay,
		logger:     cfg.Logger,
	}, nil
}

// Call performs up to maxRetries+1 attempts with a fixed inter-attempt
// delay. On success returns the response; on exhaustion returns an error
// satisfying errors.Is(err, ErrUnavailable). No other error escapes.
func (g *Gateway) Call(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	var lastErr error

	for attempt := 0; attempt <= g.maxRetries; attempt++ {
		response, err := g.client.Complete(ctx, req)
		if err == nil {
			observability.RecordGatewayAttempt(g.client.Provider(), "success")
			return response, nil
		}

		lastErr = err
		kind := Classify(err)
		observability.RecordGatewayAttempt(g.client.Provider(), string(kind))

		if attempt == g.maxRetries {
			break
		}

		g.logger.Warn().
			Err(err).
			Str("kind", string(kind)).
			Int("attempt", attempt+1).
			Dur("delay", g.retryDelay).
			Msg("Model call failed, retrying")

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %w", ErrUnavailable, ctx.Err())
		case <-time.After(g.retryDelay):
		}
	}

	g.logger.Error().
		Err(lastErr).
		Int("attempts", g.maxRetries+1).
		Msg("Model call failed after all attempts")

	return nil, fmt.Errorf("%w: %w", ErrUnavailable, lastErr)
}

// MaxAttempts returns the total attempt budget
func (g *Gateway) MaxAttempts() int {
	return g.maxRetries + 1
}
