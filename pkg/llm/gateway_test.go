package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/openai/openai-go"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedClient fails a fixed number of times before succeeding
type scriptedClient struct {
	failures int
	calls    int
	response *ChatResponse
	err      error
}

func (c *scriptedClient) Complete(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	c.calls++
	if c.calls <= c.failures {
		if c.err != nil {
			return nil, c.err
		}
		return nil, fmt.Errorf("connection refused")
	}
	if c.response != nil {
		return c.response, nil
	}
	return &ChatResponse{Content: "ok"}, nil
}

func (c *scriptedClient) Provider() string { return "scripted" }

func newTestGateway(t *testing.T, client Client, maxRetries int) *Gateway {
	t.Helper()
	gw, err := NewGateway(client, GatewayConfig{
		MaxRetries: maxRetries,
		RetryDelay: time.Millisecond,
		Logger:     zerolog.Nop(),
	})
	require.NoError(t, err)
	return gw
}

func TestGatewaySucceedsFirstAttempt(t *testing.T) {
	client := &scriptedClient{}
	gw := newTestGateway(t, client, 2)

	resp, err := gw.Call(context.Background(), ChatRequest{Model: "test"})
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Content)
	assert.Equal(t, 1, client.calls)
}

func TestGatewayRetriesThenSucceeds(t *testing.T) {
	// Fails exactly k times with max_retries >= k: success after k+1 attempts
	for k := 1; k <= 2; k++ {
		client := &scriptedClient{failures: k}
		gw := newTestGateway(t, client, 2)

		resp, err := gw.Call(context.Background(), ChatRequest{Model: "test"})
		require.NoError(t, err, "k=%d", k)
		assert.Equal(t, "ok", resp.Content)
		assert.Equal(t, k+1, client.calls, "k=%d", k)
	}
}

func TestGatewayExhaustionReturnsUnavailable(t *testing.T) {
	client := &scriptedClient{failures: 100}
	gw := newTestGateway(t, client, 2)

	resp, err := gw.Call(context.Background(), ChatRequest{Model: "test"})
	assert.Nil(t, resp)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnavailable))
	// max_retries = 2 means exactly 3 attempts
	assert.Equal(t, 3, client.calls)
}

func TestGatewayRetriesRateLimitAndRemoteErrors(t *testing.T) {
	// No failure category shortcuts to immediate failure
	for _, errMsg := range []string{"429 rate limit exceeded", "500 internal server error", "connection reset"} {
		client := &scriptedClient{failures: 1, err: errors.New(errMsg)}
		gw := newTestGateway(t, client, 2)

		_, err := gw.Call(context.Background(), ChatRequest{Model: "test"})
		require.NoError(t, err, "error %q should have been retried", errMsg)
		assert.Equal(t, 2, client.calls)
	}
}

func TestGatewayDefaults(t *testing.T) {
	// Zero retries is a valid budget, not a gap to fill in
	gw, err := NewGateway(&scriptedClient{}, GatewayConfig{Logger: zerolog.Nop()})
	require.NoError(t, err)
	assert.Equal(t, 1, gw.MaxAttempts())

	_, err = NewGateway(nil, GatewayConfig{})
	assert.Error(t, err)

	_, err = NewGateway(&scriptedClient{}, GatewayConfig{MaxRetries: -1})
	assert.Error(t, err)
}

func TestGatewayZeroRetriesSingleAttempt(t *testing.T) {
	client := &scriptedClient{failures: 100}
	gw := newTestGateway(t, client, 0)

	resp, err := gw.Call(context.Background(), ChatRequest{Model: "test"})
	assert.Nil(t, resp)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnavailable))
	// max_retries = 0 means exactly one attempt, no sleep
	assert.Equal(t, 1, client.calls)
}

// apiError builds an API error the way the SDK would after an HTTP
// round trip; Error() needs the request and response populated.
func apiError(status int) *openai.Error {
	req, _ := http.NewRequest(http.MethodPost, "https://api.openai.com/v1/chat/completions", nil)
	return &openai.Error{
		StatusCode: status,
		Request:    req,
		Response:   &http.Response{StatusCode: status},
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{"api 429", apiError(http.StatusTooManyRequests), KindRateLimit},
		{"api 429 wrapped", fmt.Errorf("call failed: %w", apiError(http.StatusTooManyRequests)), KindRateLimit},
		{"api 500", apiError(http.StatusInternalServerError), KindRemote},
		{"api error beats message match", fmt.Errorf("connection dropped mid-call: %w", apiError(http.StatusBadRequest)), KindRemote},
		{"deadline", fmt.Errorf("call failed: %w", context.DeadlineExceeded), KindTransport},
		{"net error", &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("refused")}, KindTransport},
		{"rate limit", errors.New("429 Too Many Requests"), KindRateLimit},
		{"rate limit text", errors.New("rate limit reached"), KindRateLimit},
		{"connection", errors.New("connection refused"), KindTransport},
		{"timeout", errors.New("request timeout"), KindTransport},
		{"remote", errors.New("invalid request payload"), KindRemote},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.err))
		})
	}
}
