package llm

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"

	"github.com/openai/openai-go"
)

// ErrUnavailable is returned by the gateway once its retry budget is
// exhausted. Callers must treat it as a first-class outcome, not a fault.
var ErrUnavailable = errors.New("model unavailable")

// ErrorKind classifies a transport failure for logging and metrics.
// Every kind is retry-eligible; classification never shortcuts a retry.
type ErrorKind string

const (
	KindTransport ErrorKind = "transport"
	KindRateLimit ErrorKind = "rate_limit"
	KindRemote    ErrorKind = "remote"
)

// Classify maps a transport error onto its failure category. Typed
// errors from the SDK and the net stack decide first; message matching
// is only a fallback for opaque errors.
func Classify(err error) ErrorKind {
	if err == nil {
		return KindRemote
	}

	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		if apiErr.StatusCode == http.StatusTooManyRequests {
			return KindRateLimit
		}
		return KindRemote
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return KindTransport
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return KindTransport
	}

	msg := strings.ToLower(err.Error())

	if strings.Contains(msg, "429") || strings.Contains(msg, "rate limit") {
		return KindRateLimit
	}
	if strings.Contains(msg, "connection") || strings.Contains(msg, "timeout") ||
		strings.Contains(msg, "econnreset") || strings.Contains(msg, "etimedout") ||
		strings.Contains(msg, "no such host") {
		return KindTransport
	}
	return KindRemote
}
