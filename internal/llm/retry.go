package llm

import (
	"context"
	"errors"
	"net"
	"strings"
	"time"

	"credit-backend/internal/shared/metrics"
	"credit-backend/internal/shared/telemetry"
)

const retryBaseDelay = 300 * time.Millisecond

type retryingClient struct {
	base  Client
	delay time.Duration
}

// WithRetry wraps base so that transient failures are retried once after a
// short backoff. Every attempt is counted in metrics.
func WithRetry(base Client) Client {
	if base == nil {
		return nil
	}
	return retryingClient{base: base, delay: retryBaseDelay}
}

func (r retryingClient) Complete(ctx context.Context, req Request) (string, error) {
	resp, err := r.base.Complete(ctx, req)
	observe(req.Purpose, err)
	if err == nil || !ShouldRetry(err) {
		return resp, err
	}

	telemetry.Warn("llm.retry", map[string]any{
		"attempt": 1,
		"purpose": req.Purpose,
		"error":   err.Error(),
	})
	select {
	case <-time.After(r.delay):
	case <-ctx.Done():
		return "", ctx.Err()
	}

	resp, err = r.base.Complete(ctx, req)
	observe(req.Purpose, err)
	return resp, err
}

func observe(purpose string, err error) {
	outcome := "ok"
	switch {
	case err == nil:
	case errors.Is(err, ErrNotConfigured):
		outcome = "not_configured"
	default:
		outcome = "error"
	}
	metrics.IncLLMCall(purpose, outcome)
}

// ShouldRetry reports whether err looks transient (timeouts, 5xx, dropped connections).
func ShouldRetry(err error) bool {
	if err == nil || errors.Is(err, ErrNotConfigured) || errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "http status 5") || strings.Contains(msg, "server_error") || strings.Contains(msg, "http status 429") {
		return true
	}
	if strings.Contains(msg, "timeout") && (strings.Contains(msg, "llm") || strings.Contains(msg, "client.timeout")) {
		return true
	}
	if strings.Contains(msg, "connection reset") ||
		strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "connection closed") ||
		strings.Contains(msg, "broken pipe") ||
		strings.Contains(msg, "tls handshake timeout") ||
		strings.Contains(msg, "eof") {
		return true
	}
	return false
}
