package llm

import (
	"context"
	"errors"
	"fmt"
)

// Message is one chat turn sent to a completion model.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request is a single chat completion call.
type Request struct {
	// Purpose labels the call in logs and metrics ("profile", "bureau_score", "decision").
	Purpose     string
	Messages    []Message
	JSON        bool
	Temperature *float32
	MaxTokens   int
}

// Client abstracts chat completion providers.
type Client interface {
	Complete(ctx context.Context, req Request) (string, error)
}

var (
	// ErrNotConfigured is returned by the placeholder client.
	ErrNotConfigured = errors.New("llm provider not configured")
	// ErrMalformedResponse marks model output that is not the JSON we asked for.
	ErrMalformedResponse = errors.New("malformed AI response")
	// ErrTransport marks failures reaching the provider (network, timeouts, non-2xx).
	ErrTransport = errors.New("llm request failed")
)

// WrapTransport tags a Complete error with ErrTransport unless it already
// carries one of the more specific sentinels.
func WrapTransport(err error) error {
	if err == nil ||
		errors.Is(err, ErrTransport) ||
		errors.Is(err, ErrNotConfigured) ||
		errors.Is(err, ErrMalformedResponse) ||
		errors.Is(err, context.Canceled) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrTransport, err)
}

// PlaceholderClient is used when no provider credentials are configured.
type PlaceholderClient struct{}

// Complete returns ErrNotConfigured.
func (PlaceholderClient) Complete(ctx context.Context, req Request) (string, error) {
	_ = ctx
	_ = req
	return "", ErrNotConfigured
}

// Temperature returns a pointer for Request.Temperature.
func Temperature(v float32) *float32 {
	return &v
}

var _ Client = PlaceholderClient{}
