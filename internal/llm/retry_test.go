package llm

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

type scriptedClient struct {
	errs  []error
	calls int
}

func (s *scriptedClient) Complete(ctx context.Context, req Request) (string, error) {
	_ = ctx
	_ = req
	i := s.calls
	s.calls++
	if i < len(s.errs) && s.errs[i] != nil {
		return "", s.errs[i]
	}
	return `{"ok":true}`, nil
}

func TestRetryOnTransientError(t *testing.T) {
	base := &scriptedClient{errs: []error{fmt.Errorf("openai http status 503: overloaded")}}
	client := retryingClient{base: base, delay: time.Millisecond}

	got, err := client.Complete(context.Background(), Request{Purpose: "decision"})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if got != `{"ok":true}` {
		t.Fatalf("unexpected response %q", got)
	}
	if base.calls != 2 {
		t.Fatalf("expected 2 calls, got %d", base.calls)
	}
}

func TestNoRetryOnPermanentError(t *testing.T) {
	base := &scriptedClient{errs: []error{fmt.Errorf("openai http status 401: bad key")}}
	client := retryingClient{base: base, delay: time.Millisecond}

	if _, err := client.Complete(context.Background(), Request{Purpose: "decision"}); err == nil {
		t.Fatalf("expected error")
	}
	if base.calls != 1 {
		t.Fatalf("expected 1 call, got %d", base.calls)
	}
}

func TestShouldRetry(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "deadline", err: context.DeadlineExceeded, want: true},
		{name: "canceled", err: context.Canceled, want: false},
		{name: "not configured", err: ErrNotConfigured, want: false},
		{name: "5xx", err: errors.New("openai http status 502: bad gateway"), want: true},
		{name: "rate limited", err: errors.New("openai http status 429: slow down"), want: true},
		{name: "reset", err: errors.New("read tcp: connection reset by peer"), want: true},
		{name: "malformed", err: ErrMalformedResponse, want: false},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			if got := ShouldRetry(tt.err); got != tt.want {
				t.Fatalf("ShouldRetry(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestPlaceholderClient(t *testing.T) {
	_, err := WithRetry(PlaceholderClient{}).Complete(context.Background(), Request{Purpose: "profile"})
	if !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

func TestWrapTransport(t *testing.T) {
	if WrapTransport(nil) != nil {
		t.Fatal("nil error should stay nil")
	}
	for _, err := range []error{ErrNotConfigured, fmt.Errorf("%w: bad", ErrMalformedResponse), context.Canceled} {
		if errors.Is(WrapTransport(err), ErrTransport) {
			t.Fatalf("%v should keep its own classification", err)
		}
	}
	wrapped := WrapTransport(errors.New("dial tcp: timeout"))
	if !errors.Is(wrapped, ErrTransport) {
		t.Fatalf("expected ErrTransport, got %v", wrapped)
	}
	if WrapTransport(wrapped) != wrapped {
		t.Fatal("already wrapped errors should not be wrapped twice")
	}
}
