package telemetry

import (
	"errors"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestInfoWritesFields(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	SetLogger(zap.New(core))
	t.Cleanup(func() { SetLogger(zap.NewNop()) })

	Info("assessment.complete", map[string]any{"unified_score": 712, "error": errors.New("boom")})

	entries := logs.FilterMessage("assessment.complete").All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	ctx := entries[0].ContextMap()
	if ctx["unified_score"] != int64(712) {
		t.Fatalf("expected unified_score=712, got %v", ctx["unified_score"])
	}
	if ctx["error"] != "boom" {
		t.Fatalf("expected error field boom, got %v", ctx["error"])
	}
}

func TestParseLevel(t *testing.T) {
	if parseLevel("debug") != zap.DebugLevel {
		t.Fatalf("expected debug level")
	}
	if parseLevel("nope") != zap.InfoLevel {
		t.Fatalf("expected info fallback")
	}
}
