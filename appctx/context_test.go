package appctx

import (
	"context"
	"testing"
)

func TestCorrelationAndTerminalIds(t *testing.T) {
	ctx := context.Background()
	if _, ok := CorrelationId(ctx); ok {
		t.Fatalf("empty context must not carry a correlation id")
	}
	if _, ok := CorrelationId(WithCorrelationId(ctx, "")); ok {
		t.Fatalf("blank correlation id must read as absent")
	}

	ctx = WithTerminalId(WithCorrelationId(ctx, "c-1"), "till-2")
	if id, ok := CorrelationId(ctx); !ok || id != "c-1" {
		t.Fatalf("expected c-1, got %q", id)
	}
	if id, ok := TerminalId(ctx); !ok || id != "till-2" {
		t.Fatalf("expected till-2, got %q", id)
	}
	if _, ok := GetString(Set(ctx, ContextKeyTerminalId, 7), ContextKeyTerminalId); ok {
		t.Fatalf("non-string values must read as absent")
	}
}
