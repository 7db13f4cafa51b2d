package kensa

import (
	"context"
	"testing"
)

func TestParseOptWiring(t *testing.T) {
	ctx := context.Background()
	if IsFailFast(ctx) {
		t.Fatalf("fail-fast must default off")
	}
	ctx = WithParseOpt(ctx, ParseOpt{FailFast: true})
	if !IsFailFast(ctx) {
		t.Fatalf("WithParseOpt should enable fail-fast")
	}
	// a zero ParseOpt leaves the context untouched
	ctx = WithParseOpt(context.Background(), ParseOpt{})
	if IsFailFast(ctx) {
		t.Fatalf("zero options must not enable fail-fast")
	}
	if !IsFailFast(WithFailFast(context.Background(), true)) {
		t.Fatalf("WithFailFast should mark the context")
	}
}
