package kensa

import (
	"context"

	js "github.com/reoring/kensa/jsonschema"
)

// UnknownPolicy controls how unknown object keys are handled.
type UnknownPolicy int

const (
	UnknownStrip        UnknownPolicy = iota // Drop unknown keys.
	UnknownStrict                            // Reject unknown keys with an error.
	UnknownPassthrough                       // Copy unknown keys into the result verbatim.
)

// Result is the outcome of SafeParse. Exactly one of Value/Issues is
// meaningful: OK selects which.
type Result struct {
	OK     bool
	Value  any
	Issues Issues
}

// Schema is the uniform validation contract every node implements. Parse
// returns the (possibly transformed) value or an Issues aggregate; SafeParse
// reports the same outcome as a Result and never raises.
type Schema interface {
	Parse(ctx context.Context, v any) (any, error)
	SafeParse(ctx context.Context, v any) Result
	// JSONSchema projects the schema into a JSON Schema representation.
	JSONSchema() (*js.Schema, error)
}

// BatchValidator validates many independent values against one schema in a
// single call. Result order matches input order; each entry is the same
// accept/reject decision Parse would make for that value.
type BatchValidator interface {
	ValidateBatch(ctx context.Context, items []any) []bool
}

// ParseOpt bundles parsing options.
type ParseOpt struct {
	// FailFast stops object traversal at the first issue instead of
	// aggregating every violated field.
	FailFast bool
}

// ---- Parse-time context options (internal wiring, exported for subpackages) ----

type contextKey int

const _ctxKeyFailFast contextKey = iota

// WithParseOpt applies every option in opt to the context.
func WithParseOpt(ctx context.Context, opt ParseOpt) context.Context {
	if opt.FailFast {
		ctx = WithFailFast(ctx, true)
	}
	return ctx
}

// WithFailFast returns a child context that marks fail-fast parsing behavior.
func WithFailFast(ctx context.Context, enabled bool) context.Context {
	return context.WithValue(ctx, _ctxKeyFailFast, enabled)
}

// IsFailFast reports whether the current parse should stop on the first issue.
func IsFailFast(ctx context.Context) bool {
	v := ctx.Value(_ctxKeyFailFast)
	b, _ := v.(bool)
	return b
}

// Is reports whether v conforms to the schema s.
func Is(ctx context.Context, s Schema, v any) bool {
	return s.SafeParse(ctx, v).OK
}
