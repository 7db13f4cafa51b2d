package kensa

import "context"

// BatchFunc validates a batch of independent values and returns one verdict
// per input, in input order.
type BatchFunc func(ctx context.Context, items []any) []bool

// Hybrid owns two validators for the same logical schema, a managed/compiled
// path and a native-bridge batch path, and picks the cheaper one per call.
//
// A fixed-size prefix of the batch is validated through the managed path to
// estimate the invalid rate. Invalid-heavy batches go to the native path,
// which validates exhaustively without allocating per-issue diagnostics;
// everything else stays on the managed path. The sample is purely a cost
// probe: the chosen path re-validates the entire batch, sample included.
type Hybrid struct {
	managed    BatchFunc
	native     BatchFunc
	sampleSize int
	threshold  float64
}

const (
	defaultSampleSize = 200
	defaultThreshold  = 0.3
)

// HybridOption configures a Hybrid dispatcher.
type HybridOption func(*Hybrid)

// WithSampleSize overrides the prefix sample size (default 200).
func WithSampleSize(n int) HybridOption {
	return func(h *Hybrid) {
		if n > 0 {
			h.sampleSize = n
		}
	}
}

// WithThreshold overrides the invalid-rate threshold (default 0.3).
func WithThreshold(t float64) HybridOption {
	return func(h *Hybrid) {
		if t >= 0 {
			h.threshold = t
		}
	}
}

// NewHybrid builds a dispatcher over a managed and a native batch path.
// Both paths must produce identical verdicts for identical inputs.
func NewHybrid(managed, native BatchFunc, opts ...HybridOption) *Hybrid {
	h := &Hybrid{
		managed:    managed,
		native:     native,
		sampleSize: defaultSampleSize,
		threshold:  defaultThreshold,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Validate dispatches the whole batch through the selected path.
func (h *Hybrid) Validate(ctx context.Context, items []any) []bool {
	if len(items) == 0 {
		return []bool{}
	}
	n := h.sampleSize
	if n > len(items) {
		n = len(items)
	}
	sample := h.managed(ctx, items[:n])
	invalid := 0
	for _, ok := range sample {
		if !ok {
			invalid++
		}
	}
	rate := float64(invalid) / float64(n)
	if rate > h.threshold {
		return h.native(ctx, items)
	}
	return h.managed(ctx, items)
}
