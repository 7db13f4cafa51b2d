// Package kensa is a structured-data validation engine. Schemas are built
// once from composable combinators (see the dsl subpackage), then applied to
// arbitrary untyped input to produce either a validated value or an ordered
// set of Issues.
//
// The hot path is batch validation: object schemas are specialized into
// per-shape validators ahead of time, large batches dispatch through shape
// aware strategies, and expensive string-format checks can cross into a
// native module (see the format subpackage). The Hybrid dispatcher samples a
// batch to decide between the managed path and the native path.
package kensa
