// Package dsl provides the schema combinators. A schema is an immutable
// tagged node tree: every constructor and every modifier returns a new node
// wrapping its input, so subtrees can be shared across parent schemas safely.
package dsl

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	kensa "github.com/reoring/kensa"
	"github.com/reoring/kensa/internal/slots"
)

// Kind tags a schema node.
type Kind uint8

const (
	KindString Kind = iota
	KindNumber
	KindBool
	KindBigInt
	KindDate
	KindLiteral
	KindEnum
	KindAny
	KindUnknown
	KindNever
	KindNull
	KindObject
	KindArray
	KindTuple
	KindRecord
	KindUnion
	KindDiscriminatedUnion
	// modifier wrappers
	KindOptional
	KindNullable
	KindDefault
	KindCatch
	KindTransform
	KindRefine
	KindPipe
	KindReadonly
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "boolean"
	case KindBigInt:
		return "bigint"
	case KindDate:
		return "date"
	case KindLiteral:
		return "literal"
	case KindEnum:
		return "enum"
	case KindAny:
		return "any"
	case KindUnknown:
		return "unknown"
	case KindNever:
		return "never"
	case KindNull:
		return "null"
	case KindObject:
		return "object"
	case KindArray:
		return "array"
	case KindTuple:
		return "tuple"
	case KindRecord:
		return "record"
	case KindUnion:
		return "union"
	case KindDiscriminatedUnion:
		return "discriminated_union"
	case KindOptional:
		return "optional"
	case KindNullable:
		return "nullable"
	case KindDefault:
		return "default"
	case KindCatch:
		return "catch"
	case KindTransform:
		return "transform"
	case KindRefine:
		return "refine"
	case KindPipe:
		return "pipe"
	case KindReadonly:
		return "readonly"
	}
	return "invalid"
}

// Field is one declared object member. Declaration order is validation order.
type Field struct {
	Name   string
	Schema *Schema
}

// F constructs a Field for use with Object.
func F(name string, s *Schema) Field { return Field{Name: name, Schema: s} }

// Schema is one node of the combinator tree. Nodes are immutable after
// construction except for two idempotent caches: the memoized compiled
// validator and the union keyset-dispatch cache. Both are derived purely from
// the immutable shape, so racing writers always publish equivalent values.
type Schema struct {
	kind Kind

	checks []check // string/number/array checks in registration order

	literal  any
	enumVals []string

	fields []Field
	index  map[string]int
	policy kensa.UnknownPolicy
	slots  *slots.Table

	elem  *Schema   // array element / record value
	key   *Schema   // record key
	items []*Schema // tuple items
	rest  *Schema   // tuple rest

	options []*Schema
	discKey string
	disc    map[any]*Schema

	inner      *Schema // modifier target
	next       *Schema // pipe target
	defaultVal any
	catchVal   any
	transform  func(any) (any, error)
	refineFn   func(any) bool
	refineMsg  string

	compiled   atomic.Pointer[compiledState]
	unionCache sync.Map // keyset hash (uint64) -> option index (int)
}

var _ kensa.Schema = (*Schema)(nil)
var _ kensa.BatchValidator = (*Schema)(nil)

// Kind returns the node tag.
func (s *Schema) Kind() Kind { return s.kind }

// clone copies the semantic fields of a node; caches start empty on the copy.
func (s *Schema) clone() *Schema {
	c := &Schema{
		kind:       s.kind,
		literal:    s.literal,
		enumVals:   s.enumVals,
		fields:     s.fields,
		index:      s.index,
		policy:     s.policy,
		slots:      s.slots,
		elem:       s.elem,
		key:        s.key,
		items:      s.items,
		rest:       s.rest,
		options:    s.options,
		discKey:    s.discKey,
		disc:       s.disc,
		inner:      s.inner,
		next:       s.next,
		defaultVal: s.defaultVal,
		catchVal:   s.catchVal,
		transform:  s.transform,
		refineFn:   s.refineFn,
		refineMsg:  s.refineMsg,
	}
	c.checks = append([]check(nil), s.checks...)
	return c
}

func (s *Schema) withCheck(allowed []Kind, c check) *Schema {
	ok := false
	for _, k := range allowed {
		if s.kind == k {
			ok = true
			break
		}
	}
	if !ok {
		panic(fmt.Sprintf("dsl: check not applicable to %s schema", s.kind))
	}
	n := s.clone()
	n.checks = append(n.checks, c)
	return n
}

// ---- modifier wrappers ----

func wrap(kind Kind, inner *Schema) *Schema { return &Schema{kind: kind, inner: inner} }

// Optional accepts a missing (or nil) value in place of the inner schema.
func (s *Schema) Optional() *Schema { return wrap(KindOptional, s) }

// Nullable accepts nil in place of the inner schema.
func (s *Schema) Nullable() *Schema { return wrap(KindNullable, s) }

// Default substitutes v (validated through the inner schema) when the value
// is missing.
func (s *Schema) Default(v any) *Schema {
	n := wrap(KindDefault, s)
	n.defaultVal = v
	return n
}

// Catch replaces any inner validation failure with v.
func (s *Schema) Catch(v any) *Schema {
	n := wrap(KindCatch, s)
	n.catchVal = v
	return n
}

// Transform applies fn to the validated value. A fn error surfaces as a
// custom issue at the current path.
func (s *Schema) Transform(fn func(any) (any, error)) *Schema {
	n := wrap(KindTransform, s)
	n.transform = fn
	return n
}

// Refine rejects validated values for which pred is false, reporting msg as a
// custom issue.
func (s *Schema) Refine(pred func(any) bool, msg string) *Schema {
	n := wrap(KindRefine, s)
	n.refineFn = pred
	n.refineMsg = msg
	return n
}

// Pipe validates through the receiver, then feeds the result into next.
func (s *Schema) Pipe(next *Schema) *Schema {
	n := wrap(KindPipe, s)
	n.next = next
	return n
}

// Readonly marks the value as read-only in exported schemas. Go cannot freeze
// maps or slices, so the marker has no runtime effect.
func (s *Schema) Readonly() *Schema { return wrap(KindReadonly, s) }

// ---- entry points ----

// Parse validates v and returns the transformed value, or an Issues
// aggregate describing every violation.
func (s *Schema) Parse(ctx context.Context, v any) (any, error) {
	r := s.SafeParse(ctx, v)
	if !r.OK {
		return nil, r.Issues
	}
	return r.Value, nil
}

// SafeParse validates v and reports the outcome as a Result. When a compiled
// validator exists for this shape it answers the common accepting case; any
// compiled rejection re-runs the interpreter once to recover full
// path-accurate diagnostics.
func (s *Schema) SafeParse(ctx context.Context, v any) kensa.Result {
	failFast := kensa.IsFailFast(ctx)
	if !failFast {
		if fn := s.compiledFn(); fn != nil {
			if out, ok := fn(v); ok {
				return kensa.Result{OK: true, Value: out}
			}
		}
	}
	vc := acquireCtx(failFast)
	defer releaseCtx(vc)
	out, ok := s.parseValue(vc, v)
	if !ok || len(vc.issues) > 0 {
		return kensa.Result{Issues: append(kensa.Issues(nil), vc.issues...)}
	}
	return kensa.Result{OK: true, Value: out}
}
