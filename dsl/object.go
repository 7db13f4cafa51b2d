package dsl

import (
	"fmt"

	kensa "github.com/reoring/kensa"
	"github.com/reoring/kensa/internal/slots"
)

// Object constructs an object schema over the declared fields. Fields
// validate in declaration order; unknown keys follow the node's policy,
// which defaults to stripping.
func Object(fields ...Field) *Schema {
	s := &Schema{
		kind:   KindObject,
		fields: append([]Field(nil), fields...),
		index:  make(map[string]int, len(fields)),
		policy: kensa.UnknownStrip,
	}
	names := make([]string, len(fields))
	var required []string
	for i, f := range fields {
		if f.Schema == nil {
			panic(fmt.Sprintf("dsl: object field %q has nil schema", f.Name))
		}
		if _, dup := s.index[f.Name]; dup {
			panic(fmt.Sprintf("dsl: duplicate object field %q", f.Name))
		}
		s.index[f.Name] = i
		names[i] = f.Name
		if fieldRequired(f.Schema) {
			required = append(required, f.Name)
		}
	}
	s.slots = slots.Build(names, required)
	return s
}

// fieldRequired reports whether a missing value is an error for the field:
// true unless an Optional, Default, or Catch wrapper appears in the modifier
// chain.
func fieldRequired(s *Schema) bool {
	for s != nil {
		switch s.kind {
		case KindOptional, KindDefault, KindCatch:
			return false
		case KindNullable, KindTransform, KindRefine, KindReadonly, KindPipe:
			s = s.inner
		default:
			return true
		}
	}
	return true
}

func (s *Schema) withPolicy(p kensa.UnknownPolicy) *Schema {
	if s.kind != KindObject {
		panic("dsl: unknown-key policy applies to object schemas only")
	}
	if s.policy == p {
		return s
	}
	n := s.clone()
	n.policy = p
	return n
}

// Strip drops unknown keys from the output. This is the default policy.
func (s *Schema) Strip() *Schema { return s.withPolicy(kensa.UnknownStrip) }

// Strict rejects unknown keys with one issue per key.
func (s *Schema) Strict() *Schema { return s.withPolicy(kensa.UnknownStrict) }

// Passthrough copies unknown keys into the output verbatim.
func (s *Schema) Passthrough() *Schema { return s.withPolicy(kensa.UnknownPassthrough) }

// Extend returns an object schema with additional fields appended. A field
// whose name collides with an existing one replaces it in place.
func (s *Schema) Extend(fields ...Field) *Schema {
	if s.kind != KindObject {
		panic("dsl: Extend applies to object schemas only")
	}
	merged := append([]Field(nil), s.fields...)
	for _, f := range fields {
		if i, ok := s.index[f.Name]; ok {
			merged[i] = f
			continue
		}
		merged = append(merged, f)
	}
	n := Object(merged...)
	n.policy = s.policy
	return n
}

// Pick returns an object schema keeping only the named fields.
func (s *Schema) Pick(names ...string) *Schema {
	if s.kind != KindObject {
		panic("dsl: Pick applies to object schemas only")
	}
	keep := make(map[string]bool, len(names))
	for _, n := range names {
		keep[n] = true
	}
	var fields []Field
	for _, f := range s.fields {
		if keep[f.Name] {
			fields = append(fields, f)
		}
	}
	n := Object(fields...)
	n.policy = s.policy
	return n
}

// Omit returns an object schema without the named fields.
func (s *Schema) Omit(names ...string) *Schema {
	if s.kind != KindObject {
		panic("dsl: Omit applies to object schemas only")
	}
	drop := make(map[string]bool, len(names))
	for _, n := range names {
		drop[n] = true
	}
	var fields []Field
	for _, f := range s.fields {
		if !drop[f.Name] {
			fields = append(fields, f)
		}
	}
	n := Object(fields...)
	n.policy = s.policy
	return n
}

// Partial returns an object schema with every field made optional.
func (s *Schema) Partial() *Schema {
	if s.kind != KindObject {
		panic("dsl: Partial applies to object schemas only")
	}
	fields := make([]Field, len(s.fields))
	for i, f := range s.fields {
		if fieldRequired(f.Schema) {
			fields[i] = Field{Name: f.Name, Schema: f.Schema.Optional()}
		} else {
			fields[i] = f
		}
	}
	n := Object(fields...)
	n.policy = s.policy
	return n
}
