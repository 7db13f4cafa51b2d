package dsl

import (
	"errors"
	"fmt"
)

// Union accepts a value conforming to any of the options, tried in order.
// The first accepting option wins; when all reject, the union reports one
// aggregate issue rather than the per-option noise.
func Union(options ...*Schema) *Schema {
	if len(options) == 0 {
		panic("dsl: Union needs at least one option")
	}
	return &Schema{kind: KindUnion, options: append([]*Schema(nil), options...)}
}

// DiscriminatedUnion dispatches on the literal value of key: every option
// must be an object schema declaring key as a Literal field, and the literal
// values must be distinct. Dispatch is a single map lookup instead of a
// linear trial.
func DiscriminatedUnion(key string, options ...*Schema) (*Schema, error) {
	if len(options) == 0 {
		return nil, errors.New("dsl: discriminated union needs at least one option")
	}
	disc := make(map[any]*Schema, len(options))
	for i, opt := range options {
		lit, err := discriminatorLiteral(opt, key)
		if err != nil {
			return nil, fmt.Errorf("dsl: option %d: %w", i, err)
		}
		if _, dup := disc[lit]; dup {
			return nil, fmt.Errorf("dsl: option %d: duplicate discriminator value %v", i, lit)
		}
		disc[lit] = opt
	}
	return &Schema{
		kind:    KindDiscriminatedUnion,
		options: append([]*Schema(nil), options...),
		discKey: key,
		disc:    disc,
	}, nil
}

// MustDiscriminatedUnion is DiscriminatedUnion that panics on a malformed
// option set. Use it for schemas built at package init.
func MustDiscriminatedUnion(key string, options ...*Schema) *Schema {
	s, err := DiscriminatedUnion(key, options...)
	if err != nil {
		panic(err)
	}
	return s
}

func discriminatorLiteral(opt *Schema, key string) (any, error) {
	if opt == nil {
		return nil, errors.New("nil option schema")
	}
	if opt.kind != KindObject {
		return nil, fmt.Errorf("option is %s, want object", opt.kind)
	}
	i, ok := opt.index[key]
	if !ok {
		return nil, fmt.Errorf("option lacks discriminator field %q", key)
	}
	fs := opt.fields[i].Schema
	for fs != nil && fs.kind != KindLiteral {
		switch fs.kind {
		case KindReadonly, KindRefine, KindTransform:
			fs = fs.inner
		default:
			fs = nil
		}
	}
	if fs == nil {
		return nil, fmt.Errorf("discriminator field %q is not a literal", key)
	}
	return normalizeLiteral(fs.literal), nil
}
