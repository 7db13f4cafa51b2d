package dsl

import (
	"math"

	kensa "github.com/reoring/kensa"
	"github.com/reoring/kensa/format"
)

// compiledValidator is the specialized accept path for one schema shape: it
// returns the stripped output and true, or (nil, false) on any deviation.
// It records no issues; rejection hands the value back to the interpreter.
type compiledValidator func(v any) (any, bool)

// compiledState memoizes the compilation outcome. A nil fn means the shape
// is outside the compilable subset; the failure is memoized too so the probe
// runs once per schema.
type compiledState struct {
	fn compiledValidator
}

// compiledFn returns the memoized compiled validator, compiling on first
// use. Racing callers may both compile; the results are equivalent, so the
// last store wins harmlessly.
func (s *Schema) compiledFn() compiledValidator {
	if st := s.compiled.Load(); st != nil {
		return st.fn
	}
	st := &compiledState{fn: compileObject(s)}
	s.compiled.Store(st)
	return st.fn
}

// fieldProg is one compiled object member.
type fieldProg struct {
	name     string
	optional bool
	fn       compiledValidator
}

// compileObject specializes a strip-policy object schema into a closure that
// walks the declared fields with no interpreter dispatch. Shapes outside the
// subset (non-strip policies, Default/Catch/Transform wrappers, unions,
// records) return nil and stay on the interpreter.
func compileObject(s *Schema) compiledValidator {
	if s == nil || s.kind != KindObject || s.policy != kensa.UnknownStrip {
		return nil
	}
	progs := make([]fieldProg, 0, len(s.fields))
	for _, f := range s.fields {
		core := f.Schema
		optional := false
		for core != nil && core.kind == KindOptional {
			optional = true
			core = core.inner
		}
		fn := compileValue(core)
		if fn == nil {
			return nil
		}
		progs = append(progs, fieldProg{name: f.Name, optional: optional, fn: fn})
	}
	return func(v any) (any, bool) {
		m, ok := v.(map[string]any)
		if !ok {
			return nil, false
		}
		out := make(map[string]any, len(progs))
		for i := range progs {
			p := &progs[i]
			val, present := m[p.name]
			if !present {
				if p.optional {
					continue
				}
				return nil, false
			}
			if val == nil && p.optional {
				out[p.name] = nil
				continue
			}
			got, ok := p.fn(val)
			if !ok {
				return nil, false
			}
			out[p.name] = got
		}
		return out, true
	}
}

// compileValue specializes the leaf kinds the fast path understands.
func compileValue(s *Schema) compiledValidator {
	if s == nil {
		return nil
	}
	switch s.kind {
	case KindString:
		return compileString(s)
	case KindNumber:
		return compileNumber(s)
	case KindBool:
		if len(s.checks) != 0 {
			return nil
		}
		return func(v any) (any, bool) {
			b, ok := v.(bool)
			return b, ok
		}
	case KindLiteral:
		want := normalizeLiteral(s.literal)
		if _, bad := want.(struct{}); bad {
			return nil
		}
		return func(v any) (any, bool) {
			got := normalizeLiteral(v)
			if got != want {
				return nil, false
			}
			return got, true
		}
	case KindEnum:
		vals := s.enumVals
		return func(v any) (any, bool) {
			str, ok := v.(string)
			if !ok {
				return nil, false
			}
			for _, ev := range vals {
				if str == ev {
					return str, true
				}
			}
			return nil, false
		}
	case KindObject:
		return compileObject(s)
	case KindArray:
		return compileArray(s)
	}
	return nil
}

func compileString(s *Schema) compiledValidator {
	type bound struct {
		min, max int
		format   format.Format
		hasFmt   bool
	}
	// stacked bounds fold to the tightest one; the interpreter enforces every
	// registered check, so anything looser would diverge from it
	b := bound{min: -1, max: -1}
	for _, c := range s.checks {
		switch c.kind {
		case chkMin:
			if n := int(c.num); n > b.min {
				b.min = n
			}
		case chkMax:
			if n := int(c.num); b.max < 0 || n < b.max {
				b.max = n
			}
		case chkLength:
			if n := int(c.num); n > b.min {
				b.min = n
			}
			if n := int(c.num); b.max < 0 || n < b.max {
				b.max = n
			}
		case chkFormat:
			if b.hasFmt {
				return nil // one format per compiled field
			}
			b.format, b.hasFmt = c.format, true
		default:
			return nil
		}
	}
	return func(v any) (any, bool) {
		str, ok := v.(string)
		if !ok {
			return nil, false
		}
		if b.min >= 0 && len(str) < b.min {
			return nil, false
		}
		if b.max >= 0 && len(str) > b.max {
			return nil, false
		}
		if b.hasFmt && !format.Validate(b.format, []byte(str)) {
			return nil, false
		}
		return str, true
	}
}

func compileNumber(s *Schema) compiledValidator {
	type bound struct {
		min, max float64
		hasMin   bool
		hasMax   bool
		exclMin  bool
		exclMax  bool
		wantInt  bool
	}
	b := bound{}
	// keep the tightest of stacked bounds; at an equal bound the exclusive
	// form wins, matching the interpreter running every check
	lower := func(v float64, excl bool) {
		if !b.hasMin || v > b.min || (v == b.min && excl) {
			b.min, b.hasMin, b.exclMin = v, true, excl
		}
	}
	upper := func(v float64, excl bool) {
		if !b.hasMax || v < b.max || (v == b.max && excl) {
			b.max, b.hasMax, b.exclMax = v, true, excl
		}
	}
	for _, c := range s.checks {
		switch c.kind {
		case chkMin:
			lower(c.num, false)
		case chkGt:
			lower(c.num, true)
		case chkMax:
			upper(c.num, false)
		case chkLt:
			upper(c.num, true)
		case chkInt:
			b.wantInt = true
		case chkFinite:
			// rejected below regardless
		default:
			return nil
		}
	}
	return func(v any) (any, bool) {
		f, ok := numberValue(v)
		if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, false
		}
		if b.hasMin && (f < b.min || (b.exclMin && f == b.min)) {
			return nil, false
		}
		if b.hasMax && (f > b.max || (b.exclMax && f == b.max)) {
			return nil, false
		}
		if b.wantInt && f != math.Trunc(f) {
			return nil, false
		}
		return f, true
	}
}

// compileArray handles arrays of bare primitives: element schemas with no
// checks and no wrappers, plus array-level size bounds.
func compileArray(s *Schema) compiledValidator {
	elem := s.elem
	if elem == nil || len(elem.checks) != 0 {
		return nil
	}
	var elemTag Kind
	switch elem.kind {
	case KindString, KindNumber, KindBool:
		elemTag = elem.kind
	default:
		return nil
	}
	// stacked size bounds fold to the tightest one, like the scalar kinds
	minLen, maxLen := -1, -1
	for _, c := range s.checks {
		switch c.kind {
		case chkMin:
			if n := int(c.num); n > minLen {
				minLen = n
			}
		case chkMax:
			if n := int(c.num); maxLen < 0 || n < maxLen {
				maxLen = n
			}
		case chkLength:
			if n := int(c.num); n > minLen {
				minLen = n
			}
			if n := int(c.num); maxLen < 0 || n < maxLen {
				maxLen = n
			}
		default:
			return nil
		}
	}
	return func(v any) (any, bool) {
		arr, ok := v.([]any)
		if !ok {
			return nil, false
		}
		if minLen >= 0 && len(arr) < minLen {
			return nil, false
		}
		if maxLen >= 0 && len(arr) > maxLen {
			return nil, false
		}
		out := make([]any, len(arr))
		switch elemTag {
		case KindString:
			for i, el := range arr {
				str, ok := el.(string)
				if !ok {
					return nil, false
				}
				out[i] = str
			}
		case KindNumber:
			for i, el := range arr {
				f, ok := numberValue(el)
				if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
					return nil, false
				}
				out[i] = f
			}
		case KindBool:
			for i, el := range arr {
				b, ok := el.(bool)
				if !ok {
					return nil, false
				}
				out[i] = b
			}
		}
		return out, true
	}
}
