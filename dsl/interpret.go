package dsl

import (
	"encoding/json"
	"math"
	"math/big"
	"sort"
	"strings"
	"time"

	kensa "github.com/reoring/kensa"
	"github.com/reoring/kensa/format"
	"github.com/reoring/kensa/internal/strmatch"
)

// parseValue validates v against the node, appending issues to vc. The bool
// result is false when the value was rejected; in that case at least one
// issue has been recorded at or below the current path.
func (s *Schema) parseValue(vc *parseCtx, v any) (any, bool) {
	switch s.kind {
	case KindString:
		str, ok := v.(string)
		if !ok {
			vc.add(kensa.CodeInvalidType, map[string]any{"expected": "string", "got": typeName(v)})
			return nil, false
		}
		return s.runStringChecks(vc, str)

	case KindNumber:
		f, ok := numberValue(v)
		if !ok {
			vc.add(kensa.CodeInvalidType, map[string]any{"expected": "number", "got": typeName(v)})
			return nil, false
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			vc.add(kensa.CodeNotFinite, nil)
			return nil, false
		}
		if !s.runNumberChecks(vc, f) {
			return nil, false
		}
		return f, true

	case KindBool:
		b, ok := v.(bool)
		if !ok {
			vc.add(kensa.CodeInvalidType, map[string]any{"expected": "boolean", "got": typeName(v)})
			return nil, false
		}
		return b, true

	case KindBigInt:
		return s.parseBigInt(vc, v)

	case KindDate:
		return s.parseDate(vc, v)

	case KindLiteral:
		if literalEqual(s.literal, v) {
			return normalizeLiteral(v), true
		}
		vc.add(kensa.CodeInvalidLiteral, map[string]any{"expected": s.literal, "got": v})
		return nil, false

	case KindEnum:
		str, ok := v.(string)
		if ok {
			for _, ev := range s.enumVals {
				if str == ev {
					return str, true
				}
			}
		}
		vc.add(kensa.CodeInvalidEnumValue, map[string]any{"options": s.enumVals, "got": v})
		return nil, false

	case KindAny, KindUnknown:
		return v, true

	case KindNever:
		vc.add(kensa.CodeInvalidType, map[string]any{"expected": "never", "got": typeName(v)})
		return nil, false

	case KindNull:
		if v == nil {
			return nil, true
		}
		vc.add(kensa.CodeInvalidType, map[string]any{"expected": "null", "got": typeName(v)})
		return nil, false

	case KindObject:
		return s.parseObject(vc, v)

	case KindArray:
		return s.parseArray(vc, v)

	case KindTuple:
		return s.parseTuple(vc, v)

	case KindRecord:
		return s.parseRecord(vc, v)

	case KindUnion:
		return s.parseUnion(vc, v)

	case KindDiscriminatedUnion:
		return s.parseDiscUnion(vc, v)

	case KindOptional, KindNullable:
		if v == nil {
			return nil, true
		}
		return s.inner.parseValue(vc, v)

	case KindDefault:
		if v == nil {
			return s.inner.parseValue(vc, s.defaultVal)
		}
		return s.inner.parseValue(vc, v)

	case KindCatch:
		mark := len(vc.issues)
		out, ok := s.inner.parseValue(vc, v)
		if ok && len(vc.issues) == mark {
			return out, true
		}
		vc.issues = vc.issues[:mark]
		return s.catchVal, true

	case KindTransform:
		out, ok := s.inner.parseValue(vc, v)
		if !ok {
			return nil, false
		}
		res, err := s.transform(out)
		if err != nil {
			vc.addMsg(kensa.CodeCustom, err.Error(), nil)
			return nil, false
		}
		return res, true

	case KindRefine:
		out, ok := s.inner.parseValue(vc, v)
		if !ok {
			return nil, false
		}
		if !s.refineFn(out) {
			vc.addMsg(kensa.CodeCustom, s.refineMsg, nil)
			return nil, false
		}
		return out, true

	case KindPipe:
		out, ok := s.inner.parseValue(vc, v)
		if !ok {
			return nil, false
		}
		return s.next.parseValue(vc, out)

	case KindReadonly:
		return s.inner.parseValue(vc, v)
	}
	vc.add(kensa.CodeInvalidType, map[string]any{"expected": s.kind.String(), "got": typeName(v)})
	return nil, false
}

// ---- strings ----

func (s *Schema) runStringChecks(vc *parseCtx, str string) (any, bool) {
	for _, c := range s.checks {
		switch c.kind {
		case chkTrim:
			str = strings.TrimSpace(str)
		case chkMin:
			if len(str) < int(c.num) {
				vc.add(kensa.CodeTooSmall, map[string]any{"minimum": int(c.num), "inclusive": true})
				return nil, false
			}
		case chkMax:
			if len(str) > int(c.num) {
				vc.add(kensa.CodeTooBig, map[string]any{"maximum": int(c.num), "inclusive": true})
				return nil, false
			}
		case chkLength:
			if len(str) != int(c.num) {
				code := kensa.CodeTooSmall
				params := map[string]any{"minimum": int(c.num), "inclusive": true}
				if len(str) > int(c.num) {
					code = kensa.CodeTooBig
					params = map[string]any{"maximum": int(c.num), "inclusive": true}
				}
				vc.add(code, params)
				return nil, false
			}
		case chkPattern:
			if !c.re.MatchString(str) {
				vc.add(kensa.CodeInvalidString, map[string]any{"format": "pattern", "pattern": c.re.String()})
				return nil, false
			}
		case chkFormat:
			if !format.Validate(c.format, []byte(str)) {
				vc.add(kensa.CodeInvalidString, map[string]any{"format": string(c.format)})
				return nil, false
			}
		case chkStartsWith:
			if !strings.HasPrefix(str, c.str) {
				vc.add(kensa.CodeInvalidString, map[string]any{"format": "starts_with", "prefix": c.str})
				return nil, false
			}
		case chkEndsWith:
			if !strings.HasSuffix(str, c.str) {
				vc.add(kensa.CodeInvalidString, map[string]any{"format": "ends_with", "suffix": c.str})
				return nil, false
			}
		case chkContains:
			if !strmatch.Contains([]byte(str), []byte(c.str)) {
				vc.add(kensa.CodeInvalidString, map[string]any{"format": "contains", "substring": c.str})
				return nil, false
			}
		}
	}
	return str, true
}

// ---- numbers ----

func (s *Schema) runNumberChecks(vc *parseCtx, f float64) bool {
	for _, c := range s.checks {
		switch c.kind {
		case chkMin:
			if f < c.num {
				vc.add(kensa.CodeTooSmall, map[string]any{"minimum": c.num, "inclusive": true})
				return false
			}
		case chkMax:
			if f > c.num {
				vc.add(kensa.CodeTooBig, map[string]any{"maximum": c.num, "inclusive": true})
				return false
			}
		case chkGt:
			if f <= c.num {
				vc.add(kensa.CodeTooSmall, map[string]any{"minimum": c.num, "inclusive": false})
				return false
			}
		case chkLt:
			if f >= c.num {
				vc.add(kensa.CodeTooBig, map[string]any{"maximum": c.num, "inclusive": false})
				return false
			}
		case chkMultipleOf:
			if c.num == 0 || math.Abs(math.Mod(f, c.num)) > 1e-9 {
				vc.add(kensa.CodeNotMultipleOf, map[string]any{"multipleOf": c.num})
				return false
			}
		case chkInt:
			if f != math.Trunc(f) {
				vc.add(kensa.CodeInvalidType, map[string]any{"expected": "integer", "got": "float"})
				return false
			}
		case chkFinite:
			// NaN and infinities were rejected on entry
		}
	}
	return true
}

// numberValue normalizes the numeric representations the decoders produce.
func numberValue(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, false
		}
		return f, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	}
	return 0, false
}

// ---- bigint / date ----

func (s *Schema) parseBigInt(vc *parseCtx, v any) (any, bool) {
	switch n := v.(type) {
	case *big.Int:
		return n, true
	case json.Number:
		i := new(big.Int)
		if _, ok := i.SetString(n.String(), 10); ok {
			return i, true
		}
	case int:
		return big.NewInt(int64(n)), true
	case int64:
		return big.NewInt(n), true
	}
	vc.add(kensa.CodeInvalidType, map[string]any{"expected": "bigint", "got": typeName(v)})
	return nil, false
}

func (s *Schema) parseDate(vc *parseCtx, v any) (any, bool) {
	switch d := v.(type) {
	case time.Time:
		return d, true
	case string:
		if t, err := time.Parse(time.RFC3339, d); err == nil {
			return t, true
		}
		if t, err := time.Parse("2006-01-02", d); err == nil {
			return t, true
		}
		vc.add(kensa.CodeInvalidDate, map[string]any{"got": d})
		return nil, false
	}
	vc.add(kensa.CodeInvalidType, map[string]any{"expected": "date", "got": typeName(v)})
	return nil, false
}

// ---- composites ----

func (s *Schema) parseObject(vc *parseCtx, v any) (any, bool) {
	m, ok := v.(map[string]any)
	if !ok {
		vc.add(kensa.CodeInvalidType, map[string]any{"expected": "object", "got": typeName(v)})
		return nil, false
	}
	out := make(map[string]any, len(s.fields))
	valid := true
	for _, f := range s.fields {
		val, present := m[f.Name]
		if !present {
			if !s.parseMissing(vc, f, out) {
				valid = false
				if vc.failFast {
					return nil, false
				}
			}
			continue
		}
		vc.push(f.Name)
		got, ok := f.Schema.parseValue(vc, val)
		vc.pop()
		if !ok {
			valid = false
			if vc.failFast {
				return nil, false
			}
			continue
		}
		out[f.Name] = got
	}
	switch s.policy {
	case kensa.UnknownStrict:
		var unknown []string
		for k := range m {
			if _, declared := s.index[k]; !declared {
				unknown = append(unknown, k)
			}
		}
		if len(unknown) > 0 {
			sort.Strings(unknown)
			for _, k := range unknown {
				vc.push(k)
				vc.add(kensa.CodeUnrecognizedKeys, map[string]any{"key": k})
				vc.pop()
				if vc.failFast {
					return nil, false
				}
			}
			valid = false
		}
	case kensa.UnknownPassthrough:
		for k, val := range m {
			if _, declared := s.index[k]; !declared {
				out[k] = val
			}
		}
	}
	if !valid {
		return nil, false
	}
	return out, true
}

// parseMissing resolves an absent field by walking the modifier chain:
// Default substitutes, Optional skips, anything else is a required-field
// violation.
func (s *Schema) parseMissing(vc *parseCtx, f Field, out map[string]any) bool {
	fs := f.Schema
	for fs != nil {
		switch fs.kind {
		case KindDefault:
			vc.push(f.Name)
			got, ok := fs.inner.parseValue(vc, fs.defaultVal)
			vc.pop()
			if !ok {
				return false
			}
			out[f.Name] = got
			return true
		case KindOptional:
			return true
		case KindCatch:
			out[f.Name] = fs.catchVal
			return true
		case KindNullable, KindTransform, KindRefine, KindReadonly, KindPipe:
			fs = fs.inner
		default:
			vc.push(f.Name)
			vc.add(kensa.CodeInvalidType, map[string]any{"expected": fs.kind.String(), "got": "undefined"})
			vc.pop()
			return false
		}
	}
	return true
}

func (s *Schema) parseArray(vc *parseCtx, v any) (any, bool) {
	arr, ok := v.([]any)
	if !ok {
		vc.add(kensa.CodeInvalidType, map[string]any{"expected": "array", "got": typeName(v)})
		return nil, false
	}
	if !s.runSizeChecks(vc, len(arr)) {
		return nil, false
	}
	out := make([]any, len(arr))
	valid := true
	for i, el := range arr {
		vc.push(i)
		got, ok := s.elem.parseValue(vc, el)
		vc.pop()
		if !ok {
			valid = false
			if vc.failFast {
				return nil, false
			}
			continue
		}
		out[i] = got
	}
	if !valid {
		return nil, false
	}
	return out, true
}

func (s *Schema) runSizeChecks(vc *parseCtx, n int) bool {
	for _, c := range s.checks {
		switch c.kind {
		case chkMin:
			if n < int(c.num) {
				vc.add(kensa.CodeTooSmall, map[string]any{"minimum": int(c.num), "inclusive": true})
				return false
			}
		case chkMax:
			if n > int(c.num) {
				vc.add(kensa.CodeTooBig, map[string]any{"maximum": int(c.num), "inclusive": true})
				return false
			}
		case chkLength:
			if n != int(c.num) {
				code := kensa.CodeTooSmall
				params := map[string]any{"minimum": int(c.num), "inclusive": true}
				if n > int(c.num) {
					code = kensa.CodeTooBig
					params = map[string]any{"maximum": int(c.num), "inclusive": true}
				}
				vc.add(code, params)
				return false
			}
		}
	}
	return true
}

func (s *Schema) parseTuple(vc *parseCtx, v any) (any, bool) {
	arr, ok := v.([]any)
	if !ok {
		vc.add(kensa.CodeInvalidType, map[string]any{"expected": "tuple", "got": typeName(v)})
		return nil, false
	}
	if len(arr) < len(s.items) {
		vc.add(kensa.CodeTooSmall, map[string]any{"minimum": len(s.items), "inclusive": true})
		return nil, false
	}
	if s.rest == nil && len(arr) > len(s.items) {
		vc.add(kensa.CodeTooBig, map[string]any{"maximum": len(s.items), "inclusive": true})
		return nil, false
	}
	out := make([]any, len(arr))
	valid := true
	for i, el := range arr {
		es := s.rest
		if i < len(s.items) {
			es = s.items[i]
		}
		vc.push(i)
		got, ok := es.parseValue(vc, el)
		vc.pop()
		if !ok {
			valid = false
			if vc.failFast {
				return nil, false
			}
			continue
		}
		out[i] = got
	}
	if !valid {
		return nil, false
	}
	return out, true
}

func (s *Schema) parseRecord(vc *parseCtx, v any) (any, bool) {
	m, ok := v.(map[string]any)
	if !ok {
		vc.add(kensa.CodeInvalidType, map[string]any{"expected": "record", "got": typeName(v)})
		return nil, false
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make(map[string]any, len(m))
	valid := true
	for _, k := range keys {
		vc.push(k)
		if _, ok := s.key.parseValue(vc, k); !ok {
			vc.pop()
			valid = false
			if vc.failFast {
				return nil, false
			}
			continue
		}
		got, ok := s.elem.parseValue(vc, m[k])
		vc.pop()
		if !ok {
			valid = false
			if vc.failFast {
				return nil, false
			}
			continue
		}
		out[k] = got
	}
	if !valid {
		return nil, false
	}
	return out, true
}

func (s *Schema) parseUnion(vc *parseCtx, v any) (any, bool) {
	mark := len(vc.issues)
	for _, opt := range s.options {
		out, ok := opt.parseValue(vc, v)
		if ok && len(vc.issues) == mark {
			return out, true
		}
		vc.issues = vc.issues[:mark]
	}
	vc.add(kensa.CodeInvalidUnion, map[string]any{"options": len(s.options)})
	return nil, false
}

func (s *Schema) parseDiscUnion(vc *parseCtx, v any) (any, bool) {
	m, ok := v.(map[string]any)
	if !ok {
		vc.add(kensa.CodeInvalidType, map[string]any{"expected": "object", "got": typeName(v)})
		return nil, false
	}
	tag, present := m[s.discKey]
	if present {
		if opt, hit := s.disc[normalizeLiteral(tag)]; hit {
			return opt.parseValue(vc, v)
		}
	}
	vc.push(s.discKey)
	vc.add(kensa.CodeInvalidDiscriminator, map[string]any{"key": s.discKey, "got": tag})
	vc.pop()
	return nil, false
}

// ---- literals ----

// normalizeLiteral folds the numeric spellings so Literal(3) matches a
// json.Number("3") input. Non-comparable values normalize to a sentinel that
// never matches.
func normalizeLiteral(v any) any {
	if f, ok := numberValue(v); ok {
		return f
	}
	switch v.(type) {
	case string, bool, nil:
		return v
	}
	return struct{}{}
}

func literalEqual(want, got any) bool {
	nw := normalizeLiteral(want)
	if _, bad := nw.(struct{}); bad {
		return false
	}
	return nw == normalizeLiteral(got)
}

func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "boolean"
	case float64, float32, int, int64, json.Number:
		return "number"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	case time.Time:
		return "date"
	case *big.Int:
		return "bigint"
	}
	return "unknown"
}
