package dsl

import (
	"context"
	"reflect"
	"testing"

	kensa "github.com/reoring/kensa"
)

// interpretOnly runs the interpreter directly, bypassing the compiled path.
func interpretOnly(s *Schema, v any) kensa.Result {
	vc := acquireCtx(false)
	defer releaseCtx(vc)
	out, ok := s.parseValue(vc, v)
	if !ok || len(vc.issues) > 0 {
		return kensa.Result{Issues: append(kensa.Issues(nil), vc.issues...)}
	}
	return kensa.Result{OK: true, Value: out}
}

func compilableSchema() *Schema {
	return Object(
		F("id", String().UUID()),
		F("name", String().Min(1).Max(64)),
		F("age", Number().Min(0).Max(150).Int()),
		F("active", Bool()),
		F("role", Enum("admin", "user")),
		F("kind", Literal("account")),
		F("tags", Array(String()).Max(8)),
		F("score", Number().Optional()),
		F("meta", Object(F("v", Number()))),
	)
}

func TestCompiledObjectIsSpecialized(t *testing.T) {
	s := compilableSchema()
	if s.compiledFn() == nil {
		t.Fatalf("shape should compile")
	}
	// non-strip policies stay on the interpreter
	if compilableSchema().Strict().compiledFn() != nil {
		t.Fatalf("strict objects must not compile")
	}
	// unsupported members abort the whole object
	refined := Object(F("x", Number().Refine(func(any) bool { return true }, "")))
	if refined.compiledFn() != nil {
		t.Fatalf("refined members must not compile")
	}
	withDefault := Object(F("x", Number().Default(1)))
	if withDefault.compiledFn() != nil {
		t.Fatalf("defaulted members must not compile")
	}
}

func TestCompiledMatchesInterpreter(t *testing.T) {
	s := compilableSchema()
	fn := s.compiledFn()
	if fn == nil {
		t.Fatalf("shape should compile")
	}
	valid := map[string]any{
		"id":      "123e4567-e89b-12d3-a456-426614174000",
		"name":    "alice",
		"age":     30.0,
		"active":  true,
		"role":    "admin",
		"kind":    "account",
		"tags":    []any{"a", "b"},
		"meta":    map[string]any{"v": 1.0},
		"unknown": "stripped",
	}
	inputs := []any{
		valid,
		withKey(valid, "score", 0.5),
		withKey(valid, "score", nil),
		withKey(valid, "id", "not-a-uuid"),
		withKey(valid, "age", 30.5),
		withKey(valid, "role", "root"),
		withKey(valid, "kind", "other"),
		withKey(valid, "tags", []any{"a", 1.0}),
		withKey(valid, "meta", map[string]any{}),
		withoutKey(valid, "name"),
		"not an object",
		nil,
	}
	for i, in := range inputs {
		want := interpretOnly(s, in)
		out, ok := fn(in)
		if ok != want.OK {
			t.Fatalf("input %d: compiled verdict %v, interpreter %v", i, ok, want.OK)
		}
		if ok && !reflect.DeepEqual(out, want.Value) {
			t.Fatalf("input %d: compiled value %v, interpreter %v", i, out, want.Value)
		}
	}
}

func TestCompiledStackedBoundsMatchInterpreter(t *testing.T) {
	cases := []struct {
		name   string
		schema *Schema
		inputs []any
	}{
		{
			name:   "gt then looser min",
			schema: Object(F("n", Number().Gt(5).Min(3))),
			inputs: []any{4.0, 5.0, 5.5, 3.0, 2.0},
		},
		{
			name:   "min then looser min",
			schema: Object(F("s", String().Min(5).Min(3))),
			inputs: []any{"abcd", "ab", "abcde"},
		},
		{
			name:   "exclusive wins at an equal bound",
			schema: Object(F("n", Number().Min(5).Gt(5))),
			inputs: []any{5.0, 5.1, 4.9},
		},
		{
			name:   "lt then looser max",
			schema: Object(F("n", Number().Lt(10).Max(20))),
			inputs: []any{15.0, 10.0, 9.9, 21.0},
		},
		{
			name:   "max then looser max",
			schema: Object(F("s", String().Max(3).Max(10))),
			inputs: []any{"abcd", "abc", "abcdefghijk"},
		},
		{
			name:   "length inside wider bounds",
			schema: Object(F("s", String().Min(1).Length(4).Max(10))),
			inputs: []any{"abcd", "ab", "abcdef"},
		},
		{
			name:   "array min then looser min",
			schema: Object(F("a", Array(Number()).Min(2).Min(1))),
			inputs: []any{[]any{1.0}, []any{1.0, 2.0}, []any{}},
		},
	}
	for _, c := range cases {
		fn := c.schema.compiledFn()
		if fn == nil {
			t.Fatalf("%s: shape should compile", c.name)
		}
		key := c.schema.fields[0].Name
		for _, in := range c.inputs {
			item := map[string]any{key: in}
			want := interpretOnly(c.schema, item)
			_, ok := fn(item)
			if ok != want.OK {
				t.Fatalf("%s: input %v: compiled verdict %v, interpreter %v", c.name, in, ok, want.OK)
			}
			if got := c.schema.SafeParse(context.Background(), item); got.OK != want.OK {
				t.Fatalf("%s: input %v: SafeParse verdict %v, interpreter %v", c.name, in, got.OK, want.OK)
			}
		}
	}
}

func TestBatchWideObjectStackedBounds(t *testing.T) {
	s := Object(
		F("a", Number().Gt(5).Min(3)),
		F("b", String().Min(5).Min(3)),
		F("c", Number()),
		F("d", String()),
		F("e", Bool()),
	)
	if _, _, ok := s.wideShape(); !ok {
		t.Fatalf("shape should take the wide-object path")
	}
	good := map[string]any{"a": 6.0, "b": "abcde", "c": 0.0, "d": "", "e": true}
	items := []any{
		good,
		withKey(good, "a", 4.0),    // inside the loose bound, outside the tight one
		withKey(good, "b", "abcd"), // same, for the string field
		withKey(good, "a", 5.0),    // exclusive boundary
	}
	checkBatchAgainstSequential(t, s, items)
	ctx := context.Background()
	for _, i := range []int{1, 2, 3} {
		if s.SafeParse(ctx, items[i]).OK {
			t.Fatalf("item %d should be invalid", i)
		}
	}
}

func TestCompiledRejectionRecoversDiagnostics(t *testing.T) {
	s := compilableSchema()
	r := s.SafeParse(context.Background(), map[string]any{
		"id":     "bad",
		"name":   "a",
		"age":    1.0,
		"active": true,
		"role":   "user",
		"kind":   "account",
		"tags":   []any{},
		"meta":   map[string]any{"v": 0.0},
	})
	if r.OK {
		t.Fatalf("unexpectedly valid")
	}
	if r.Issues[0].Path.Pointer() != "/id" || r.Issues[0].Code != kensa.CodeInvalidString {
		t.Fatalf("issue = %+v", r.Issues[0])
	}
}

func TestCompilationIsMemoized(t *testing.T) {
	s := compilableSchema()
	first := s.compiledFn()
	second := s.compiledFn()
	if first == nil || second == nil {
		t.Fatalf("shape should compile")
	}
	if s.compiled.Load() == nil {
		t.Fatalf("compilation result should be memoized")
	}
}

func withKey(m map[string]any, k string, v any) map[string]any {
	out := make(map[string]any, len(m)+1)
	for kk, vv := range m {
		out[kk] = vv
	}
	out[k] = v
	return out
}

func withoutKey(m map[string]any, k string) map[string]any {
	out := make(map[string]any, len(m))
	for kk, vv := range m {
		if kk != k {
			out[kk] = vv
		}
	}
	return out
}
