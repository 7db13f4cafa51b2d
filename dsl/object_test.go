package dsl

import (
	"context"
	"reflect"
	"testing"

	kensa "github.com/reoring/kensa"
)

func userSchema() *Schema {
	return Object(
		F("name", String().Min(1)),
		F("age", Number().Min(0)),
		F("email", String().Email().Optional()),
	)
}

func TestObjectParse(t *testing.T) {
	s := userSchema()
	out := mustParse(t, s, map[string]any{
		"name": "alice",
		"age":  30.0,
	}).(map[string]any)
	want := map[string]any{"name": "alice", "age": 30.0}
	if !reflect.DeepEqual(out, want) {
		t.Fatalf("got %v, want %v", out, want)
	}
}

func TestObjectRejectsNonObject(t *testing.T) {
	mustFail(t, userSchema(), "not an object", kensa.CodeInvalidType)
	mustFail(t, userSchema(), nil, kensa.CodeInvalidType)
}

func TestObjectMissingRequired(t *testing.T) {
	iss := mustFail(t, userSchema(), map[string]any{"name": "bob"}, "")
	if len(iss) != 1 {
		t.Fatalf("issues = %v", iss)
	}
	if iss[0].Code != kensa.CodeInvalidType || iss[0].Path.Pointer() != "/age" {
		t.Fatalf("issue = %+v", iss[0])
	}
}

func TestObjectAggregatesFieldIssues(t *testing.T) {
	iss := mustFail(t, userSchema(), map[string]any{
		"name":  "",
		"age":   -1.0,
		"email": "nope",
	}, "")
	if len(iss) != 3 {
		t.Fatalf("want 3 issues, got %v", iss)
	}
	paths := map[string]bool{}
	for _, it := range iss {
		paths[it.Path.Pointer()] = true
	}
	for _, p := range []string{"/name", "/age", "/email"} {
		if !paths[p] {
			t.Fatalf("missing issue at %s: %v", p, iss)
		}
	}
}

func TestObjectFailFast(t *testing.T) {
	ctx := kensa.WithFailFast(context.Background(), true)
	r := userSchema().SafeParse(ctx, map[string]any{
		"name": "",
		"age":  -1.0,
	})
	if r.OK {
		t.Fatalf("unexpectedly valid")
	}
	if len(r.Issues) != 1 {
		t.Fatalf("fail-fast should stop at the first issue: %v", r.Issues)
	}
}

func TestObjectUnknownPolicies(t *testing.T) {
	in := map[string]any{"name": "a", "age": 1.0, "extra": true}

	out := mustParse(t, userSchema(), in).(map[string]any)
	if _, ok := out["extra"]; ok {
		t.Fatalf("strip should drop unknown keys: %v", out)
	}

	iss := mustFail(t, userSchema().Strict(), in, kensa.CodeUnrecognizedKeys)
	if iss[0].Path.Pointer() != "/extra" {
		t.Fatalf("issue = %+v", iss[0])
	}

	out = mustParse(t, userSchema().Passthrough(), in).(map[string]any)
	if out["extra"] != true {
		t.Fatalf("passthrough should keep unknown keys: %v", out)
	}
}

func TestObjectStrictReportsEveryUnknownKey(t *testing.T) {
	s := Object(F("a", String())).Strict()
	iss := mustFail(t, s, map[string]any{"a": "x", "z": 1, "b": 2}, "")
	if len(iss) != 2 {
		t.Fatalf("want one issue per unknown key: %v", iss)
	}
	// deterministic order
	if iss[0].Path.Pointer() != "/b" || iss[1].Path.Pointer() != "/z" {
		t.Fatalf("issues = %v", iss)
	}
}

func TestObjectOptionalPresentNil(t *testing.T) {
	out := mustParse(t, userSchema(), map[string]any{
		"name":  "a",
		"age":   1.0,
		"email": nil,
	}).(map[string]any)
	v, present := out["email"]
	if !present || v != nil {
		t.Fatalf("present nil should round-trip: %v", out)
	}
}

func TestObjectDefault(t *testing.T) {
	s := Object(
		F("host", String()),
		F("port", Number().Int().Default(8080)),
	)
	out := mustParse(t, s, map[string]any{"host": "localhost"}).(map[string]any)
	if out["port"] != float64(8080) {
		t.Fatalf("got %v", out)
	}
	// provided values bypass the default
	out = mustParse(t, s, map[string]any{"host": "h", "port": 9.0}).(map[string]any)
	if out["port"] != 9.0 {
		t.Fatalf("got %v", out)
	}
}

func TestObjectCatchOnMissingField(t *testing.T) {
	s := Object(F("mode", Enum("fast", "safe").Catch("safe")))
	out := mustParse(t, s, map[string]any{}).(map[string]any)
	if out["mode"] != "safe" {
		t.Fatalf("got %v", out)
	}
}

func TestNestedObjectPaths(t *testing.T) {
	s := Object(
		F("profile", Object(
			F("contact", Object(
				F("email", String().Email()),
			)),
		)),
	)
	iss := mustFail(t, s, map[string]any{
		"profile": map[string]any{
			"contact": map[string]any{"email": "bad"},
		},
	}, kensa.CodeInvalidString)
	if iss[0].Path.Pointer() != "/profile/contact/email" {
		t.Fatalf("path = %s", iss[0].Path.Pointer())
	}
}

func TestObjectExtend(t *testing.T) {
	base := userSchema()
	s := base.Extend(F("admin", Bool()), F("age", Number().Min(18)))
	mustParse(t, s, map[string]any{"name": "a", "age": 20.0, "admin": true})
	// the replaced field enforces the new constraint
	mustFail(t, s, map[string]any{"name": "a", "age": 10.0, "admin": false}, kensa.CodeTooSmall)
	// the base schema is untouched
	mustParse(t, base, map[string]any{"name": "a", "age": 10.0})
}

func TestObjectPickOmitPartial(t *testing.T) {
	base := userSchema()

	picked := base.Pick("name")
	mustParse(t, picked, map[string]any{"name": "a"})
	if out := mustParse(t, picked, map[string]any{"name": "a", "age": 1.0}).(map[string]any); len(out) != 1 {
		t.Fatalf("got %v", out)
	}

	omitted := base.Omit("age")
	mustParse(t, omitted, map[string]any{"name": "a"})

	partial := base.Partial()
	if out := mustParse(t, partial, map[string]any{}).(map[string]any); len(out) != 0 {
		t.Fatalf("got %v", out)
	}
	mustFail(t, partial, map[string]any{"age": -5.0}, kensa.CodeTooSmall)
}

func TestObjectDuplicateFieldPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	Object(F("a", String()), F("a", Number()))
}

func TestObjectImmutableChaining(t *testing.T) {
	base := Object(F("a", String()))
	strict := base.Strict()
	if base == strict {
		t.Fatalf("Strict must not mutate the receiver")
	}
	// base still strips
	mustParse(t, base, map[string]any{"a": "x", "b": 1})
	mustFail(t, strict, map[string]any{"a": "x", "b": 1}, kensa.CodeUnrecognizedKeys)
}
