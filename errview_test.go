package kensa

import (
	"reflect"
	"testing"

	gojson "github.com/goccy/go-json"
)

func sampleIssues() Issues {
	return Issues{
		{Code: CodeInvalidUnion, Path: Path{}, Message: "no union option matched"},
		{Code: CodeInvalidType, Path: Path{"name"}, Message: "expected string"},
		{Code: CodeTooSmall, Path: Path{"items", 1, "qty"}, Message: "too small"},
		{Code: CodeTooBig, Path: Path{"items", 1, "qty"}, Message: "too big"},
	}
}

func TestTreeify(t *testing.T) {
	tree := sampleIssues().Treeify()
	if !reflect.DeepEqual(tree.Errors, []string{"no union option matched"}) {
		t.Fatalf("root = %v", tree.Errors)
	}
	name := tree.Children["name"]
	if name == nil || !reflect.DeepEqual(name.Errors, []string{"expected string"}) {
		t.Fatalf("name = %+v", name)
	}
	qty := tree.Children["items"].Children["1"].Children["qty"]
	if qty == nil || len(qty.Errors) != 2 {
		t.Fatalf("qty = %+v", qty)
	}
	// intermediate nodes collect no messages of their own
	if len(tree.Children["items"].Errors) != 0 {
		t.Fatalf("items = %+v", tree.Children["items"])
	}
}

func TestTreeifyMarshalsNestedChildren(t *testing.T) {
	data, err := gojson.Marshal(sampleIssues().Treeify())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var got map[string]any
	if err := gojson.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !reflect.DeepEqual(got["_errors"], []any{"no union option matched"}) {
		t.Fatalf("root _errors = %v", got["_errors"])
	}
	name, ok := got["name"].(map[string]any)
	if !ok || !reflect.DeepEqual(name["_errors"], []any{"expected string"}) {
		t.Fatalf("name subtree = %v", got["name"])
	}
	qty := got["items"].(map[string]any)["1"].(map[string]any)["qty"].(map[string]any)
	if msgs := qty["_errors"].([]any); len(msgs) != 2 {
		t.Fatalf("qty subtree = %v", qty)
	}
	// message-free intermediate nodes still carry an empty _errors leaf
	items := got["items"].(map[string]any)
	if !reflect.DeepEqual(items["_errors"], []any{}) {
		t.Fatalf("items _errors = %v", items["_errors"])
	}
}

func TestErrorTreeMarshalZeroValue(t *testing.T) {
	data, err := gojson.Marshal(&ErrorTree{})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `{"_errors":[]}` {
		t.Fatalf("data = %s", data)
	}
}

func TestFlatten(t *testing.T) {
	flat := sampleIssues().Flatten()
	if !reflect.DeepEqual(flat.FormErrors, []string{"no union option matched"}) {
		t.Fatalf("form = %v", flat.FormErrors)
	}
	if !reflect.DeepEqual(flat.FieldErrors["name"], []string{"expected string"}) {
		t.Fatalf("name = %v", flat.FieldErrors["name"])
	}
	// nested paths bucket under the first segment
	if len(flat.FieldErrors["items"]) != 2 {
		t.Fatalf("items = %v", flat.FieldErrors["items"])
	}
}

func TestFlattenEmpty(t *testing.T) {
	flat := Issues{}.Flatten()
	if flat.FormErrors == nil || flat.FieldErrors == nil {
		t.Fatalf("flat views initialize their buckets: %+v", flat)
	}
}
