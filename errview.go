package kensa

import (
	"fmt"
	"strconv"

	gojson "github.com/goccy/go-json"
)

// ErrorTree is the nested "by path" view of an Issues aggregate: each path
// segment nests a child tree, and messages collected at a node live in its
// Errors leaf.
type ErrorTree struct {
	Errors   []string
	Children map[string]*ErrorTree
}

// MarshalJSON renders a node as one object holding the "_errors" leaf plus
// one key per child subtree, so the marshaled tree mirrors the path nesting.
func (t *ErrorTree) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(t.Children)+1)
	errs := t.Errors
	if errs == nil {
		errs = []string{}
	}
	out["_errors"] = errs
	for seg, child := range t.Children {
		out[seg] = child
	}
	return gojson.Marshal(out)
}

func newErrorTree() *ErrorTree {
	return &ErrorTree{Errors: []string{}}
}

func (t *ErrorTree) child(seg string) *ErrorTree {
	if t.Children == nil {
		t.Children = map[string]*ErrorTree{}
	}
	c, ok := t.Children[seg]
	if !ok {
		c = newErrorTree()
		t.Children[seg] = c
	}
	return c
}

// Treeify builds the nested by-path view. Array indices become decimal string
// keys, mirroring the flat JSON rendering of the tree.
func (iss Issues) Treeify() *ErrorTree {
	root := newErrorTree()
	for _, it := range iss {
		node := root
		for _, seg := range it.Path {
			switch s := seg.(type) {
			case string:
				node = node.child(s)
			case int:
				node = node.child(strconv.Itoa(s))
			default:
				node = node.child(fmt.Sprintf("%v", s))
			}
		}
		node.Errors = append(node.Errors, it.Message)
	}
	return root
}

// FlatErrors is the flat split of an Issues aggregate: root-level messages in
// FormErrors, everything else keyed by the first path segment.
type FlatErrors struct {
	FormErrors  []string            `json:"formErrors"`
	FieldErrors map[string][]string `json:"fieldErrors"`
}

// Flatten splits issues into form-level and field-level buckets.
func (iss Issues) Flatten() FlatErrors {
	out := FlatErrors{FormErrors: []string{}, FieldErrors: map[string][]string{}}
	for _, it := range iss {
		if len(it.Path) == 0 {
			out.FormErrors = append(out.FormErrors, it.Message)
			continue
		}
		var key string
		switch s := it.Path[0].(type) {
		case string:
			key = s
		case int:
			key = strconv.Itoa(s)
		default:
			key = fmt.Sprintf("%v", s)
		}
		out.FieldErrors[key] = append(out.FieldErrors[key], it.Message)
	}
	return out
}
