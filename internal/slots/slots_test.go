package slots

import (
	"fmt"
	"testing"
)

func TestTableLookup(t *testing.T) {
	tbl := Build([]string{"id", "name", "age"}, []string{"id", "age"})
	if tbl.Len() != 3 {
		t.Fatalf("len = %d", tbl.Len())
	}
	for i, name := range []string{"id", "name", "age"} {
		slot, ok := tbl.Slot(name)
		if !ok || slot != i {
			t.Fatalf("Slot(%q) = %d, %v", name, slot, ok)
		}
		if tbl.Name(i) != name {
			t.Fatalf("Name(%d) = %q", i, tbl.Name(i))
		}
	}
	if _, ok := tbl.Slot("missing"); ok {
		t.Fatalf("unknown name should not resolve")
	}
}

func TestRequiredMask(t *testing.T) {
	tbl := Build([]string{"a", "b", "c"}, []string{"a", "c"})
	if !tbl.MaskUsable() {
		t.Fatalf("mask should be usable")
	}
	if tbl.RequiredMask() != 0b101 {
		t.Fatalf("mask = %b", tbl.RequiredMask())
	}
	if tbl.RequiredCount() != 2 {
		t.Fatalf("count = %d", tbl.RequiredCount())
	}
	// requiring an undeclared name is ignored
	tbl = Build([]string{"a"}, []string{"a", "ghost"})
	if tbl.RequiredCount() != 1 {
		t.Fatalf("count = %d", tbl.RequiredCount())
	}
}

func TestMaskUsableLimit(t *testing.T) {
	names := make([]string, MaxMaskBits+1)
	for i := range names {
		names[i] = fmt.Sprintf("f%d", i)
	}
	tbl := Build(names, names)
	if tbl.MaskUsable() {
		t.Fatalf("mask cannot cover %d fields", len(names))
	}
	if tbl.RequiredCount() != len(names) {
		t.Fatalf("count = %d", tbl.RequiredCount())
	}
}

func TestKeysetHash(t *testing.T) {
	a := map[string]any{"x": 1, "y": 2}
	b := map[string]any{"y": "other", "x": nil}
	c := map[string]any{"x": 1, "z": 2}
	if KeysetHash(a) != KeysetHash(b) {
		t.Fatalf("same key set must hash equal")
	}
	if KeysetHash(a) == KeysetHash(c) {
		t.Fatalf("different key sets should hash differently")
	}
	// separator keeps concatenation ambiguity out of the hash
	d := map[string]any{"ab": 1, "c": 2}
	e := map[string]any{"a": 1, "bc": 2}
	if KeysetHash(d) == KeysetHash(e) {
		t.Fatalf("key boundaries must affect the hash")
	}
}
