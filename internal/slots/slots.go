// Package slots provides the FieldSlotTable: a precomputed bijection from a
// fixed field-name set to small integer slots, built once at schema
// definition time. Both the object compiler and the wide-object batch path
// use it for O(1) field lookup and bitmask-based required-field checks.
package slots

import (
	"hash/fnv"
	"sort"
)

// MaxMaskBits is the number of fields a required-fields bitmask can track.
// Objects with more required fields fall back to per-field presence checks.
const MaxMaskBits = 64

// Table maps field names to dense slots for one object shape.
type Table struct {
	names    []string       // slot -> name, declaration order
	index    map[string]int // name -> slot
	required uint64         // bit i set when slot i is required
	nreq     int
}

// Build constructs a table from field names in declaration order. required
// holds the subset of names that must be present.
func Build(names []string, required []string) *Table {
	t := &Table{
		names: append([]string(nil), names...),
		index: make(map[string]int, len(names)),
	}
	for i, n := range names {
		t.index[n] = i
	}
	for _, n := range required {
		i, ok := t.index[n]
		if !ok {
			continue
		}
		t.nreq++
		if i < MaxMaskBits {
			t.required |= 1 << uint(i)
		}
	}
	return t
}

// Len returns the number of slots.
func (t *Table) Len() int { return len(t.names) }

// Slot returns the slot for a field name.
func (t *Table) Slot(name string) (int, bool) {
	i, ok := t.index[name]
	return i, ok
}

// Name returns the field name for a slot.
func (t *Table) Name(slot int) string { return t.names[slot] }

// RequiredMask returns the required-fields bitmask.
func (t *Table) RequiredMask() uint64 { return t.required }

// RequiredCount returns the number of required fields.
func (t *Table) RequiredCount() int { return t.nreq }

// MaskUsable reports whether the bitmask covers every required field. With
// more than MaxMaskBits fields the mask is truncated and callers must count
// presence instead.
func (t *Table) MaskUsable() bool { return len(t.names) <= MaxMaskBits }

// KeysetHash hashes the sorted set of keys present in m. Structurally
// discriminated unions use it as a secondary dispatch cache key: two values
// with the same key set resolve to the same union option.
func KeysetHash(m map[string]any) uint64 {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	h := fnv.New64a()
	for _, k := range keys {
		_, _ = h.Write([]byte(k))
		_, _ = h.Write([]byte{0})
	}
	return h.Sum64()
}
