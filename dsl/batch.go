package dsl

import (
	"context"
	"math"
	"sync"

	kensa "github.com/reoring/kensa"
	"github.com/reoring/kensa/internal/slots"
)

// batchGroup is the unrolled group width of the small-object hot loop.
const batchGroup = 8

// parallelChunk bounds the work handed to one worker in ParallelBatch.
const parallelChunk = 32768

// ValidateBatch validates many independent values in one call, choosing a
// strategy from the schema shape:
//
//   - small strip objects (at most four required bare-primitive fields) run
//     an unrolled group loop with a per-arity field check
//   - arrays of bare primitives run a tight type-tag loop
//   - wide strip objects run slot-table dispatch with a required-fields
//     bitmask instead of per-field map probes
//   - discriminated unions dispatch through the literal tag table, and
//     structural unions reuse a keyset-hash option cache across items
//   - everything else falls back to per-item SafeParse
//
// Result order matches input order; each entry is the decision SafeParse
// would make for that value.
func (s *Schema) ValidateBatch(ctx context.Context, items []any) []bool {
	res := make([]bool, len(items))
	if len(items) == 0 {
		return res
	}
	if fields, ok := s.smallPrimShape(); ok {
		validateSmallBatch(items, res, fields)
		return res
	}
	if tag, ok := s.primArrayShape(); ok {
		validatePrimArrayBatch(items, res, tag)
		return res
	}
	if progs, tbl, ok := s.wideShape(); ok {
		s.validateWideBatch(items, res, progs, tbl)
		return res
	}
	switch s.kind {
	case KindDiscriminatedUnion:
		s.validateDiscBatch(ctx, items, res)
		return res
	case KindUnion:
		if s.allObjectOptions() {
			s.validateUnionBatch(ctx, items, res)
			return res
		}
	}
	for i, it := range items {
		res[i] = s.SafeParse(ctx, it).OK
	}
	return res
}

// ParallelBatch splits items into bounded chunks validated by up to workers
// goroutines. Chunks are disjoint index ranges of the shared result slice,
// so the workers never contend.
func ParallelBatch(ctx context.Context, s *Schema, items []any, workers int) []bool {
	if workers <= 1 || len(items) <= parallelChunk {
		return s.ValidateBatch(ctx, items)
	}
	chunk := (len(items) + workers - 1) / workers
	if chunk > parallelChunk {
		chunk = parallelChunk
	}
	res := make([]bool, len(items))
	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup
	for off := 0; off < len(items); off += chunk {
		end := off + chunk
		if end > len(items) {
			end = len(items)
		}
		wg.Add(1)
		sem <- struct{}{}
		go func(off, end int) {
			defer wg.Done()
			defer func() { <-sem }()
			part := s.ValidateBatch(ctx, items[off:end])
			copy(res[off:end], part)
		}(off, end)
	}
	wg.Wait()
	return res
}

// ---- small strip objects ----

// primField is one required bare-primitive member of a small object.
type primField struct {
	name string
	tag  Kind
}

// smallPrimShape reports whether the schema is a strip object of at most
// four required fields whose schemas are unchecked string/number/bool nodes.
func (s *Schema) smallPrimShape() ([]primField, bool) {
	if s.kind != KindObject || s.policy != kensa.UnknownStrip {
		return nil, false
	}
	if len(s.fields) == 0 || len(s.fields) > 4 {
		return nil, false
	}
	fields := make([]primField, len(s.fields))
	for i, f := range s.fields {
		fs := f.Schema
		if fs == nil || len(fs.checks) != 0 {
			return nil, false
		}
		switch fs.kind {
		case KindString, KindNumber, KindBool:
			fields[i] = primField{name: f.Name, tag: fs.kind}
		default:
			return nil, false
		}
	}
	return fields, true
}

func checkPrim(tag Kind, v any) bool {
	switch tag {
	case KindString:
		_, ok := v.(string)
		return ok
	case KindNumber:
		f, ok := numberValue(v)
		return ok && !math.IsNaN(f) && !math.IsInf(f, 0)
	case KindBool:
		_, ok := v.(bool)
		return ok
	}
	return false
}

func validateSmallBatch(items []any, res []bool, fields []primField) {
	n := len(items)
	var one func(any) bool
	switch len(fields) {
	case 1:
		one = func(v any) bool { return checkSmall1(v, fields) }
	case 2:
		one = func(v any) bool { return checkSmall2(v, fields) }
	case 3:
		one = func(v any) bool { return checkSmall3(v, fields) }
	default:
		one = func(v any) bool { return checkSmall4(v, fields) }
	}
	i := 0
	for ; i+batchGroup <= n; i += batchGroup {
		res[i] = one(items[i])
		res[i+1] = one(items[i+1])
		res[i+2] = one(items[i+2])
		res[i+3] = one(items[i+3])
		res[i+4] = one(items[i+4])
		res[i+5] = one(items[i+5])
		res[i+6] = one(items[i+6])
		res[i+7] = one(items[i+7])
	}
	for ; i < n; i++ {
		res[i] = one(items[i])
	}
}

func checkSmall1(v any, fields []primField) bool {
	m, ok := v.(map[string]any)
	if !ok {
		return false
	}
	val, present := m[fields[0].name]
	return present && checkPrim(fields[0].tag, val)
}

func checkSmall2(v any, fields []primField) bool {
	m, ok := v.(map[string]any)
	if !ok {
		return false
	}
	v0, p0 := m[fields[0].name]
	v1, p1 := m[fields[1].name]
	return p0 && p1 &&
		checkPrim(fields[0].tag, v0) &&
		checkPrim(fields[1].tag, v1)
}

func checkSmall3(v any, fields []primField) bool {
	m, ok := v.(map[string]any)
	if !ok {
		return false
	}
	v0, p0 := m[fields[0].name]
	v1, p1 := m[fields[1].name]
	v2, p2 := m[fields[2].name]
	return p0 && p1 && p2 &&
		checkPrim(fields[0].tag, v0) &&
		checkPrim(fields[1].tag, v1) &&
		checkPrim(fields[2].tag, v2)
}

func checkSmall4(v any, fields []primField) bool {
	m, ok := v.(map[string]any)
	if !ok {
		return false
	}
	v0, p0 := m[fields[0].name]
	v1, p1 := m[fields[1].name]
	v2, p2 := m[fields[2].name]
	v3, p3 := m[fields[3].name]
	return p0 && p1 && p2 && p3 &&
		checkPrim(fields[0].tag, v0) &&
		checkPrim(fields[1].tag, v1) &&
		checkPrim(fields[2].tag, v2) &&
		checkPrim(fields[3].tag, v3)
}

// ---- primitive arrays ----

func (s *Schema) primArrayShape() (Kind, bool) {
	if s.kind != KindArray || len(s.checks) != 0 {
		return 0, false
	}
	elem := s.elem
	if elem == nil || len(elem.checks) != 0 {
		return 0, false
	}
	switch elem.kind {
	case KindString, KindNumber, KindBool:
		return elem.kind, true
	}
	return 0, false
}

func validatePrimArrayBatch(items []any, res []bool, tag Kind) {
	for i, it := range items {
		arr, ok := it.([]any)
		if !ok {
			continue
		}
		valid := true
		switch tag {
		case KindString:
			for _, el := range arr {
				if _, ok := el.(string); !ok {
					valid = false
					break
				}
			}
		case KindNumber:
			for _, el := range arr {
				f, ok := numberValue(el)
				if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
					valid = false
					break
				}
			}
		case KindBool:
			for _, el := range arr {
				if _, ok := el.(bool); !ok {
					valid = false
					break
				}
			}
		}
		res[i] = valid
	}
}

// ---- wide strip objects ----

// wideShape reports whether the schema is a strip object of more than four
// fields whose members all compile, with a usable required-fields bitmask.
func (s *Schema) wideShape() ([]fieldProg, *slots.Table, bool) {
	if s.kind != KindObject || s.policy != kensa.UnknownStrip || len(s.fields) <= 4 {
		return nil, nil, false
	}
	if s.slots == nil || !s.slots.MaskUsable() {
		return nil, nil, false
	}
	progs := make([]fieldProg, len(s.fields))
	for i, f := range s.fields {
		core := f.Schema
		optional := false
		for core != nil && core.kind == KindOptional {
			optional = true
			core = core.inner
		}
		fn := compileValue(core)
		if fn == nil {
			return nil, nil, false
		}
		progs[i] = fieldProg{name: f.Name, optional: optional, fn: fn}
	}
	return progs, s.slots, true
}

// validateWideBatch visits each item's keys once: slot lookup, field check,
// presence bit. Required coverage is a single mask compare at the end.
func (s *Schema) validateWideBatch(items []any, res []bool, progs []fieldProg, tbl *slots.Table) {
	required := tbl.RequiredMask()
	for i, it := range items {
		m, ok := it.(map[string]any)
		if !ok {
			continue
		}
		var seen uint64
		valid := true
		for k, v := range m {
			slot, declared := tbl.Slot(k)
			if !declared {
				continue // strip policy drops unknowns
			}
			p := &progs[slot]
			if v == nil && p.optional {
				seen |= 1 << uint(slot)
				continue
			}
			if _, ok := p.fn(v); !ok {
				valid = false
				break
			}
			seen |= 1 << uint(slot)
		}
		res[i] = valid && seen&required == required
	}
}

// ---- unions ----

func (s *Schema) allObjectOptions() bool {
	for _, opt := range s.options {
		if opt.kind != KindObject {
			return false
		}
	}
	return true
}

func (s *Schema) validateDiscBatch(ctx context.Context, items []any, res []bool) {
	for i, it := range items {
		m, ok := it.(map[string]any)
		if !ok {
			continue
		}
		tag, present := m[s.discKey]
		if !present {
			continue
		}
		opt, hit := s.disc[normalizeLiteral(tag)]
		if !hit {
			continue
		}
		res[i] = opt.SafeParse(ctx, it).OK
	}
}

// validateUnionBatch caches which option accepted each distinct key set.
// The cache only short-circuits acceptance: when the cached option rejects,
// the item retries every option in declared order, so the verdict always
// matches the sequential trial.
func (s *Schema) validateUnionBatch(ctx context.Context, items []any, res []bool) {
	for i, it := range items {
		m, ok := it.(map[string]any)
		if !ok {
			res[i] = s.SafeParse(ctx, it).OK
			continue
		}
		h := slots.KeysetHash(m)
		if idx, hit := s.unionCache.Load(h); hit {
			if s.options[idx.(int)].SafeParse(ctx, it).OK {
				res[i] = true
				continue
			}
		}
		for j, opt := range s.options {
			if opt.SafeParse(ctx, it).OK {
				res[i] = true
				s.unionCache.Store(h, j)
				break
			}
		}
	}
}
