package dsl

// Array accepts a slice whose every element conforms to elem.
func Array(elem *Schema) *Schema {
	if elem == nil {
		panic("dsl: Array needs an element schema")
	}
	return &Schema{kind: KindArray, elem: elem}
}

// Tuple accepts a slice with exactly len(items) positional elements, each
// validated against its own schema. Rest extends a tuple with a schema for
// trailing elements.
func Tuple(items ...*Schema) *Schema {
	for _, it := range items {
		if it == nil {
			panic("dsl: Tuple item schema is nil")
		}
	}
	return &Schema{kind: KindTuple, items: append([]*Schema(nil), items...)}
}

// Rest allows trailing elements beyond the declared tuple positions, each
// validated against r.
func (s *Schema) Rest(r *Schema) *Schema {
	if s.kind != KindTuple {
		panic("dsl: Rest applies to tuple schemas only")
	}
	n := s.clone()
	n.rest = r
	return n
}

// Record accepts a map whose keys conform to key and whose values conform to
// value. The key schema must validate strings.
func Record(key, value *Schema) *Schema {
	if key == nil || value == nil {
		panic("dsl: Record needs key and value schemas")
	}
	return &Schema{kind: KindRecord, key: key, elem: value}
}
