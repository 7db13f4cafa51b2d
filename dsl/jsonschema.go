package dsl

import (
	"fmt"
	"regexp"

	kensa "github.com/reoring/kensa"
	js "github.com/reoring/kensa/jsonschema"
)

// JSONSchema projects the schema into its JSON Schema representation.
// Modifier wrappers fold into the inner projection: Optional affects only
// the parent object's required list, Nullable sets nullable, Default and
// Readonly annotate, and Transform/Refine/Pipe export their input shape.
func (s *Schema) JSONSchema() (*js.Schema, error) {
	switch s.kind {
	case KindString:
		out := &js.Schema{Type: "string"}
		s.exportStringChecks(out)
		return out, nil

	case KindNumber:
		out := &js.Schema{Type: "number"}
		s.exportNumberChecks(out)
		return out, nil

	case KindBool:
		return &js.Schema{Type: "boolean"}, nil

	case KindBigInt:
		return &js.Schema{Type: "integer", Format: "bigint"}, nil

	case KindDate:
		return &js.Schema{Type: "string", Format: "date-time"}, nil

	case KindLiteral:
		return &js.Schema{Const: s.literal}, nil

	case KindEnum:
		vals := make([]any, len(s.enumVals))
		for i, v := range s.enumVals {
			vals[i] = v
		}
		return &js.Schema{Type: "string", Enum: vals}, nil

	case KindAny, KindUnknown:
		return &js.Schema{}, nil

	case KindNever:
		return nil, fmt.Errorf("dsl: never schema has no JSON Schema form")

	case KindNull:
		return &js.Schema{Type: "null"}, nil

	case KindObject:
		return s.exportObject()

	case KindArray:
		items, err := s.elem.JSONSchema()
		if err != nil {
			return nil, err
		}
		out := &js.Schema{Type: "array", Items: items}
		for _, c := range s.checks {
			switch c.kind {
			case chkMin:
				out.MinItems = intp(int(c.num))
			case chkMax:
				out.MaxItems = intp(int(c.num))
			case chkLength:
				out.MinItems = intp(int(c.num))
				out.MaxItems = intp(int(c.num))
			}
		}
		return out, nil

	case KindTuple:
		out := &js.Schema{Type: "array"}
		for _, it := range s.items {
			es, err := it.JSONSchema()
			if err != nil {
				return nil, err
			}
			out.PrefixItems = append(out.PrefixItems, es)
		}
		if s.rest != nil {
			rs, err := s.rest.JSONSchema()
			if err != nil {
				return nil, err
			}
			out.Items = rs
		} else {
			n := len(s.items)
			out.MinItems = intp(n)
			out.MaxItems = intp(n)
		}
		return out, nil

	case KindRecord:
		vs, err := s.elem.JSONSchema()
		if err != nil {
			return nil, err
		}
		return &js.Schema{Type: "object", AdditionalProperties: vs}, nil

	case KindUnion, KindDiscriminatedUnion:
		out := &js.Schema{}
		for _, opt := range s.options {
			os, err := opt.JSONSchema()
			if err != nil {
				return nil, err
			}
			out.AnyOf = append(out.AnyOf, os)
		}
		return out, nil

	case KindOptional:
		return s.inner.JSONSchema()

	case KindNullable:
		out, err := s.inner.JSONSchema()
		if err != nil {
			return nil, err
		}
		out.Nullable = true
		return out, nil

	case KindDefault:
		out, err := s.inner.JSONSchema()
		if err != nil {
			return nil, err
		}
		out.Default = s.defaultVal
		return out, nil

	case KindCatch, KindTransform, KindRefine, KindReadonly:
		out, err := s.inner.JSONSchema()
		if err != nil {
			return nil, err
		}
		if s.kind == KindReadonly {
			out.ReadOnly = true
		}
		return out, nil

	case KindPipe:
		return s.inner.JSONSchema()
	}
	return nil, fmt.Errorf("dsl: cannot export %s schema", s.kind)
}

func (s *Schema) exportObject() (*js.Schema, error) {
	out := &js.Schema{
		Type:       "object",
		Properties: make(map[string]*js.Schema, len(s.fields)),
	}
	for _, f := range s.fields {
		fs, err := f.Schema.JSONSchema()
		if err != nil {
			return nil, err
		}
		out.Properties[f.Name] = fs
		if fieldRequired(f.Schema) {
			out.Required = append(out.Required, f.Name)
		}
	}
	out.AdditionalProperties = s.policy != kensa.UnknownStrict
	return out, nil
}

func (s *Schema) exportStringChecks(out *js.Schema) {
	for _, c := range s.checks {
		switch c.kind {
		case chkMin:
			out.MinLength = intp(int(c.num))
		case chkMax:
			out.MaxLength = intp(int(c.num))
		case chkLength:
			out.MinLength = intp(int(c.num))
			out.MaxLength = intp(int(c.num))
		case chkPattern:
			out.Pattern = c.re.String()
		case chkFormat:
			out.Format = string(c.format)
		case chkStartsWith:
			out.Pattern = "^" + regexp.QuoteMeta(c.str)
		case chkEndsWith:
			out.Pattern = regexp.QuoteMeta(c.str) + "$"
		}
	}
}

func (s *Schema) exportNumberChecks(out *js.Schema) {
	for _, c := range s.checks {
		switch c.kind {
		case chkMin:
			out.Minimum = floatp(c.num)
		case chkMax:
			out.Maximum = floatp(c.num)
		case chkGt:
			out.ExclusiveMinimum = floatp(c.num)
		case chkLt:
			out.ExclusiveMaximum = floatp(c.num)
		case chkMultipleOf:
			out.MultipleOf = floatp(c.num)
		case chkInt:
			out.Type = "integer"
		}
	}
}

func intp(n int) *int           { return &n }
func floatp(f float64) *float64 { return &f }
