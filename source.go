package kensa

import (
	"bytes"
	"context"
	"fmt"
	"io"

	gojson "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// DecodeJSON decodes a single JSON document into the engine's value model
// (map[string]any / []any / string / bool / json.Number / nil). Numbers are
// kept as json.Number to avoid precision loss.
func DecodeJSON(data []byte) (any, error) {
	dec := gojson.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("kensa: decode json: %w", err)
	}
	// reject trailing garbage after the first document
	if err := dec.Decode(new(any)); err != io.EOF {
		return nil, fmt.Errorf("kensa: decode json: trailing data")
	}
	return v, nil
}

// DecodeJSONArray decodes a JSON array document into its elements, the input
// shape batch validation consumes.
func DecodeJSONArray(data []byte) ([]any, error) {
	v, err := DecodeJSON(data)
	if err != nil {
		return nil, err
	}
	arr, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("kensa: decode json: expected array document")
	}
	return arr, nil
}

// ParseJSON decodes data and validates it against s in one step.
func ParseJSON(ctx context.Context, s Schema, data []byte) (any, error) {
	v, err := DecodeJSON(data)
	if err != nil {
		return nil, err
	}
	return s.Parse(ctx, v)
}

// DecodeYAML decodes a YAML document and normalizes it into the same value
// model DecodeJSON produces, so one schema serves both sources.
func DecodeYAML(data []byte) (any, error) {
	var v any
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("kensa: decode yaml: %w", err)
	}
	return normalizeYAML(v), nil
}

// ParseYAML decodes data as YAML and validates it against s.
func ParseYAML(ctx context.Context, s Schema, data []byte) (any, error) {
	v, err := DecodeYAML(data)
	if err != nil {
		return nil, err
	}
	return s.Parse(ctx, v)
}

// normalizeYAML rewrites yaml.v3's output in place-compatible form: non-string
// map keys are stringified and nested containers are walked recursively.
func normalizeYAML(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			out[k] = normalizeYAML(vv)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			out[fmt.Sprintf("%v", k)] = normalizeYAML(vv)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, vv := range t {
			out[i] = normalizeYAML(vv)
		}
		return out
	default:
		return v
	}
}
