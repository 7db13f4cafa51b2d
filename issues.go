package kensa

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Issue codes (exported consts for IDE completion and type safety by convention)
const (
	CodeInvalidType          = "invalid_type"
	CodeInvalidLiteral       = "invalid_literal"
	CodeTooSmall             = "too_small"
	CodeTooBig               = "too_big"
	CodeInvalidString        = "invalid_string"
	CodeInvalidEnumValue     = "invalid_enum_value"
	CodeInvalidUnion         = "invalid_union"
	CodeInvalidDiscriminator = "invalid_union_discriminator"
	CodeUnrecognizedKeys     = "unrecognized_keys"
	CodeInvalidDate          = "invalid_date"
	CodeNotMultipleOf        = "not_multiple_of"
	CodeNotFinite            = "not_finite"
	CodeCustom               = "custom"
)

// Path addresses a location inside the validated value. Segments are either
// string keys (object fields) or int indices (array/tuple elements).
type Path []any

// Pointer renders the path as a JSON Pointer (for example: /items/2/price).
// The root path renders as "/".
func (p Path) Pointer() string {
	if len(p) == 0 {
		return "/"
	}
	b := &strings.Builder{}
	for _, seg := range p {
		b.WriteByte('/')
		switch s := seg.(type) {
		case string:
			b.WriteString(s)
		case int:
			b.WriteString(strconv.Itoa(s))
		default:
			fmt.Fprintf(b, "%v", s)
		}
	}
	return b.String()
}

// Issue represents a single validation entry.
type Issue struct {
	Code    string // One of the codes listed above.
	Path    Path   // Location of the violation; empty for root-level issues.
	Message string
	// Params carries structured parameters (e.g., {"minimum":1, "inclusive":true})
	// for i18n and observability.
	Params map[string]any
}

// Issues is a collection of validation errors that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := n
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		// e.g. invalid_type at /path
		fmt.Fprintf(b, "%s at %s", it.Code, it.Path.Pointer())
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// AppendIssues appends issues to the destination, initializing the slice when
// needed.
func AppendIssues(dst Issues, more ...Issue) Issues {
	if dst == nil {
		dst = Issues{}
	}
	dst = append(dst, more...)
	return dst
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}
