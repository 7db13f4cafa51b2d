package dsl

import (
	"regexp"

	"github.com/reoring/kensa/format"
)

type checkKind uint8

const (
	chkMin checkKind = iota
	chkMax
	chkLength
	chkGt
	chkLt
	chkMultipleOf
	chkInt
	chkFinite
	chkPattern
	chkFormat
	chkStartsWith
	chkEndsWith
	chkContains
	chkTrim
)

// check is one refinement attached to a string, number, or array node.
// Checks run in registration order; the first failure stops the chain for
// that value.
type check struct {
	kind   checkKind
	num    float64
	str    string
	re     *regexp.Regexp
	format format.Format
}

// ---- string checks ----

var stringKinds = []Kind{KindString}
var sizedKinds = []Kind{KindString, KindNumber, KindArray}
var numberKinds = []Kind{KindNumber}

// Min constrains the minimum: string length, numeric value (inclusive), or
// array length, depending on the receiver.
func (s *Schema) Min(n float64) *Schema {
	return s.withCheck(sizedKinds, check{kind: chkMin, num: n})
}

// Max constrains the maximum: string length, numeric value (inclusive), or
// array length.
func (s *Schema) Max(n float64) *Schema {
	return s.withCheck(sizedKinds, check{kind: chkMax, num: n})
}

// Length requires an exact string or array length.
func (s *Schema) Length(n int) *Schema {
	return s.withCheck([]Kind{KindString, KindArray}, check{kind: chkLength, num: float64(n)})
}

// NonEmpty requires at least one character or element.
func (s *Schema) NonEmpty() *Schema { return s.Min(1) }

// Pattern requires the string to match re.
func (s *Schema) Pattern(re *regexp.Regexp) *Schema {
	return s.withCheck(stringKinds, check{kind: chkPattern, re: re})
}

// StartsWith requires the string to begin with prefix.
func (s *Schema) StartsWith(prefix string) *Schema {
	return s.withCheck(stringKinds, check{kind: chkStartsWith, str: prefix})
}

// EndsWith requires the string to end with suffix.
func (s *Schema) EndsWith(suffix string) *Schema {
	return s.withCheck(stringKinds, check{kind: chkEndsWith, str: suffix})
}

// Contains requires the string to contain sub.
func (s *Schema) Contains(sub string) *Schema {
	return s.withCheck(stringKinds, check{kind: chkContains, str: sub})
}

// Trim strips surrounding whitespace before later checks run.
func (s *Schema) Trim() *Schema {
	return s.withCheck(stringKinds, check{kind: chkTrim})
}

func (s *Schema) withFormat(f format.Format) *Schema {
	return s.withCheck(stringKinds, check{kind: chkFormat, format: f})
}

// Email requires a syntactically valid email address.
func (s *Schema) Email() *Schema { return s.withFormat(format.Email) }

// URL requires a scheme://host URL.
func (s *Schema) URL() *Schema { return s.withFormat(format.URL) }

// UUID requires the canonical 36-character UUID form.
func (s *Schema) UUID() *Schema { return s.withFormat(format.UUID) }

// IPv4 requires dotted-quad notation.
func (s *Schema) IPv4() *Schema { return s.withFormat(format.IPv4) }

// IPv6 requires colon-separated hexadecimal notation.
func (s *Schema) IPv6() *Schema { return s.withFormat(format.IPv6) }

// DateString requires the ISO full-date layout YYYY-MM-DD.
func (s *Schema) DateString() *Schema { return s.withFormat(format.Date) }

// DateTimeString requires an RFC 3339 date-time.
func (s *Schema) DateTimeString() *Schema { return s.withFormat(format.DateTime) }

// Base64 requires standard-alphabet base64 with correct padding.
func (s *Schema) Base64() *Schema { return s.withFormat(format.Base64) }

// ---- number checks ----

// Gt requires the value to be strictly greater than n.
func (s *Schema) Gt(n float64) *Schema {
	return s.withCheck(numberKinds, check{kind: chkGt, num: n})
}

// Lt requires the value to be strictly less than n.
func (s *Schema) Lt(n float64) *Schema {
	return s.withCheck(numberKinds, check{kind: chkLt, num: n})
}

// Ge requires the value to be at least n.
func (s *Schema) Ge(n float64) *Schema { return s.Min(n) }

// Le requires the value to be at most n.
func (s *Schema) Le(n float64) *Schema { return s.Max(n) }

// MultipleOf requires the value to be an exact multiple of n.
func (s *Schema) MultipleOf(n float64) *Schema {
	return s.withCheck(numberKinds, check{kind: chkMultipleOf, num: n})
}

// Int requires the value to be an integer.
func (s *Schema) Int() *Schema {
	return s.withCheck(numberKinds, check{kind: chkInt})
}

// Finite rejects NaN and infinities. Number schemas reject them regardless;
// the explicit check exists so exported schemas can record the intent.
func (s *Schema) Finite() *Schema {
	return s.withCheck(numberKinds, check{kind: chkFinite})
}

// Positive requires a value strictly greater than zero.
func (s *Schema) Positive() *Schema { return s.Gt(0) }

// Negative requires a value strictly less than zero.
func (s *Schema) Negative() *Schema { return s.Lt(0) }
