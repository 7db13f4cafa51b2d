package dsl

// String accepts Go string values.
func String() *Schema { return &Schema{kind: KindString} }

// Number accepts float64, int, int64, and json.Number values. NaN and
// infinities are rejected.
func Number() *Schema { return &Schema{kind: KindNumber} }

// Bool accepts boolean values.
func Bool() *Schema { return &Schema{kind: KindBool} }

// BigInt accepts *big.Int values and integral json.Number / int inputs,
// normalizing all of them to *big.Int.
func BigInt() *Schema { return &Schema{kind: KindBigInt} }

// Date accepts time.Time values and RFC 3339 / full-date strings,
// normalizing to time.Time.
func Date() *Schema { return &Schema{kind: KindDate} }

// Literal accepts exactly v, compared with ==. Numeric inputs are normalized
// before comparison, so Literal(3) matches json.Number("3").
func Literal(v any) *Schema { return &Schema{kind: KindLiteral, literal: v} }

// Enum accepts any of the given string values.
func Enum(vals ...string) *Schema {
	return &Schema{kind: KindEnum, enumVals: append([]string(nil), vals...)}
}

// Any accepts every value, including nil.
func Any() *Schema { return &Schema{kind: KindAny} }

// Unknown accepts every value. It differs from Any only in exported schemas.
func Unknown() *Schema { return &Schema{kind: KindUnknown} }

// Never rejects every value.
func Never() *Schema { return &Schema{kind: KindNever} }

// Null accepts only nil.
func Null() *Schema { return &Schema{kind: KindNull} }
