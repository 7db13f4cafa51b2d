package format

// ValidateBatch validates every input against one format and writes one
// result byte per input into out (1 valid, 0 invalid). out must be at least
// len(inputs) long. Inputs are independent, so the loop body is branch-light
// and processes fixed-size groups.
func ValidateBatch(f Format, inputs [][]byte, out []byte) {
	_ = out[:len(inputs)]
	n := len(inputs)
	i := 0
	for ; i+8 <= n; i += 8 {
		out[i] = b2u8(Validate(f, inputs[i]))
		out[i+1] = b2u8(Validate(f, inputs[i+1]))
		out[i+2] = b2u8(Validate(f, inputs[i+2]))
		out[i+3] = b2u8(Validate(f, inputs[i+3]))
		out[i+4] = b2u8(Validate(f, inputs[i+4]))
		out[i+5] = b2u8(Validate(f, inputs[i+5]))
		out[i+6] = b2u8(Validate(f, inputs[i+6]))
		out[i+7] = b2u8(Validate(f, inputs[i+7]))
	}
	for ; i < n; i++ {
		out[i] = b2u8(Validate(f, inputs[i]))
	}
}

// RangeCheckBatch writes one result byte per value: 1 when lo <= v <= hi.
// The 8-wide unrolled body lets the compiler vectorize the comparisons.
func RangeCheckBatch(vals []int64, lo, hi int64, out []byte) {
	_ = out[:len(vals)]
	n := len(vals)
	i := 0
	for ; i+8 <= n; i += 8 {
		out[i] = rangeBit(vals[i], lo, hi)
		out[i+1] = rangeBit(vals[i+1], lo, hi)
		out[i+2] = rangeBit(vals[i+2], lo, hi)
		out[i+3] = rangeBit(vals[i+3], lo, hi)
		out[i+4] = rangeBit(vals[i+4], lo, hi)
		out[i+5] = rangeBit(vals[i+5], lo, hi)
		out[i+6] = rangeBit(vals[i+6], lo, hi)
		out[i+7] = rangeBit(vals[i+7], lo, hi)
	}
	for ; i < n; i++ {
		out[i] = rangeBit(vals[i], lo, hi)
	}
}

func rangeBit(v, lo, hi int64) byte {
	if v >= lo && v <= hi {
		return 1
	}
	return 0
}

func b2u8(ok bool) byte {
	if ok {
		return 1
	}
	return 0
}
