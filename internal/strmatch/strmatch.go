// Package strmatch implements substring search anchored on the pattern's two
// rarest bytes. A static byte-frequency table (derived from typical
// identifier/URL corpora) selects the two least-frequent pattern bytes as
// comparison anchors; only positions where both anchors match are verified
// with an exact compare. This minimizes false-positive candidate positions
// the same way vectorized substring kernels do.
package strmatch

import "bytes"

// freq ranks byte frequency: lower value means rarer. ASCII letters, digits
// and common punctuation are frequent; control bytes and high bytes are rare.
var freq = [256]uint8{}

func init() {
	for i := range freq {
		freq[i] = 1 // rare by default
	}
	const common = "etaoinshrdlcumwfgypbvk.-_/:0123456789"
	for i, c := range []byte(common) {
		// earlier in the list means more common
		freq[c] = uint8(255 - i)
	}
	const uncommonLetters = "jxqz"
	for _, c := range []byte(uncommonLetters) {
		freq[c] = 20
	}
	for c := 'A'; c <= 'Z'; c++ {
		freq[c] = freq[c+('a'-'A')] / 2
	}
	for _, c := range []byte("@+=?#%&~$!'\"()[]{}<>,;| ") {
		freq[c] = 40
	}
}

// rarestTwo returns the offsets of the two rarest bytes in pattern.
// offsets are distinct unless the pattern has length 1.
func rarestTwo(pattern []byte) (int, int) {
	r1, r2 := 0, 0
	var f1, f2 uint8 = 255, 255
	for i, c := range pattern {
		f := freq[c]
		if f < f1 {
			r2, f2 = r1, f1
			r1, f1 = i, f
		} else if f < f2 && i != r1 {
			r2, f2 = i, f
		}
	}
	if len(pattern) > 1 && r1 == r2 {
		if r1 == 0 {
			r2 = 1
		} else {
			r2 = 0
		}
	}
	return r1, r2
}

// Index returns the offset of the first occurrence of pattern in haystack,
// or -1 when absent.
func Index(haystack, pattern []byte) int {
	n, m := len(haystack), len(pattern)
	switch {
	case m == 0:
		return 0
	case m > n:
		return -1
	case m == 1:
		return bytes.IndexByte(haystack, pattern[0])
	}
	o1, o2 := rarestTwo(pattern)
	a1, a2 := pattern[o1], pattern[o2]
	for pos := 0; pos <= n-m; {
		// anchor scan: find the rarest byte at its expected offset
		idx := bytes.IndexByte(haystack[pos+o1:n-m+o1+1], a1)
		if idx < 0 {
			return -1
		}
		pos += idx
		// second anchor filters before the exact compare
		if haystack[pos+o2] == a2 && bytes.Equal(haystack[pos:pos+m], pattern) {
			return pos
		}
		pos++
	}
	return -1
}

// Contains reports whether pattern occurs in haystack.
func Contains(haystack, pattern []byte) bool { return Index(haystack, pattern) >= 0 }

// HasPrefix reports whether b begins with prefix.
func HasPrefix(b, prefix []byte) bool {
	return len(b) >= len(prefix) && bytes.Equal(b[:len(prefix)], prefix)
}

// HasSuffix reports whether b ends with suffix.
func HasSuffix(b, suffix []byte) bool {
	return len(b) >= len(suffix) && bytes.Equal(b[len(b)-len(suffix):], suffix)
}
