package format

import (
	"github.com/reoring/kensa/internal/strmatch"
)

// Character-class bit flags for the ASCII table below.
const (
	clDigit      = 1 << iota // 0-9
	clHex                    // 0-9 a-f A-F
	clAlpha                  // a-z A-Z
	clEmailLocal             // RFC-ish local-part characters
	clBase64                 // A-Z a-z 0-9 + /
	clScheme                 // URL scheme tail characters
	clHost                   // host characters (letters, digits, '-', '.', ':', '_')
)

var ascii = func() [256]uint8 {
	var t [256]uint8
	set := func(chars string, fl uint8) {
		for _, c := range []byte(chars) {
			t[c] |= fl
		}
	}
	for c := byte('0'); c <= '9'; c++ {
		t[c] |= clDigit | clHex | clEmailLocal | clBase64 | clScheme | clHost
	}
	for c := byte('a'); c <= 'z'; c++ {
		t[c] |= clAlpha | clEmailLocal | clBase64 | clScheme | clHost
	}
	for c := byte('A'); c <= 'Z'; c++ {
		t[c] |= clAlpha | clEmailLocal | clBase64 | clScheme | clHost
	}
	set("abcdefABCDEF", clHex)
	set(".!#$%&'*+/=?^_`{|}~-", clEmailLocal)
	set("+/", clBase64)
	set("+.-", clScheme)
	set("-._:", clHost)
	return t
}()

func is(c byte, fl uint8) bool { return ascii[c]&fl != 0 }

// ValidEmail checks the local@domain shape: a non-empty local part drawn from
// the email character class, and a domain of dot-separated labels that start
// and end alphanumeric with at most 63 characters each. The domain must
// contain at least one dot.
func ValidEmail(b []byte) bool {
	at := -1
	for i := len(b) - 1; i >= 0; i-- {
		if b[i] == '@' {
			at = i
			break
		}
	}
	if at <= 0 || at == len(b)-1 {
		return false
	}
	for _, c := range b[:at] {
		if !is(c, clEmailLocal) {
			return false
		}
	}
	return validDomain(b[at+1:], true)
}

func validDomain(d []byte, requireDot bool) bool {
	if len(d) == 0 {
		return false
	}
	dots := 0
	labelStart := 0
	for i := 0; i <= len(d); i++ {
		if i == len(d) || d[i] == '.' {
			n := i - labelStart
			if n < 1 || n > 63 {
				return false
			}
			if !isAlnum(d[labelStart]) || !isAlnum(d[i-1]) {
				return false
			}
			for j := labelStart + 1; j < i-1; j++ {
				if !isAlnum(d[j]) && d[j] != '-' {
					return false
				}
			}
			if i < len(d) {
				dots++
				labelStart = i + 1
			}
		}
	}
	return !requireDot || dots > 0
}

func isAlnum(c byte) bool { return ascii[c]&(clDigit|clAlpha) != 0 }

var uuidHyphens = [4]int{8, 13, 18, 23}

// ValidUUID checks the canonical 36-character form: hyphens at fixed
// positions, hexadecimal digits everywhere else.
func ValidUUID(b []byte) bool {
	if len(b) != 36 {
		return false
	}
	h := 0
	for i, c := range b {
		if h < 4 && i == uuidHyphens[h] {
			if c != '-' {
				return false
			}
			h++
			continue
		}
		if !is(c, clHex) {
			return false
		}
	}
	return true
}

// ValidIPv4 checks dotted-quad notation: four decimal octets in 0-255 with no
// leading zeros.
func ValidIPv4(b []byte) bool {
	octets := 0
	i := 0
	for octets < 4 {
		start := i
		val := 0
		for i < len(b) && is(b[i], clDigit) {
			val = val*10 + int(b[i]-'0')
			i++
			if i-start > 3 {
				return false
			}
		}
		n := i - start
		if n == 0 || val > 255 {
			return false
		}
		if n > 1 && b[start] == '0' {
			return false // leading zero octet
		}
		octets++
		if octets < 4 {
			if i >= len(b) || b[i] != '.' {
				return false
			}
			i++
		}
	}
	return i == len(b)
}

// ValidIPv6 checks colon-separated hexadecimal groups: at most eight groups
// of up to four hex digits, with a single "::" compressing one or more zero
// groups. Embedded dotted-quad tails are not accepted.
func ValidIPv6(b []byte) bool {
	if len(b) < 2 {
		return false
	}
	groups := 0
	doubleColon := false
	i := 0
	// leading "::"
	if b[0] == ':' {
		if b[1] != ':' {
			return false
		}
		doubleColon = true
		i = 2
		if i == len(b) {
			return true // "::"
		}
	}
	for {
		start := i
		for i < len(b) && is(b[i], clHex) {
			i++
		}
		n := i - start
		if n == 0 || n > 4 {
			return false
		}
		groups++
		if groups > 8 {
			return false
		}
		if i == len(b) {
			break
		}
		if b[i] != ':' {
			return false
		}
		i++
		if i < len(b) && b[i] == ':' {
			if doubleColon {
				return false // second "::"
			}
			doubleColon = true
			i++
			if i == len(b) {
				return groups < 8 // trailing "::"
			}
		} else if i == len(b) {
			return false // trailing single colon
		}
	}
	if doubleColon {
		return groups < 8
	}
	return groups == 8
}

// ValidDate checks the ISO full-date layout YYYY-MM-DD against the real
// calendar, leap years included.
func ValidDate(b []byte) bool {
	if len(b) != 10 || b[4] != '-' || b[7] != '-' {
		return false
	}
	for _, i := range [8]int{0, 1, 2, 3, 5, 6, 8, 9} {
		if !is(b[i], clDigit) {
			return false
		}
	}
	year := int(b[0]-'0')*1000 + int(b[1]-'0')*100 + int(b[2]-'0')*10 + int(b[3]-'0')
	month := int(b[5]-'0')*10 + int(b[6]-'0')
	day := int(b[8]-'0')*10 + int(b[9]-'0')
	if month < 1 || month > 12 || day < 1 {
		return false
	}
	return day <= daysIn(year, month)
}

func daysIn(year, month int) int {
	switch month {
	case 1, 3, 5, 7, 8, 10, 12:
		return 31
	case 4, 6, 9, 11:
		return 30
	}
	if year%4 == 0 && (year%100 != 0 || year%400 == 0) {
		return 29
	}
	return 28
}

// ValidDateTime checks an RFC 3339 date-time: full-date, 'T' (or 't'),
// partial-time with optional fraction, and a 'Z' or numeric offset.
func ValidDateTime(b []byte) bool {
	if len(b) < 20 {
		return false
	}
	if !ValidDate(b[:10]) {
		return false
	}
	if b[10] != 'T' && b[10] != 't' {
		return false
	}
	i := 11
	if !validClock(b[i:i+8]) {
		return false
	}
	i += 8
	if i < len(b) && b[i] == '.' {
		i++
		start := i
		for i < len(b) && is(b[i], clDigit) {
			i++
		}
		if i == start {
			return false
		}
	}
	if i >= len(b) {
		return false
	}
	switch b[i] {
	case 'Z', 'z':
		return i == len(b)-1
	case '+', '-':
		if len(b)-i != 6 || b[i+3] != ':' {
			return false
		}
		hh := b[i+1 : i+3]
		mm := b[i+4 : i+6]
		if !is(hh[0], clDigit) || !is(hh[1], clDigit) || !is(mm[0], clDigit) || !is(mm[1], clDigit) {
			return false
		}
		h := int(hh[0]-'0')*10 + int(hh[1]-'0')
		m := int(mm[0]-'0')*10 + int(mm[1]-'0')
		return h <= 23 && m <= 59
	}
	return false
}

func validClock(b []byte) bool {
	if len(b) != 8 || b[2] != ':' || b[5] != ':' {
		return false
	}
	for _, i := range [6]int{0, 1, 3, 4, 6, 7} {
		if !is(b[i], clDigit) {
			return false
		}
	}
	h := int(b[0]-'0')*10 + int(b[1]-'0')
	m := int(b[3]-'0')*10 + int(b[4]-'0')
	s := int(b[6]-'0')*10 + int(b[7]-'0')
	return h <= 23 && m <= 59 && s <= 60 // 60 admits leap seconds per RFC 3339
}

// ValidBase64 checks standard-alphabet base64 with correct padding. The empty
// string is valid (it decodes to zero bytes).
func ValidBase64(b []byte) bool {
	if len(b)%4 != 0 {
		return false
	}
	pad := 0
	for i, c := range b {
		if c == '=' {
			// padding only in the last two positions
			if i < len(b)-2 {
				return false
			}
			pad++
			continue
		}
		if pad > 0 || !is(c, clBase64) {
			return false
		}
	}
	return true
}

var schemeSep = []byte("://")

// ValidURL checks scheme://host[/path][?query][#fragment] with a letter-led
// scheme and a non-empty host. The scheme separator is located via the
// rarest-byte substring search.
func ValidURL(b []byte) bool {
	sep := strmatch.Index(b, schemeSep)
	if sep <= 0 {
		return false
	}
	if !is(b[0], clAlpha) {
		return false
	}
	for _, c := range b[1:sep] {
		if !is(c, clScheme) {
			return false
		}
	}
	rest := b[sep+3:]
	if len(rest) == 0 {
		return false
	}
	hostEnd := len(rest)
	for i, c := range rest {
		if c == '/' || c == '?' || c == '#' {
			hostEnd = i
			break
		}
	}
	if hostEnd == 0 {
		return false
	}
	for _, c := range rest[:hostEnd] {
		if !is(c, clHost) && c != '@' && c != '[' && c != ']' {
			return false
		}
	}
	// no spaces or control bytes anywhere after the host
	for _, c := range rest[hostEnd:] {
		if c <= 0x20 || c == 0x7f {
			return false
		}
	}
	return true
}
