// Package format validates string formats over byte spans. Every validator is
// a deterministic, stateless function from bytes to a boolean verdict; a
// malformed or truncated input is a clean false, never a fault.
//
// Short fixed-layout checks (UUID hyphen positions, date digit layout,
// email character classes) run as in-process table checks. The Bridge type
// offers the same verdicts through a narrow (ptr, len) -> i32 boundary into a
// compiled WebAssembly module for callers that batch expensive checks.
package format

// Format names a supported string format.
type Format string

const (
	Email    Format = "email"
	URL      Format = "url"
	UUID     Format = "uuid"
	IPv4     Format = "ipv4"
	IPv6     Format = "ipv6"
	Date     Format = "date"
	DateTime Format = "datetime"
	Base64   Format = "base64"
)

// Validate dispatches to the in-process validator for f. Unknown formats are
// rejected.
func Validate(f Format, b []byte) bool {
	switch f {
	case Email:
		return ValidEmail(b)
	case URL:
		return ValidURL(b)
	case UUID:
		return ValidUUID(b)
	case IPv4:
		return ValidIPv4(b)
	case IPv6:
		return ValidIPv6(b)
	case Date:
		return ValidDate(b)
	case DateTime:
		return ValidDateTime(b)
	case Base64:
		return ValidBase64(b)
	default:
		return false
	}
}

// Known reports whether f names a supported format.
func Known(f Format) bool {
	switch f {
	case Email, URL, UUID, IPv4, IPv6, Date, DateTime, Base64:
		return true
	}
	return false
}

// Formats lists every supported format in stable order.
func Formats() []Format {
	return []Format{Email, URL, UUID, IPv4, IPv6, Date, DateTime, Base64}
}
