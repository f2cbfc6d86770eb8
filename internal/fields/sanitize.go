package fields

import "strings"

// Sanitize strips null bytes and non-printable control characters, keeping
// newline and tab. The persistence layer cannot store NUL bytes.
func Sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\n' || r == '\t':
			return r
		case r < 0x20 || r == 0x7f:
			return -1
		}
		return r
	}, s)
}
