package overtime

import (
	"strings"
	"unicode/utf8"
)

// MaxFieldLength bounds every sanitized string field, in characters.
const MaxFieldLength = 1000

// SanitizeString trims surrounding whitespace, removes ASCII control
// characters and truncates the result to MaxFieldLength characters.
func SanitizeString(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, s)
	if utf8.RuneCountInString(s) > MaxFieldLength {
		s = string([]rune(s)[:MaxFieldLength])
	}
	return s
}
