package match

import (
	"strings"
	"unicode"
)

// NormalizeIdent lowercases s and drops separators, so "has-baz",
// "has_baz", "HasBaz" and "hasBaz" all compare equal.
func NormalizeIdent(s string) string {
	var b strings.Builder

	b.Grow(len(s))

	for _, r := range s {
		if isSeparator(r) {
			continue
		}

		b.WriteRune(unicode.ToLower(r))
	}

	return b.String()
}

func isSeparator(r rune) bool {
	return r == '_' || r == '-' || r == '.' || unicode.IsSpace(r)
}
