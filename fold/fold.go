// Package fold compares names regardless of case, accents and spacing.
package fold

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// String returns s lowercased, without diacritics and with runs of
// whitespace collapsed to one space.
func String(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.Join(strings.Fields(strings.ToLower(out)), " ")
}

// Equal reports whether a and b are the same name once folded.
func Equal(a, b string) bool {
	return String(a) == String(b)
}

// Contains reports whether the folded s contains the folded substr.
func Contains(s, substr string) bool {
	return strings.Contains(String(s), String(substr))
}
