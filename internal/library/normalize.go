package library

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// ignoredSortPrefixes are leading articles skipped when sorting titles.
var ignoredSortPrefixes = []string{"the ", "an ", "a "}

// SortKey returns the key used to order titles and names:
// - Case folded
// - Diacritics removed ("Beyoncé" sorts as "beyonce")
// - Leading "The", "A" or "An" dropped
func SortKey(s string) string {
	s = Fold(stripDiacritics(strings.TrimSpace(s)))
	for _, prefix := range ignoredSortPrefixes {
		if rest, ok := strings.CutPrefix(s, prefix); ok {
			return strings.TrimLeft(rest, " ")
		}
	}
	return s
}

// Fold returns s with Unicode case folding applied, for case-insensitive
// comparison.
func Fold(s string) string {
	// Casers keep state and are not safe for concurrent use.
	return cases.Fold().String(s)
}

func stripDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return result
}
