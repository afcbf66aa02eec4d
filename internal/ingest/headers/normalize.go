// Package headers cleans uploaded column headers for display and reduces them
// to a comparison form for column matching.
package headers

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// allowedPunct are the non-alphanumeric characters kept by CleanHeader.
const allowedPunct = "-_()/"

// CleanHeader trims h, drops characters outside letters, digits, whitespace
// and -_()/, and collapses whitespace runs to a single space.
func CleanHeader(h string) string {
	var b strings.Builder
	b.Grow(len(h))
	for _, r := range h {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), strings.ContainsRune(allowedPunct, r):
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// NormalizeForMatching lowercases the cleaned header, strips diacritics and
// keeps only letters and digits. It is idempotent.
func NormalizeForMatching(h string) string {
	s := strings.ToLower(CleanHeader(h))
	s = stripDiacritics(s)
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func stripDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// CleanAll cleans every header in order. Empty results become "Column N" and
// repeated names get a " (n)" suffix so each header stays addressable.
func CleanAll(raw []string) []string {
	out := make([]string, len(raw))
	seen := make(map[string]bool, len(raw))
	for i, h := range raw {
		c := CleanHeader(h)
		if c == "" {
			c = fmt.Sprintf("Column %d", i+1)
		}
		// the suffixed name may itself be a header already in the file
		for base, n := c, 2; seen[c]; n++ {
			c = fmt.Sprintf("%s (%d)", base, n)
		}
		seen[c] = true
		out[i] = c
	}
	return out
}
