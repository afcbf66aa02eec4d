// Package values parses spreadsheet cell text into typed values.
package values

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"unicode"
)

var ErrNotNumeric = errors.New("value is not numeric")

// affixWords are the currency codes and units accepted before or after an
// amount, compared in lower case.
var affixWords = map[string]bool{
	"mxn": true, "mx": true, "usd": true, "us": true, "eur": true, "cad": true,
	"gbp": true, "cop": true, "ars": true, "clp": true, "pen": true, "brl": true,
	"m": true, "mt": true, "mts": true, "metros": true, "meters": true, "metres": true,
}

// ParseAmount parses a money or measurement cell. Currency symbols, known
// currency codes and units around the number, whitespace and thousands
// separators are stripped. Letters inside the number are rejected. When both
// '.' and ',' appear the later one is the decimal mark; a lone ',' followed by
// exactly three digits is a thousands separator.
func ParseAmount(s string) (float64, error) {
	s = strings.TrimSpace(s)
	start := strings.IndexFunc(s, isNumberRune)
	end := strings.LastIndexFunc(s, isNumberRune)
	if start < 0 {
		return 0, ErrNotNumeric
	}
	if !isAffix(s[:start]) || !isAffix(s[end+1:]) {
		return 0, ErrNotNumeric
	}

	var b strings.Builder
	for _, r := range s[start : end+1] {
		switch {
		case isNumberRune(r):
			b.WriteRune(r)
		case unicode.IsSpace(r), r == '\'':
			// digit grouping
		default:
			return 0, ErrNotNumeric
		}
	}
	cleaned := b.String()
	if strings.Trim(cleaned, ".,-") == "" {
		return 0, ErrNotNumeric
	}
	return parseFloat(normalizeSeparators(cleaned))
}

func isNumberRune(r rune) bool {
	return (r >= '0' && r <= '9') || r == '.' || r == ',' || r == '-'
}

// isAffix reports whether s holds only whitespace, currency symbols and words
// from affixWords.
func isAffix(s string) bool {
	words := strings.FieldsFunc(s, func(r rune) bool {
		return unicode.IsSpace(r) || unicode.Is(unicode.Sc, r)
	})
	for _, w := range words {
		if !affixWords[strings.ToLower(w)] {
			return false
		}
	}
	return true
}

func normalizeSeparators(s string) string {
	dot := strings.LastIndex(s, ".")
	comma := strings.LastIndex(s, ",")
	switch {
	case dot >= 0 && comma >= 0:
		if comma > dot {
			s = strings.ReplaceAll(s, ".", "")
			return strings.Replace(s, ",", ".", 1)
		}
		return strings.ReplaceAll(s, ",", "")
	case comma >= 0:
		if strings.Count(s, ",") > 1 || len(s)-comma-1 == 3 {
			return strings.ReplaceAll(s, ",", "")
		}
		return strings.Replace(s, ",", ".", 1)
	case strings.Count(s, ".") > 1:
		return strings.ReplaceAll(s, ".", "")
	}
	return s
}

// ParseCoordinate parses a decimal degree. Only a plain number is accepted,
// with ',' allowed as the decimal mark.
func ParseCoordinate(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if strings.Count(s, ",") == 1 && !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	return parseFloat(s)
}

// ParseCount parses a non-negative whole number such as daily impressions.
func ParseCount(s string) (int, error) {
	f, err := ParseAmount(s)
	if err != nil {
		return 0, err
	}
	if f < 0 || f > math.MaxInt32 {
		return 0, ErrNotNumeric
	}
	return int(math.Round(f)), nil
}

func parseFloat(s string) (float64, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, ErrNotNumeric
	}
	return f, nil
}
