package decode

import (
	"strings"
	"unicode"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	xunicode "golang.org/x/text/encoding/unicode"
)

var encodings = map[string]encoding.Encoding{
	"utf-8":        xunicode.UTF8,
	"utf-16":       xunicode.UTF16(xunicode.LittleEndian, xunicode.ExpectBOM),
	"windows-1252": charmap.Windows1252,
	"iso-8859-1":   charmap.ISO8859_1,
	"iso-8859-15":  charmap.ISO8859_15,
	"macintosh":    charmap.Macintosh,
}

var encodingAliases = map[string]string{
	"utf8":    "utf-8",
	"utf16":   "utf-16",
	"cp1252":  "windows-1252",
	"latin1":  "iso-8859-1",
	"latin-1": "iso-8859-1",
	"latin9":  "iso-8859-15",
	"mac":     "macintosh",
}

// CanonicalName returns the registered name for an encoding label, or "" if unknown.
func CanonicalName(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	if alias, ok := encodingAliases[n]; ok {
		n = alias
	}
	if _, ok := encodings[n]; !ok {
		return ""
	}
	return n
}

// SupportedEncodings lists every name accepted by CanonicalName.
func SupportedEncodings() []string {
	return []string{"utf-8", "utf-16", "windows-1252", "iso-8859-1", "iso-8859-15", "macintosh"}
}

// Candidates builds the ordered trial list: the user's choice first, then the
// defaults, without repeats. Unknown names are kept so the attempt is reported.
func Candidates(selected string, defaults []string) []string {
	var out []string
	seen := make(map[string]bool)
	add := func(name string) {
		key := CanonicalName(name)
		if key == "" {
			key = strings.ToLower(strings.TrimSpace(name))
		}
		if key == "" || seen[key] {
			return
		}
		seen[key] = true
		out = append(out, key)
	}
	add(selected)
	for _, d := range defaults {
		add(d)
	}
	return out
}

// IsCorrupted reports whether decoded text shows signs of a wrong encoding:
// U+FFFD replacement characters or control characters other than tab, CR and LF.
func IsCorrupted(text string) bool {
	for _, r := range text {
		if r == unicode.ReplacementChar {
			return true
		}
		if unicode.IsControl(r) && r != '\t' && r != '\n' && r != '\r' {
			return true
		}
	}
	return false
}
