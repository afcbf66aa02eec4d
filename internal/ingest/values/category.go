package values

import (
	"adframes/internal/domain"
	"adframes/internal/ingest/headers"
)

var categoryWords = map[string]domain.FrameCategory{
	"digital":  domain.CategoryDigital,
	"static":   domain.CategoryStatic,
	"estatico": domain.CategoryStatic,
}

// ParseCategory reads a frame category ignoring case, diacritics and punctuation.
func ParseCategory(s string) (domain.FrameCategory, bool) {
	c, ok := categoryWords[headers.NormalizeForMatching(s)]
	return c, ok
}
