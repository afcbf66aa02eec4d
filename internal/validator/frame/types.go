package frame

import (
	"adframes/internal/domain"
)

// Subject is the attribute row of one frame group under a column mapping.
type Subject struct {
	Identifier string
	Row        domain.RawRow
	Mapping    domain.ColumnMapping
}

// Value returns the trimmed cell mapped to field.
func (s *Subject) Value(field string) string {
	return s.Mapping.Value(s.Row, field)
}

// ValidationResult is a local alias to avoid import cycles.
type ValidationResult struct {
	Passed  bool
	Field   string
	Value   string
	Message string
}

func pass(field string) ValidationResult {
	return ValidationResult{Passed: true, Field: field}
}

func fail(field, value, message string) ValidationResult {
	return ValidationResult{Field: field, Value: value, Message: message}
}
