// Package frame holds the built-in checks run against each frame group.
package frame

import (
	"context"

	"adframes/internal/ingest/mapping"
)

// BuiltinValidator wraps a validator function and its metadata for the registry.
type BuiltinValidator struct {
	key  string
	name string
	fn   func(context.Context, *Subject) []ValidationResult
}

func (b *BuiltinValidator) Validate(ctx context.Context, s *Subject) []ValidationResult {
	return b.fn(ctx, s)
}
func (b *BuiltinValidator) RuleKey() string  { return b.key }
func (b *BuiltinValidator) RuleName() string { return b.name }

// AllBuiltinValidators returns the required-field validators for fields
// followed by the format validators.
func AllBuiltinValidators(fields []mapping.FieldSpec) []*BuiltinValidator {
	reqVals := RequiredFieldValidators(fields)
	fmtVals := FormatValidators()
	all := make([]*BuiltinValidator, 0, len(reqVals)+len(fmtVals))

	for _, v := range reqVals {
		all = append(all, &BuiltinValidator{key: v.RuleKey(), name: v.RuleName(), fn: v.Validate})
	}
	for _, v := range fmtVals {
		all = append(all, &BuiltinValidator{key: v.RuleKey(), name: v.RuleName(), fn: v.Validate})
	}
	return all
}
