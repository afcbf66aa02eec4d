package frame

import (
	"context"
	"fmt"

	"adframes/internal/ingest/mapping"
)

// requiredFieldValidator checks that a required field has a value on the row.
type requiredFieldValidator struct {
	field string
	label string
}

func (v *requiredFieldValidator) RuleKey() string  { return "required." + v.field }
func (v *requiredFieldValidator) RuleName() string { return "Required: " + v.label }

func (v *requiredFieldValidator) Validate(_ context.Context, s *Subject) []ValidationResult {
	if s.Value(v.field) != "" {
		return []ValidationResult{pass(v.field)}
	}
	return []ValidationResult{fail(v.field, "", fmt.Sprintf("%s is required", v.label))}
}

// RequiredFieldValidators returns one validator per required field.
func RequiredFieldValidators(fields []mapping.FieldSpec) []*requiredFieldValidator {
	var out []*requiredFieldValidator
	for _, f := range fields {
		if f.Required {
			out = append(out, &requiredFieldValidator{field: f.Key, label: f.Label})
		}
	}
	return out
}
