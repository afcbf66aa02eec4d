package frame

import (
	"context"
	"fmt"

	"adframes/internal/ingest/mapping"
	"adframes/internal/ingest/values"
)

// formatValidator checks that a field parses and satisfies a constraint.
// Empty values pass; presence is the required validators' concern.
type formatValidator struct {
	ruleKey  string
	ruleName string
	field    string
	check    func(string) (bool, string)
}

func (v *formatValidator) RuleKey() string  { return v.ruleKey }
func (v *formatValidator) RuleName() string { return v.ruleName }

func (v *formatValidator) Validate(_ context.Context, s *Subject) []ValidationResult {
	val := s.Value(v.field)
	if val == "" {
		return []ValidationResult{pass(v.field)}
	}
	if ok, msg := v.check(val); !ok {
		return []ValidationResult{fail(v.field, val, msg)}
	}
	return []ValidationResult{pass(v.field)}
}

func coordinateCheck(label string, limit float64) func(string) (bool, string) {
	return func(val string) (bool, string) {
		f, err := values.ParseCoordinate(val)
		if err != nil {
			return false, fmt.Sprintf("%s must be numeric", label)
		}
		if f < -limit || f > limit {
			return false, fmt.Sprintf("%s must be between %g and %g", label, -limit, limit)
		}
		return true, ""
	}
}

func positiveCheck(label string) func(string) (bool, string) {
	return func(val string) (bool, string) {
		f, err := values.ParseAmount(val)
		if err != nil {
			return false, fmt.Sprintf("%s must be numeric", label)
		}
		if f <= 0 {
			return false, fmt.Sprintf("%s must be greater than zero", label)
		}
		return true, ""
	}
}

func categoryCheck(val string) (bool, string) {
	if _, ok := values.ParseCategory(val); !ok {
		return false, "category must be digital or static"
	}
	return true, ""
}

// FormatValidators returns the numeric range and category validators.
func FormatValidators() []*formatValidator {
	return []*formatValidator{
		{
			ruleKey: "format.latitude", ruleName: "Format: Latitude",
			field: mapping.FieldLatitude, check: coordinateCheck("latitude", 90),
		},
		{
			ruleKey: "format.longitude", ruleName: "Format: Longitude",
			field: mapping.FieldLongitude, check: coordinateCheck("longitude", 180),
		},
		{
			ruleKey: "format.frame_category", ruleName: "Format: Category",
			field: mapping.FieldCategory, check: categoryCheck,
		},
		{
			ruleKey: "format.public_price", ruleName: "Format: Public Price",
			field: mapping.FieldPublicPrice, check: positiveCheck("price"),
		},
		{
			ruleKey: "format.width", ruleName: "Format: Width",
			field: mapping.FieldWidth, check: positiveCheck("width"),
		},
		{
			ruleKey: "format.height", ruleName: "Format: Height",
			field: mapping.FieldHeight, check: positiveCheck("height"),
		},
	}
}
