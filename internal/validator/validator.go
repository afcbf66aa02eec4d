package validator

import (
	"context"

	"adframes/internal/validator/frame"
)

// Validator is the interface for a single built-in validation rule.
type Validator interface {
	Validate(ctx context.Context, s *frame.Subject) []frame.ValidationResult
	RuleKey() string
	RuleName() string
}
