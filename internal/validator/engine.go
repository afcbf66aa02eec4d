package validator

import (
	"context"
	"log"

	"adframes/internal/domain"
	"adframes/internal/validator/frame"
)

// Engine runs every registered rule against frame groups.
type Engine struct {
	registry *Registry
}

// NewEngine creates a new validation engine.
func NewEngine(registry *Registry) *Engine {
	return &Engine{registry: registry}
}

// Report is the outcome of validating a batch of groups.
type Report struct {
	Valid  []domain.FrameGroup
	Errors []domain.ValidationError
}

// ValidateGroups checks the first row of every group. It never stops early:
// every failed rule of every group is reported, and only groups with no
// failures are returned as valid.
func (e *Engine) ValidateGroups(ctx context.Context, groups []domain.FrameGroup, mapping domain.ColumnMapping) *Report {
	rep := &Report{}
	rules := e.registry.All()
	for i := range groups {
		g := &groups[i]
		s := &frame.Subject{Identifier: g.Identifier, Row: g.First(), Mapping: mapping}
		failed := false
		for _, v := range rules {
			for _, r := range v.Validate(ctx, s) {
				if r.Passed {
					continue
				}
				failed = true
				rep.Errors = append(rep.Errors, domain.ValidationError{
					Row:        s.Row.Number,
					Identifier: g.Identifier,
					Field:      r.Field,
					Value:      r.Value,
					Message:    r.Message,
					Kind:       domain.KindFieldValidation,
				})
			}
		}
		if !failed {
			rep.Valid = append(rep.Valid, *g)
		}
	}
	log.Printf("validator.Engine: %d groups checked, %d valid, %d errors", len(groups), len(rep.Valid), len(rep.Errors))
	return rep
}
