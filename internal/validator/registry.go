package validator

import (
	"adframes/internal/ingest/mapping"
	"adframes/internal/validator/frame"
)

// Registry maps rule keys to Validator implementations, keeping registration order.
type Registry struct {
	validators map[string]Validator
	order      []string
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{validators: make(map[string]Validator)}
}

// NewBuiltinRegistry registers every built-in frame rule for fields.
func NewBuiltinRegistry(fields []mapping.FieldSpec) *Registry {
	r := NewRegistry()
	for _, v := range frame.AllBuiltinValidators(fields) {
		r.Register(v)
	}
	return r
}

// Register adds a validator to the registry. Re-registering a key replaces
// the validator in place.
func (r *Registry) Register(v Validator) {
	if _, ok := r.validators[v.RuleKey()]; !ok {
		r.order = append(r.order, v.RuleKey())
	}
	r.validators[v.RuleKey()] = v
}

// Get returns the validator for a given rule key, or nil if not found.
func (r *Registry) Get(key string) Validator {
	return r.validators[key]
}

// All returns all registered validators in registration order.
func (r *Registry) All() []Validator {
	out := make([]Validator, 0, len(r.order))
	for _, k := range r.order {
		out = append(out, r.validators[k])
	}
	return out
}
