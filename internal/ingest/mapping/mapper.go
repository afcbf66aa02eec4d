package mapping

import (
	"fmt"
	"sort"
	"strings"

	"adframes/internal/domain"
	"adframes/internal/ingest/headers"
)

// minFuzzyLen is the shortest normalized string allowed in containment matching.
// Shorter headers such as "id" or "cp" would otherwise match almost anything.
const minFuzzyLen = 4

type tier int

const (
	tierLabel tier = iota + 1
	tierAlias
	tierKey
	tierContains
)

// Match explains how a field was mapped.
type Match struct {
	Field  string `json:"field"`
	Header string `json:"header"`
	Tier   string `json:"tier"`
}

func (t tier) String() string {
	switch t {
	case tierLabel:
		return "label"
	case tierAlias:
		return "alias"
	case tierKey:
		return "key"
	case tierContains:
		return "contains"
	default:
		return "override"
	}
}

// AutoMap proposes a mapping for headers. Exact tiers (label, alias, key) are
// resolved for every field before containment matching, and each header is
// assigned to at most one field.
func AutoMap(fields []FieldSpec, hdrs []string) (domain.ColumnMapping, []Match) {
	norm := make([]string, len(hdrs))
	for i, h := range hdrs {
		norm[i] = headers.NormalizeForMatching(h)
	}

	mapping := make(domain.ColumnMapping, len(fields))
	claimed := make([]bool, len(hdrs))
	var matches []Match

	assign := func(f FieldSpec, idx int, t tier) {
		mapping[f.Key] = hdrs[idx]
		claimed[idx] = true
		matches = append(matches, Match{Field: f.Key, Header: hdrs[idx], Tier: t.String()})
	}

	exactTiers := []struct {
		t       tier
		targets func(FieldSpec) []string
	}{
		{tierLabel, func(f FieldSpec) []string { return []string{f.Label} }},
		{tierAlias, func(f FieldSpec) []string { return f.Aliases }},
		{tierKey, func(f FieldSpec) []string { return []string{f.Key} }},
	}
	for _, et := range exactTiers {
		for _, f := range fields {
			if _, done := mapping[f.Key]; done {
				continue
			}
			if idx := findExact(norm, claimed, et.targets(f)); idx >= 0 {
				assign(f, idx, et.t)
			}
		}
	}

	for _, c := range containmentCandidates(fields, norm, claimed, mapping) {
		if _, done := mapping[c.field.Key]; done || claimed[c.header] {
			continue
		}
		assign(c.field, c.header, tierContains)
	}

	return mapping, matches
}

func findExact(norm []string, claimed []bool, targets []string) int {
	for _, t := range targets {
		nt := headers.NormalizeForMatching(t)
		if nt == "" {
			continue
		}
		for i, h := range norm {
			if !claimed[i] && h == nt {
				return i
			}
		}
	}
	return -1
}

type candidate struct {
	field    FieldSpec
	order    int
	header   int
	distance int
}

// containmentCandidates lists every (field, header) pair where the header
// and the field's label, key or one of its aliases contain one another, most
// specific first.
func containmentCandidates(fields []FieldSpec, norm []string, claimed []bool, mapping domain.ColumnMapping) []candidate {
	var out []candidate
	for order, f := range fields {
		if _, done := mapping[f.Key]; done {
			continue
		}
		targets := append([]string{f.Label, f.Key}, f.Aliases...)
		for i, h := range norm {
			if claimed[i] || len(h) < minFuzzyLen {
				continue
			}
			best := -1
			for _, t := range targets {
				nt := headers.NormalizeForMatching(t)
				if len(nt) < minFuzzyLen || !containsEither(h, nt) {
					continue
				}
				if d := abs(len(h) - len(nt)); best < 0 || d < best {
					best = d
				}
			}
			if best >= 0 {
				out = append(out, candidate{field: f, order: order, header: i, distance: best})
			}
		}
	}
	sort.SliceStable(out, func(a, b int) bool {
		if out[a].distance != out[b].distance {
			return out[a].distance < out[b].distance
		}
		if out[a].order != out[b].order {
			return out[a].order < out[b].order
		}
		return out[a].header < out[b].header
	})
	return out
}

func containsEither(a, b string) bool {
	return strings.Contains(a, b) || strings.Contains(b, a)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// ApplyOverrides returns a copy of mapping with the caller's edits applied.
// An empty header clears the field.
func ApplyOverrides(fields []FieldSpec, hdrs []string, mapping domain.ColumnMapping, overrides map[string]string) (domain.ColumnMapping, error) {
	known := make(map[string]bool, len(hdrs))
	for _, h := range hdrs {
		known[h] = true
	}
	out := mapping.Clone()
	for key, header := range overrides {
		if _, ok := Lookup(fields, key); !ok {
			return nil, fmt.Errorf("%w: %q", domain.ErrUnknownField, key)
		}
		if header == "" {
			delete(out, key)
			continue
		}
		if !known[header] {
			return nil, fmt.Errorf("%w: %q", domain.ErrUnknownHeader, header)
		}
		out[key] = header
	}
	return out, nil
}

// CheckRequired fails with *domain.MissingColumnsError naming every required
// field without a header.
func CheckRequired(fields []FieldSpec, mapping domain.ColumnMapping) error {
	var missing []string
	for _, key := range RequiredKeys(fields) {
		if !mapping.Mapped(key) {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return &domain.MissingColumnsError{Fields: missing}
	}
	return nil
}

// UnmappedHeaders returns headers not used by any field, in file order.
func UnmappedHeaders(hdrs []string, mapping domain.ColumnMapping) []string {
	used := make(map[string]bool, len(mapping))
	for _, h := range mapping {
		used[h] = true
	}
	var out []string
	for _, h := range hdrs {
		if !used[h] {
			out = append(out, h)
		}
	}
	return out
}
