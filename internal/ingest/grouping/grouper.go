// Package grouping folds raw rows that share an identifier into frame groups.
package grouping

import (
	"fmt"

	"adframes/internal/domain"
)

// Group collects rows by the value mapped to keyField, preserving the order
// in which identifiers first appear. Rows with an empty identifier are
// reported and left out. When keyField is unmapped every row becomes its own
// group under a synthetic ROW-<n> identifier.
func Group(rows []domain.RawRow, mapping domain.ColumnMapping, keyField string) ([]domain.FrameGroup, []domain.ValidationError) {
	if !mapping.Mapped(keyField) {
		groups := make([]domain.FrameGroup, 0, len(rows))
		for _, row := range rows {
			groups = append(groups, domain.FrameGroup{
				Identifier: fmt.Sprintf("ROW-%d", row.Number),
				Synthetic:  true,
				Rows:       []domain.RawRow{row},
			})
		}
		return groups, nil
	}

	var (
		groups []domain.FrameGroup
		errs   []domain.ValidationError
		index  = make(map[string]int)
	)
	for _, row := range rows {
		id := mapping.Value(row, keyField)
		if id == "" {
			errs = append(errs, domain.ValidationError{
				Row:     row.Number,
				Field:   keyField,
				Message: "row has no identifier",
				Kind:    domain.KindRowWithoutIdentifier,
			})
			continue
		}
		if i, ok := index[id]; ok {
			groups[i].Rows = append(groups[i].Rows, row)
			continue
		}
		index[id] = len(groups)
		groups = append(groups, domain.FrameGroup{Identifier: id, Rows: []domain.RawRow{row}})
	}
	return groups, errs
}

// Identifiers returns the non-synthetic identifiers of groups.
func Identifiers(groups []domain.FrameGroup) []string {
	ids := make([]string, 0, len(groups))
	for i := range groups {
		if !groups[i].Synthetic {
			ids = append(ids, groups[i].Identifier)
		}
	}
	return ids
}
