package validator

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"adframes/internal/port"
)

// Duplicate matching modes.
const (
	MatchContains = "contains"
	MatchExact    = "exact"
)

// DuplicateDetector finds uploaded identifiers that already exist for an owner.
type DuplicateDetector struct {
	finder port.ExistingFrameFinder
	mode   string
}

// NewDuplicateDetector returns a detector. Unknown modes fall back to MatchContains.
func NewDuplicateDetector(finder port.ExistingFrameFinder, mode string) *DuplicateDetector {
	if mode != MatchExact {
		mode = MatchContains
	}
	return &DuplicateDetector{finder: finder, mode: mode}
}

// Mode reports the active matching mode.
func (d *DuplicateDetector) Mode() string { return d.mode }

// Detect returns the identifiers that collide with persisted frames, in the
// order given. In contains mode an identifier collides when any stored name
// contains it, ignoring case. In exact mode it must equal a stored
// identifier, ignoring case.
func (d *DuplicateDetector) Detect(ctx context.Context, ownerID uuid.UUID, identifiers []string) ([]string, error) {
	if len(identifiers) == 0 {
		return nil, nil
	}
	if d.mode == MatchExact {
		existing, err := d.finder.QueryExistingIdentifiers(ctx, ownerID)
		if err != nil {
			return nil, fmt.Errorf("querying existing identifiers: %w", err)
		}
		set := make(map[string]bool, len(existing))
		for _, e := range existing {
			set[strings.ToLower(strings.TrimSpace(e))] = true
		}
		var dups []string
		for _, id := range identifiers {
			if set[strings.ToLower(id)] {
				dups = append(dups, id)
			}
		}
		return dups, nil
	}

	names, err := d.finder.QueryExistingNames(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("querying existing names: %w", err)
	}
	lowered := make([]string, len(names))
	for i, n := range names {
		lowered[i] = strings.ToLower(n)
	}
	var dups []string
	for _, id := range identifiers {
		needle := strings.ToLower(id)
		for _, n := range lowered {
			if strings.Contains(n, needle) {
				dups = append(dups, id)
				break
			}
		}
	}
	return dups, nil
}
