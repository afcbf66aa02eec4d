// Package ingest wires the ingestion stages together. Each stage takes an
// upload session by value and returns the next one, so every step can be
// exercised on its own.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"adframes/internal/domain"
	"adframes/internal/ingest/decode"
	"adframes/internal/ingest/grouping"
	"adframes/internal/ingest/mapping"
	"adframes/internal/ingest/pricing"
	"adframes/internal/ingest/records"
	"adframes/internal/validator"
)

// DefaultPreviewSize is how many records a preview shows.
const DefaultPreviewSize = 10

// Pipeline holds the configured stages.
type Pipeline struct {
	Fields        []mapping.FieldSpec
	GroupingField string
	PreviewSize   int
	Engine        *validator.Engine
	Deriver       *pricing.Deriver
	Detector      *validator.DuplicateDetector
}

// Evaluation is the result of grouping, validating and duplicate-checking a
// session's rows under its current mapping.
type Evaluation struct {
	Groups     []domain.FrameGroup
	Valid      []domain.FrameGroup
	Errors     []domain.ValidationError
	Duplicates []string
}

// Start fills a freshly decoded session and maps its headers automatically.
func (p *Pipeline) Start(s domain.UploadSession, res *decode.Result) domain.UploadSession {
	s.Encoding = res.Encoding
	s.Headers = res.Headers
	s.Rows = res.Rows
	m, _ := mapping.AutoMap(p.Fields, res.Headers)
	return p.applyMapping(s, m)
}

// Remap applies caller overrides to the session's mapping. Derived results
// are discarded so the next preview re-validates.
func (p *Pipeline) Remap(s domain.UploadSession, overrides map[string]string) (domain.UploadSession, error) {
	switch s.State {
	case domain.SessionIdle, domain.SessionMapped, domain.SessionPreviewed:
	default:
		return s, fmt.Errorf("%w: cannot change mapping while %s", domain.ErrInvalidSessionState, s.State)
	}
	m, err := mapping.ApplyOverrides(p.Fields, s.Headers, s.Mapping, overrides)
	if err != nil {
		return s, err
	}
	return p.applyMapping(s, m), nil
}

func (p *Pipeline) applyMapping(s domain.UploadSession, m domain.ColumnMapping) domain.UploadSession {
	s.Mapping = m
	s.MissingFields = nil
	s.State = domain.SessionMapped
	if err := mapping.CheckRequired(p.Fields, m); err != nil {
		var mc *domain.MissingColumnsError
		if errors.As(err, &mc) {
			s.MissingFields = mc.Fields
		}
		s.State = domain.SessionIdle
	}
	s.GroupCount = 0
	s.ValidCount = 0
	s.Preview = nil
	s.ValidationErrors = nil
	s.Duplicates = nil
	s.Blocked = false
	return s
}

// Evaluate groups, validates and, given a detector, checks the session for
// duplicates. It fails with a MissingColumnsError when a required field is
// unmapped.
func (p *Pipeline) Evaluate(ctx context.Context, s *domain.UploadSession) (*Evaluation, error) {
	if err := mapping.CheckRequired(p.Fields, s.Mapping); err != nil {
		return nil, err
	}
	groups, rowErrs := grouping.Group(s.Rows, s.Mapping, p.groupingField())
	rep := p.Engine.ValidateGroups(ctx, groups, s.Mapping)

	errs := append(rowErrs, rep.Errors...)
	sort.SliceStable(errs, func(i, j int) bool { return errs[i].Row < errs[j].Row })

	ev := &Evaluation{Groups: groups, Valid: rep.Valid, Errors: errs}
	if p.Detector == nil {
		return ev, nil
	}
	dups, err := p.Detector.Detect(ctx, s.OwnerID, grouping.Identifiers(groups))
	if err != nil {
		return nil, fmt.Errorf("detecting duplicates: %w", err)
	}
	ev.Duplicates = dups
	return ev, nil
}

// Preview transforms the first valid groups without persisting anything.
func (p *Pipeline) Preview(ctx context.Context, s domain.UploadSession) (domain.UploadSession, error) {
	switch s.State {
	case domain.SessionIdle, domain.SessionMapped, domain.SessionPreviewed:
	default:
		return s, fmt.Errorf("%w: cannot preview while %s", domain.ErrInvalidSessionState, s.State)
	}
	ev, err := p.Evaluate(ctx, &s)
	if err != nil {
		return s, err
	}
	subset := ev.Valid
	if n := p.previewSize(); len(subset) > n {
		subset = subset[:n]
	}
	recs, err := p.builder(&s).BuildAll(subset)
	if err != nil {
		return s, err
	}

	s.GroupCount = len(ev.Groups)
	s.ValidCount = len(ev.Valid)
	s.Preview = recs
	s.ValidationErrors = ev.Errors
	s.Duplicates = ev.Duplicates
	s.Blocked = len(ev.Duplicates) > 0
	s.State = domain.SessionPreviewed
	return s, nil
}

// Committable re-evaluates the session and builds every valid record. Any
// duplicate blocks the whole session.
func (p *Pipeline) Committable(ctx context.Context, s *domain.UploadSession) ([]domain.InventoryRecord, *Evaluation, error) {
	ev, err := p.Evaluate(ctx, s)
	if err != nil {
		return nil, nil, err
	}
	if len(ev.Duplicates) > 0 {
		return nil, ev, &domain.DuplicateIdentifiersError{Identifiers: ev.Duplicates}
	}
	if len(ev.Valid) == 0 {
		return nil, ev, domain.ErrNothingToCommit
	}
	recs, err := p.builder(s).BuildAll(ev.Valid)
	if err != nil {
		return nil, ev, err
	}
	return recs, ev, nil
}

func (p *Pipeline) builder(s *domain.UploadSession) *records.Builder {
	return &records.Builder{Mapping: s.Mapping, Headers: s.Headers, Deriver: p.Deriver, OwnerID: s.OwnerID}
}

func (p *Pipeline) groupingField() string {
	if p.GroupingField == "" {
		return mapping.FieldFrameID
	}
	return p.GroupingField
}

func (p *Pipeline) previewSize() int {
	if p.PreviewSize <= 0 {
		return DefaultPreviewSize
	}
	return p.PreviewSize
}
