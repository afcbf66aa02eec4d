package ingest

import (
	"adframes/internal/config"
	"adframes/internal/ingest/mapping"
	"adframes/internal/ingest/pricing"
	"adframes/internal/port"
	"adframes/internal/validator"
)

// NewPipeline builds a pipeline over the canonical schema from configuration.
// finder may be nil when no duplicate check is wanted, as in offline checks.
func NewPipeline(cfg *config.Config, finder port.ExistingFrameFinder) *Pipeline {
	fields := mapping.CanonicalFields()
	p := &Pipeline{
		Fields:        fields,
		GroupingField: cfg.Upload.GroupingField,
		PreviewSize:   cfg.Upload.PreviewSize,
		Engine:        validator.NewEngine(validator.NewBuiltinRegistry(fields)),
		Deriver:       pricing.NewDeriver(cfg.Pricing.SlotsPerDay),
	}
	if finder != nil {
		p.Detector = validator.NewDuplicateDetector(finder, cfg.Dedupe.MatchMode)
	}
	return p
}
