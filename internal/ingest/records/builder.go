// Package records turns validated frame groups into inventory records.
package records

import (
	"fmt"

	"github.com/google/uuid"

	"adframes/internal/domain"
	"adframes/internal/ingest/links"
	"adframes/internal/ingest/mapping"
	"adframes/internal/ingest/pricing"
	"adframes/internal/ingest/values"
)

// Builder converts groups under one mapping. Headers is the full upload header
// list; columns not mapped to any field are kept as record metadata.
type Builder struct {
	Mapping domain.ColumnMapping
	Headers []string
	Deriver *pricing.Deriver
	OwnerID uuid.UUID
}

// Name is the display name stored for a frame.
func Name(identifier string, category domain.FrameCategory) string {
	return fmt.Sprintf("%s - %s", identifier, category.Label())
}

// Build converts one group. The group is expected to have passed validation;
// a value that still fails to parse is returned as an error.
func (b *Builder) Build(g domain.FrameGroup) (domain.InventoryRecord, error) {
	row := g.First()
	val := func(field string) string { return b.Mapping.Value(row, field) }

	category, ok := values.ParseCategory(val(mapping.FieldCategory))
	if !ok {
		return domain.InventoryRecord{}, fmt.Errorf("group %s: invalid category %q", g.Identifier, val(mapping.FieldCategory))
	}
	rate, err := values.ParseAmount(val(mapping.FieldPublicPrice))
	if err != nil {
		return domain.InventoryRecord{}, fmt.Errorf("group %s: price: %w", g.Identifier, err)
	}
	lat, err := values.ParseCoordinate(val(mapping.FieldLatitude))
	if err != nil {
		return domain.InventoryRecord{}, fmt.Errorf("group %s: latitude: %w", g.Identifier, err)
	}
	lng, err := values.ParseCoordinate(val(mapping.FieldLongitude))
	if err != nil {
		return domain.InventoryRecord{}, fmt.Errorf("group %s: longitude: %w", g.Identifier, err)
	}
	width, err := values.ParseAmount(val(mapping.FieldWidth))
	if err != nil {
		return domain.InventoryRecord{}, fmt.Errorf("group %s: width: %w", g.Identifier, err)
	}
	height, err := values.ParseAmount(val(mapping.FieldHeight))
	if err != nil {
		return domain.InventoryRecord{}, fmt.Errorf("group %s: height: %w", g.Identifier, err)
	}
	tiers, modes, err := b.Deriver.Derive(rate, category)
	if err != nil {
		return domain.InventoryRecord{}, fmt.Errorf("group %s: pricing: %w", g.Identifier, err)
	}

	rec := domain.InventoryRecord{
		ID:               uuid.New(),
		OwnerID:          b.OwnerID,
		ExternalID:       g.Identifier,
		Name:             Name(g.Identifier, category),
		VenueType:        val(mapping.FieldVenueType),
		Address:          val(mapping.FieldAddress),
		City:             val(mapping.FieldCity),
		State:            val(mapping.FieldState),
		ZipCode:          val(mapping.FieldZipCode),
		Category:         category,
		Latitude:         lat,
		Longitude:        lng,
		WidthM:           width,
		HeightM:          height,
		Prices:           tiers,
		ContractingModes: modes,
		SlotsAvailable:   g.SlotCount(),
		Description:      val(mapping.FieldDescription),
		SourceRow:        row.Number,
	}
	if category == domain.CategoryDigital {
		rec.SlotsPerDay = b.Deriver.SlotsPerDay
	}
	// Impressions are optional; unparseable values are left at zero.
	if n, err := values.ParseCount(val(mapping.FieldDailyImpressions)); err == nil {
		rec.DailyImpressions = n
	}

	photoCells := make([]string, 0, len(mapping.PhotoFields))
	for _, f := range mapping.PhotoFields {
		photoCells = append(photoCells, val(f))
	}
	rec.Photos = links.Photos(photoCells...)
	rec.Metadata = b.metadata(row)
	return rec, nil
}

// BuildAll converts groups in order, stopping at the first failure.
func (b *Builder) BuildAll(groups []domain.FrameGroup) ([]domain.InventoryRecord, error) {
	out := make([]domain.InventoryRecord, 0, len(groups))
	for i := range groups {
		rec, err := b.Build(groups[i])
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

func (b *Builder) metadata(row domain.RawRow) map[string]string {
	var md map[string]string
	for _, h := range mapping.UnmappedHeaders(b.Headers, b.Mapping) {
		v := row.Get(h)
		if v == "" {
			continue
		}
		if md == nil {
			md = make(map[string]string)
		}
		md[h] = v
	}
	return md
}
