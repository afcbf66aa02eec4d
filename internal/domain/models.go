package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// RawRow is one data row of an uploaded file keyed by cleaned header.
// Number is the 1-based spreadsheet row; the header occupies row 1.
type RawRow struct {
	Number int               `json:"row"`
	Values map[string]string `json:"values"`
}

// Get returns the trimmed cell under header, or "" when absent.
func (r RawRow) Get(header string) string {
	if header == "" {
		return ""
	}
	return strings.TrimSpace(r.Values[header])
}

// ColumnMapping maps a canonical field key to the uploader's header.
type ColumnMapping map[string]string

// Value reads the cell mapped to key from row.
func (m ColumnMapping) Value(row RawRow, key string) string {
	return row.Get(m[key])
}

// Mapped reports whether key has a non-empty header assigned.
func (m ColumnMapping) Mapped(key string) bool {
	return strings.TrimSpace(m[key]) != ""
}

// Clone returns an independent copy.
func (m ColumnMapping) Clone() ColumnMapping {
	out := make(ColumnMapping, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// FrameGroup is every raw row sharing one identifier. Each row is one sellable slot.
type FrameGroup struct {
	Identifier string   `json:"identifier"`
	Synthetic  bool     `json:"synthetic,omitempty"`
	Rows       []RawRow `json:"rows"`
}

// First returns the row that supplies the group's attributes.
func (g FrameGroup) First() RawRow {
	if len(g.Rows) == 0 {
		return RawRow{}
	}
	return g.Rows[0]
}

// SlotCount is the number of sellable slots, always equal to the row count.
func (g FrameGroup) SlotCount() int {
	return len(g.Rows)
}

// PriceTiers holds the published monthly rate and every tier derived from it.
type PriceTiers struct {
	Monthly     float64 `json:"monthly"`
	FourteenDay float64 `json:"fourteen_day,omitempty"`
	Weekly      float64 `json:"weekly"`
	Daily       float64 `json:"daily,omitempty"`
	Spot        float64 `json:"spot,omitempty"`
}

// InventoryRecord is a validated, priced frame ready to persist.
type InventoryRecord struct {
	ID               uuid.UUID         `json:"id"`
	OwnerID          uuid.UUID         `json:"owner_id"`
	ExternalID       string            `json:"external_id"`
	Name             string            `json:"name"`
	VenueType        string            `json:"venue_type"`
	Address          string            `json:"address"`
	City             string            `json:"city,omitempty"`
	State            string            `json:"state,omitempty"`
	ZipCode          string            `json:"zip_code,omitempty"`
	Category         FrameCategory     `json:"category"`
	Latitude         float64           `json:"latitude"`
	Longitude        float64           `json:"longitude"`
	WidthM           float64           `json:"width_m"`
	HeightM          float64           `json:"height_m"`
	Prices           PriceTiers        `json:"prices"`
	ContractingModes []ContractingMode `json:"contracting_modes"`
	SlotsAvailable   int               `json:"spots_disponibles"`
	SlotsPerDay      int               `json:"slots_per_day,omitempty"`
	DailyImpressions int               `json:"daily_impressions,omitempty"`
	Description      string            `json:"description,omitempty"`
	Photos           []string          `json:"photos,omitempty"`
	Metadata         map[string]string `json:"metadata,omitempty"`
	SourceRow        int               `json:"source_row"`
	CreatedAt        time.Time         `json:"created_at"`
}

// ValidationError is one row-level problem found before commit.
type ValidationError struct {
	Row        int       `json:"row"`
	Identifier string    `json:"identifier"`
	Field      string    `json:"field"`
	Value      string    `json:"value"`
	Message    string    `json:"message"`
	Kind       ErrorKind `json:"kind"`
}

// PersistenceError records a failed insert during commit.
type PersistenceError struct {
	Row        int    `json:"row"`
	Identifier string `json:"identifier"`
	Message    string `json:"message"`
}
