// Package mapping holds the canonical frame schema and resolves it against
// uploaded headers.
package mapping

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Canonical field keys referenced by the pipeline.
const (
	FieldFrameID          = "frame_id"
	FieldVenueType        = "venue_type"
	FieldAddress          = "address"
	FieldCity             = "city"
	FieldState            = "state"
	FieldZipCode          = "zip_code"
	FieldPublicPrice      = "public_price"
	FieldLatitude         = "latitude"
	FieldLongitude        = "longitude"
	FieldCategory         = "frame_category"
	FieldWidth            = "width"
	FieldHeight           = "height"
	FieldDailyImpressions = "daily_impressions"
	FieldDescription      = "description"
)

// PhotoFields are the optional photo-link columns in order.
var PhotoFields = []string{"photo_url_1", "photo_url_2", "photo_url_3"}

// FieldSpec describes one canonical field.
type FieldSpec struct {
	Key      string   `yaml:"key" json:"key"`
	Label    string   `yaml:"label" json:"label"`
	Required bool     `yaml:"required" json:"required"`
	Aliases  []string `yaml:"aliases" json:"aliases"`
	// Example holds the two template example values.
	Example []string `yaml:"example" json:"-"`
}

//go:embed fields.yaml
var fieldsYAML []byte

var canonical = mustLoad(fieldsYAML)

func mustLoad(data []byte) []FieldSpec {
	fields, err := LoadFields(data)
	if err != nil {
		panic(err)
	}
	return fields
}

// LoadFields parses a YAML schema document.
func LoadFields(data []byte) ([]FieldSpec, error) {
	var fields []FieldSpec
	if err := yaml.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("parsing field schema: %w", err)
	}
	seen := make(map[string]bool, len(fields))
	for i := range fields {
		f := &fields[i]
		if f.Key == "" || f.Label == "" {
			return nil, fmt.Errorf("field %d: key and label are required", i)
		}
		if seen[f.Key] {
			return nil, fmt.Errorf("field %q declared twice", f.Key)
		}
		seen[f.Key] = true
	}
	return fields, nil
}

// CanonicalFields returns a copy of the built-in schema.
func CanonicalFields() []FieldSpec {
	out := make([]FieldSpec, len(canonical))
	copy(out, canonical)
	return out
}

// Lookup finds a field by key.
func Lookup(fields []FieldSpec, key string) (FieldSpec, bool) {
	for _, f := range fields {
		if f.Key == key {
			return f, true
		}
	}
	return FieldSpec{}, false
}

// RequiredKeys returns the keys of every required field in schema order.
func RequiredKeys(fields []FieldSpec) []string {
	var keys []string
	for _, f := range fields {
		if f.Required {
			keys = append(keys, f.Key)
		}
	}
	return keys
}
