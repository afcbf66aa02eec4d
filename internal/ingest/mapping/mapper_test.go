package mapping

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adframes/internal/domain"
)

func tierOf(matches []Match, field string) string {
	for _, m := range matches {
		if m.Field == field {
			return m.Tier
		}
	}
	return ""
}

func TestAutoMap_EnglishLabels(t *testing.T) {
	hdrs := []string{"Frame ID", "Venue Type", "Address", "Public Price", "Latitude",
		"Longitude", "Frame Category", "Width", "Height"}
	m, matches := AutoMap(CanonicalFields(), hdrs)

	assert.Equal(t, "Frame ID", m[FieldFrameID])
	assert.Equal(t, "Public Price", m[FieldPublicPrice])
	assert.Equal(t, "Frame Category", m[FieldCategory])
	assert.Equal(t, "label", tierOf(matches, FieldWidth))
	assert.NoError(t, CheckRequired(CanonicalFields(), m))
}

func TestAutoMap_SpanishAliases(t *testing.T) {
	hdrs := []string{"Clave", "Tipo de lugar", "Dirección", "Precio Público", "Latitud",
		"Longitud", "Categoría", "Ancho", "Alto"}
	m, matches := AutoMap(CanonicalFields(), hdrs)

	assert.Equal(t, "Clave", m[FieldFrameID])
	assert.Equal(t, "Dirección", m[FieldAddress])
	assert.Equal(t, "Precio Público", m[FieldPublicPrice])
	assert.Equal(t, "Categoría", m[FieldCategory])
	assert.Equal(t, "alias", tierOf(matches, FieldPublicPrice))
	assert.NoError(t, CheckRequired(CanonicalFields(), m))
}

func TestAutoMap_PriceVariantResolvedByContainment(t *testing.T) {
	hdrs := []string{"Dirección", "Precio Público (MXN)"}
	m, matches := AutoMap(CanonicalFields(), hdrs)

	assert.Equal(t, "Precio Público (MXN)", m[FieldPublicPrice])
	assert.Equal(t, "contains", tierOf(matches, FieldPublicPrice))
}

func TestAutoMap_ExactLabelBeatsContainment(t *testing.T) {
	fields := []FieldSpec{
		{Key: "price_list", Label: "Price List"},
		{Key: "public_price", Label: "Price"},
	}
	m, _ := AutoMap(fields, []string{"Price"})

	assert.Equal(t, "Price", m["public_price"])
	_, mapped := m["price_list"]
	assert.False(t, mapped)
}

func TestAutoMap_ShortHeadersSkipContainment(t *testing.T) {
	fields := []FieldSpec{{Key: "frame_id", Label: "Frame ID"}}
	m, _ := AutoMap(fields, []string{"ID"})
	assert.Empty(t, m)
}

func TestAutoMap_PrefersMostSpecificContainment(t *testing.T) {
	fields := []FieldSpec{
		{Key: "photo", Label: "Photo"},
		{Key: "photo_url_1", Label: "Photo URL 1"},
	}
	m, _ := AutoMap(fields, []string{"Photo URL 1 link"})

	assert.Equal(t, "Photo URL 1 link", m["photo_url_1"])
	_, mapped := m["photo"]
	assert.False(t, mapped)
}

func TestAutoMap_HeaderAssignedOnce(t *testing.T) {
	fields := []FieldSpec{
		{Key: "address", Label: "Address"},
		{Key: "billing_address", Label: "Billing Address"},
	}
	m, _ := AutoMap(fields, []string{"Address"})

	assert.Equal(t, "Address", m["address"])
	assert.NotContains(t, m, "billing_address")
}

func TestCheckRequired_NamesEveryMissingField(t *testing.T) {
	m := domain.ColumnMapping{FieldAddress: "Address", FieldLatitude: "Lat"}
	err := CheckRequired(CanonicalFields(), m)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrMissingRequiredColumn))

	var missing *domain.MissingColumnsError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, []string{FieldVenueType, FieldPublicPrice, FieldLongitude, FieldCategory, FieldWidth, FieldHeight}, missing.Fields)
}

func TestApplyOverrides(t *testing.T) {
	fields := CanonicalFields()
	hdrs := []string{"Dirección", "Costo", "Notas"}
	base, _ := AutoMap(fields, hdrs)

	got, err := ApplyOverrides(fields, hdrs, base, map[string]string{
		FieldPublicPrice: "Costo",
		FieldDescription: "",
	})
	require.NoError(t, err)
	assert.Equal(t, "Costo", got[FieldPublicPrice])
	assert.NotContains(t, got, FieldDescription)
	assert.Equal(t, "Notas", base[FieldDescription], "original mapping must not change")
}

func TestApplyOverrides_Rejected(t *testing.T) {
	fields := CanonicalFields()
	hdrs := []string{"Address"}

	_, err := ApplyOverrides(fields, hdrs, domain.ColumnMapping{}, map[string]string{"nope": "Address"})
	assert.ErrorIs(t, err, domain.ErrUnknownField)

	_, err = ApplyOverrides(fields, hdrs, domain.ColumnMapping{}, map[string]string{FieldAddress: "Calle"})
	assert.ErrorIs(t, err, domain.ErrUnknownHeader)
}

func TestUnmappedHeaders(t *testing.T) {
	m := domain.ColumnMapping{FieldAddress: "Address"}
	assert.Equal(t, []string{"Notes", "Extra"}, UnmappedHeaders([]string{"Address", "Notes", "Extra"}, m))
}

func TestLoadFields_Rejects(t *testing.T) {
	_, err := LoadFields([]byte("- key: a\n  label: A\n- key: a\n  label: B\n"))
	assert.Error(t, err)
	_, err = LoadFields([]byte("- key: a\n"))
	assert.Error(t, err)
}

func TestCanonicalFields_TemplateExamples(t *testing.T) {
	for _, f := range CanonicalFields() {
		assert.Len(t, f.Example, 2, f.Key)
	}
}
