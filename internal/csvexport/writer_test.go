package csvexport

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"adframes/internal/domain"
	"adframes/internal/ingest/mapping"
)

func TestWriteReport(t *testing.T) {
	var buf bytes.Buffer
	err := WriteReport(&buf,
		[]domain.ValidationError{
			{Row: 4, Identifier: "FR-2", Field: "latitude", Value: "abc", Message: "latitude must be numeric"},
			{Row: 7, Field: "frame_id", Message: "row has no identifier"},
		},
		[]domain.PersistenceError{{Row: 8, Identifier: "FR-7", Message: "insert failed"}},
	)
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(buf.Bytes(), BOM))

	rows, err := csv.NewReader(bytes.NewReader(buf.Bytes()[len(BOM):])).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"Row", "Identifier", "Field", "Value", "Error"}, rows[0])
	assert.Equal(t, []string{"4", "FR-2", "latitude", "abc", "latitude must be numeric"}, rows[1])
	assert.Equal(t, []string{"7", "", "frame_id", "", "row has no identifier"}, rows[2])
	assert.Equal(t, []string{"8", "FR-7", "", "", "insert failed"}, rows[3])
}

func TestWriteReport_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteReport(&buf, nil, nil))
	rows, err := csv.NewReader(bytes.NewReader(buf.Bytes()[len(BOM):])).ReadAll()
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestWriteTemplateCSV(t *testing.T) {
	fields := mapping.CanonicalFields()
	var buf bytes.Buffer
	require.NoError(t, WriteTemplateCSV(&buf, fields))
	require.True(t, bytes.HasPrefix(buf.Bytes(), BOM))

	rows, err := csv.NewReader(bytes.NewReader(buf.Bytes()[len(BOM):])).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Frame ID", rows[0][0])
	assert.Len(t, rows[0], len(fields))
	assert.Equal(t, "FR-100", rows[1][0])
	assert.Equal(t, "FR-200", rows[2][0])
}

func TestWriteTemplateXLSX(t *testing.T) {
	fields := mapping.CanonicalFields()
	var buf bytes.Buffer
	require.NoError(t, WriteTemplateXLSX(&buf, fields))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows("Inventory")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Public Price", rows[0][6])
	assert.Equal(t, "60000", rows[1][6])
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"simple", "Inventario CDMX", "Inventario_CDMX"},
		{"special chars", "Q3 / frames (Oct–Dec).csv", "Q3_frames_Oct_Dec_csv"},
		{"accents dropped", "Pantallas Mérida", "Pantallas_M_rida"},
		{"hyphens and underscores preserved", "my-frames_2026", "my-frames_2026"},
		{"consecutive underscores collapsed", "test___upload", "test_upload"},
		{"leading/trailing cleaned", "  hello  ", "hello"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SanitizeFilename(tt.input))
		})
	}
}

func TestBuildFilename(t *testing.T) {
	today := time.Now().Format("2006-01-02")
	assert.Equal(t, "frames_errors_"+today+".csv", BuildFilename("frames errors", "csv"))
	assert.Equal(t, "export_"+today+".xlsx", BuildFilename("***", "xlsx"))
}
