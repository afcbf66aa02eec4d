package csvexport

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"adframes/internal/domain"
)

// UTF-8 BOM bytes for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// reportColumns defines the error report header row.
var reportColumns = []string{"Row", "Identifier", "Field", "Value", "Error"}

// Writer wraps csv.Writer for exporting upload error reports.
type Writer struct {
	csv *csv.Writer
}

// NewWriter creates a Writer that writes CSV to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{csv: csv.NewWriter(w)}
}

// WriteHeader writes the report header row.
func (w *Writer) WriteHeader() error {
	return w.csv.Write(reportColumns)
}

// WriteValidationErrors writes one row per validation error.
func (w *Writer) WriteValidationErrors(errs []domain.ValidationError) error {
	for i := range errs {
		e := &errs[i]
		if err := w.csv.Write([]string{rowNumber(e.Row), e.Identifier, e.Field, e.Value, e.Message}); err != nil {
			return err
		}
	}
	return nil
}

// WritePersistenceErrors writes one row per failed insert.
func (w *Writer) WritePersistenceErrors(errs []domain.PersistenceError) error {
	for i := range errs {
		e := &errs[i]
		if err := w.csv.Write([]string{rowNumber(e.Row), e.Identifier, "", "", e.Message}); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes the underlying csv.Writer buffer.
func (w *Writer) Flush() {
	w.csv.Flush()
}

// Error returns any error from the underlying csv.Writer.
func (w *Writer) Error() error {
	return w.csv.Error()
}

// WriteReport writes a complete error report, BOM first.
func WriteReport(out io.Writer, validation []domain.ValidationError, persistence []domain.PersistenceError) error {
	if _, err := out.Write(BOM); err != nil {
		return err
	}
	w := NewWriter(out)
	if err := w.WriteHeader(); err != nil {
		return err
	}
	if err := w.WriteValidationErrors(validation); err != nil {
		return err
	}
	if err := w.WritePersistenceErrors(persistence); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

func rowNumber(n int) string {
	if n <= 0 {
		return ""
	}
	return strconv.Itoa(n)
}

// nonAlphanumeric matches characters that are not alphanumeric, hyphen, or underscore.
var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// multiUnderscore matches consecutive underscores.
var multiUnderscore = regexp.MustCompile(`_{2,}`)

// SanitizeFilename cleans an upload file name for use in Content-Disposition.
// Replaces non-alphanumeric chars (except - _) with _, collapses consecutive
// underscores, and truncates to 100 chars.
func SanitizeFilename(name string) string {
	s := nonAlphanumeric.ReplaceAllString(name, "_")
	s = multiUnderscore.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if len(s) > 100 {
		s = s[:100]
	}
	return s
}

// BuildFilename returns a sanitized filename for Content-Disposition header.
// Format: {sanitized_name}_{YYYY-MM-DD}.{ext}
func BuildFilename(name, ext string) string {
	sanitized := SanitizeFilename(name)
	if sanitized == "" {
		sanitized = "export"
	}
	date := time.Now().Format("2006-01-02")
	return fmt.Sprintf("%s_%s.%s", sanitized, date, ext)
}
