// Package decode turns uploaded bytes into headers and rows, resolving the text
// encoding by trial or reading spreadsheets natively.
package decode

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"adframes/internal/domain"
	"adframes/internal/ingest/headers"
)

var zipMagic = []byte("PK\x03\x04")

const utf8BOM = "\ufeff"

// delimiters are sniffed from the header line in this order of preference.
var delimiters = []rune{',', ';', '\t', '|'}

// Result is a successfully parsed upload.
type Result struct {
	Headers  []string        `json:"headers"`
	Rows     []domain.RawRow `json:"-"`
	Encoding string          `json:"encoding"`
}

// Resolve parses data. Spreadsheets are read natively; delimited text is
// decoded with each candidate in order until one yields clean text.
func Resolve(data []byte, fileName string, candidates []string) (*Result, error) {
	if isSpreadsheet(data, fileName) {
		rows, err := readSheet(data)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrFileUnreadable, err)
		}
		return build(rows, domain.EncodingNative)
	}

	var attempts []string
	for _, name := range candidates {
		records, err := tryDecode(data, name)
		if err != nil {
			attempts = append(attempts, fmt.Sprintf("%s: %v", name, err))
			continue
		}
		log.Printf("decode.Resolve: %s decoded as %s", fileName, name)
		return build(records, name)
	}
	if len(attempts) == 0 {
		return nil, fmt.Errorf("%w: no candidate encodings", domain.ErrFileUnreadable)
	}
	return nil, fmt.Errorf("%w: %s", domain.ErrFileUnreadable, strings.Join(attempts, "; "))
}

var errCorrupted = errors.New("decoded text contains replacement or control characters")

// record is one parsed line with the 1-based line it starts on.
type record struct {
	line  int
	cells []string
}

func tryDecode(data []byte, name string) ([]record, error) {
	enc, ok := encodings[CanonicalName(name)]
	if !ok {
		return nil, domain.ErrUnsupportedEncoding
	}
	decoded, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return nil, err
	}
	text := strings.TrimPrefix(string(decoded), utf8BOM)
	if IsCorrupted(text) {
		return nil, errCorrupted
	}
	return parseDelimited(text)
}

// parseDelimited reads delimited text, sniffing the delimiter from the first line.
func parseDelimited(text string) ([]record, error) {
	r := csv.NewReader(strings.NewReader(text))
	r.Comma = SniffDelimiter(text)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.TrimLeadingSpace = true

	var records []record
	for {
		cells, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parsing delimited text: %w", err)
		}
		line, _ := r.FieldPos(0)
		records = append(records, record{line: line, cells: cells})
	}
	return records, nil
}

// SniffDelimiter picks the delimiter that occurs most often on the first line.
func SniffDelimiter(text string) rune {
	line := text
	if i := strings.IndexAny(text, "\r\n"); i >= 0 {
		line = text[:i]
	}
	best, bestCount := ',', 0
	for _, d := range delimiters {
		if n := strings.Count(line, string(d)); n > bestCount {
			best, bestCount = d, n
		}
	}
	return best
}

func isSpreadsheet(data []byte, fileName string) bool {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(fileName), "."))
	if ft, ok := domain.AllowedExtensions[ext]; ok && ft.IsSpreadsheet() {
		return true
	}
	return bytes.HasPrefix(data, zipMagic)
}

func readSheet(data []byte) ([]record, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("opening spreadsheet: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("spreadsheet has no sheets")
	}
	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q: %w", sheets[0], err)
	}
	records := make([]record, len(rows))
	for i, cells := range rows {
		records[i] = record{line: i + 1, cells: cells}
	}
	return records, nil
}

// build turns raw records into cleaned headers and keyed rows. Blank rows are
// skipped; row numbers follow the source lines.
func build(records []record, enc string) (*Result, error) {
	if len(records) == 0 || isBlank(records[0].cells) {
		return nil, fmt.Errorf("%w: file has no header row", domain.ErrFileUnreadable)
	}
	hdrs := headers.CleanAll(records[0].cells)

	rows := make([]domain.RawRow, 0, len(records)-1)
	for _, rec := range records[1:] {
		if isBlank(rec.cells) {
			continue
		}
		values := make(map[string]string, len(hdrs))
		for col, h := range hdrs {
			if col < len(rec.cells) {
				values[h] = strings.TrimSpace(rec.cells[col])
			} else {
				values[h] = ""
			}
		}
		rows = append(rows, domain.RawRow{Number: rec.line, Values: values})
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: file has no data rows", domain.ErrFileUnreadable)
	}
	return &Result{Headers: hdrs, Rows: rows, Encoding: enc}, nil
}

func isBlank(rec []string) bool {
	for _, c := range rec {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
