package csvexport

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"adframes/internal/ingest/mapping"
)

const templateSheet = "Inventory"

// templateRows returns the header row of field labels followed by the
// example rows.
func templateRows(fields []mapping.FieldSpec) [][]string {
	header := make([]string, len(fields))
	n := 0
	for i, f := range fields {
		header[i] = f.Label
		if len(f.Example) > n {
			n = len(f.Example)
		}
	}
	rows := [][]string{header}
	for r := 0; r < n; r++ {
		row := make([]string, len(fields))
		for i, f := range fields {
			if r < len(f.Example) {
				row[i] = f.Example[r]
			}
		}
		rows = append(rows, row)
	}
	return rows
}

// WriteTemplateCSV writes the upload template as CSV with a BOM.
func WriteTemplateCSV(out io.Writer, fields []mapping.FieldSpec) error {
	if _, err := out.Write(BOM); err != nil {
		return err
	}
	w := csv.NewWriter(out)
	if err := w.WriteAll(templateRows(fields)); err != nil {
		return fmt.Errorf("writing template: %w", err)
	}
	return nil
}

// WriteTemplateXLSX writes the upload template as a workbook with a bold
// header row.
func WriteTemplateXLSX(out io.Writer, fields []mapping.FieldSpec) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), templateSheet); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}
	for r, row := range templateRows(fields) {
		cell, err := excelize.CoordinatesToCellName(1, r+1)
		if err != nil {
			return err
		}
		values := make([]interface{}, len(row))
		for i, v := range row {
			values[i] = v
		}
		if err := f.SetSheetRow(templateSheet, cell, &values); err != nil {
			return fmt.Errorf("writing template row %d: %w", r+1, err)
		}
	}

	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("creating header style: %w", err)
	}
	last, err := excelize.CoordinatesToCellName(len(fields), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(templateSheet, "A1", last, style); err != nil {
		return fmt.Errorf("styling header: %w", err)
	}
	lastCol, _ := excelize.ColumnNumberToName(len(fields))
	if err := f.SetColWidth(templateSheet, "A", lastCol, 22); err != nil {
		return fmt.Errorf("sizing columns: %w", err)
	}

	if _, err := f.WriteTo(out); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}
