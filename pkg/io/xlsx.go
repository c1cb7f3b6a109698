package io

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/bridgegad/bridgegad/pkg/errors"
	"github.com/bridgegad/bridgegad/pkg/params"
)

// SheetName is the worksheet the template writes and the importer prefers.
const SheetName = "Bridge_Parameters"

// Column headers written by [WriteXLSX] and [Template].
var xlsxHeaders = []string{"Parameter", "Value", "Description", "Type", "Min", "Max", "Units", "Category"}

var (
	nameAliases  = []string{"parameter", "param", "variable", "name"}
	valueAliases = []string{"value", "val", "amount"}
)

// ReadXLSX reads parameters from a workbook.
//
// The sheet named [SheetName] is used when present, otherwise the first
// sheet. The first row is a header; the name and value columns are found by
// their header text (parameter/param/variable/name and value/val/amount,
// case-insensitive) and fall back to the first two columns. Rows without a
// name are skipped. Cell text is returned unchanged so numbers survive
// without spreadsheet formatting applied.
func ReadXLSX(r io.Reader) (params.Raw, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "open workbook")
	}
	defer f.Close()

	sheet := SheetName
	if idx, _ := f.GetSheetIndex(sheet); idx < 0 {
		sheet = f.GetSheetName(0)
	}
	if sheet == "" {
		return nil, errors.New(errors.ErrCodeInvalidSheet, "workbook has no sheets")
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidSheet, err, "read sheet %s", sheet)
	}
	if len(rows) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidSheet, "sheet %s is empty", sheet)
	}

	nameCol, valueCol := headerColumns(rows[0])
	raw := make(params.Raw)
	for _, row := range rows[1:] {
		name := cell(row, nameCol)
		if name == "" {
			continue
		}
		value := cell(row, valueCol)
		if value == "" {
			raw[name] = nil
			continue
		}
		raw[name] = value
	}
	return raw, nil
}

// headerColumns locates the name and value columns in the header row.
func headerColumns(header []string) (nameCol, valueCol int) {
	nameCol, valueCol = -1, -1
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(h))
		if nameCol < 0 && contains(nameAliases, h) {
			nameCol = i
		}
		if valueCol < 0 && contains(valueAliases, h) {
			valueCol = i
		}
	}
	if nameCol < 0 || valueCol < 0 || nameCol == valueCol {
		return 0, 1
	}
	return nameCol, valueCol
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func cell(row []string, i int) string {
	if i < len(row) {
		return strings.TrimSpace(row[i])
	}
	return ""
}

// WriteXLSX writes s as a workbook with one row per parameter in schema
// order. Besides name and value, each row carries the description, type,
// limits, unit and category so the workbook doubles as documentation.
func WriteXLSX(s *params.Set, w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if err := writeHeader(f); err != nil {
		return err
	}

	for i, r := range params.Schema() {
		row := i + 2
		var value any = s.Get(r.Name)
		if r.Kind == params.KindInteger {
			value = s.Int(r.Name)
		}
		values := []any{r.Key, value, r.Description, string(r.Kind), r.Min, r.Max, r.Unit, string(r.Category)}
		for col, v := range values {
			ref, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(SheetName, ref, v); err != nil {
				return fmt.Errorf("write %s: %w", ref, err)
			}
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// Template writes the default parameter workbook users fill in.
func Template(w io.Writer) error {
	return WriteXLSX(params.Defaults(), w)
}

func writeHeader(f *excelize.File) error {
	for i, h := range xlsxHeaders {
		ref, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(SheetName, ref, h); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}
	style, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#DDEBF7"}},
	})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}
	last, _ := excelize.CoordinatesToCellName(len(xlsxHeaders), 1)
	if err := f.SetCellStyle(SheetName, "A1", last, style); err != nil {
		return fmt.Errorf("header style: %w", err)
	}
	if err := f.SetColWidth(SheetName, "A", "A", 14); err != nil {
		return err
	}
	return f.SetColWidth(SheetName, "C", "C", 32)
}
