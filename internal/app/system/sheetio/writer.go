package sheetio

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// Sheet is one worksheet to write. Header is written bold on the first row
// when non-empty.
type Sheet struct {
	Name   string
	Header []string
	Rows   [][]any
	// Width is the column width applied to every used column; 0 keeps the default.
	Width float64
}

// Write builds a workbook from sheets, in order, and writes it to w.
func Write(w io.Writer, sheets ...Sheet) error {
	if len(sheets) == 0 {
		return fmt.Errorf("write workbook: no sheets")
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}

	for i, s := range sheets {
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), s.Name); err != nil {
				return fmt.Errorf("rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(s.Name); err != nil {
			return fmt.Errorf("new sheet %q: %w", s.Name, err)
		}

		line := 1
		cols := len(s.Header)
		if len(s.Header) > 0 {
			header := make([]any, len(s.Header))
			for j, h := range s.Header {
				header[j] = h
			}
			if err := setRow(f, s.Name, line, header); err != nil {
				return err
			}
			if err := f.SetRowStyle(s.Name, line, line, bold); err != nil {
				return fmt.Errorf("style header: %w", err)
			}
			line++
		}
		for _, r := range s.Rows {
			if err := setRow(f, s.Name, line, r); err != nil {
				return err
			}
			if len(r) > cols {
				cols = len(r)
			}
			line++
		}

		if s.Width > 0 && cols > 0 {
			last, err := excelize.ColumnNumberToName(cols)
			if err != nil {
				return fmt.Errorf("column name: %w", err)
			}
			if err := f.SetColWidth(s.Name, "A", last, s.Width); err != nil {
				return fmt.Errorf("column width: %w", err)
			}
		}
	}

	f.SetActiveSheet(0)
	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, sheet string, line int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, line)
	if err != nil {
		return fmt.Errorf("cell name: %w", err)
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("write row %d of %q: %w", line, sheet, err)
	}
	return nil
}
