// Package sheetio reads and writes the spreadsheet files exchanged with
// schedule administrators: .xlsx through excelize and legacy .xls through
// extrame/xls. It knows nothing about schedules; it moves grids of strings.
package sheetio

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
)

var (
	// ErrUnsupported is returned for file types other than .xlsx and .xls.
	ErrUnsupported = errors.New("format file tidak didukung, gunakan .xlsx atau .xls")
	// ErrNoSheet is returned when the workbook has no worksheet.
	ErrNoSheet = errors.New("file tidak memiliki sheet")
	// ErrEmpty is returned when the first worksheet has no rows at all.
	ErrEmpty = errors.New("sheet pertama kosong")
)

// maxXLSRows bounds how many rows are read from a legacy workbook.
const maxXLSRows = 10000

// Decode reads the first worksheet of an uploaded file into rows of
// trimmed cell strings. For .xlsx the raw cell values are returned, so date
// and time cells arrive as spreadsheet serial numbers rather than in the
// author's display format.
func Decode(r io.Reader, filename string) ([][]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}

	var rows [][]string
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xlsm":
		rows, err = decodeXLSX(data)
	case ".xls":
		rows, err = decodeXLS(data)
	default:
		return nil, ErrUnsupported
	}
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrEmpty
	}
	for _, row := range rows {
		for i := range row {
			row[i] = strings.TrimSpace(row[i])
		}
	}
	return rows, nil
}

func decodeXLSX(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, ErrNoSheet
	}
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	return rows, nil
}

func decodeXLS(data []byte) (rows [][]string, err error) {
	// extrame/xls panics on some malformed files.
	defer func() {
		if r := recover(); r != nil {
			rows, err = nil, fmt.Errorf("open xls: %v", r)
		}
	}()

	wb, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, fmt.Errorf("open xls: %w", err)
	}
	if wb.NumSheets() == 0 {
		return nil, ErrNoSheet
	}
	return wb.ReadAllCells(maxXLSRows), nil
}

// Cell returns the trimmed value at idx, or "" when the row is shorter.
func Cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// BlankRow reports whether every cell of row is empty.
func BlankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
