package statement

import (
	"errors"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
)

var (
	// ErrUnsupportedFileType is returned for uploads that are neither text nor a workbook.
	ErrUnsupportedFileType = errors.New("unsupported file type")

	// ErrEmptyWorkbook is returned when a workbook has no sheets.
	ErrEmptyWorkbook = errors.New("workbook has no sheets")

	// ErrInvalidEncoding is returned for text uploads that are not UTF-8.
	ErrInvalidEncoding = errors.New("statement text is not valid UTF-8")
)

// Numbers longer than this stay text so folio numbers keep every digit.
const maxNumericCellLen = 15

// ReadSpreadsheet decodes the first sheet of a workbook into a grid. Cells
// stored as numbers become float64 (dates stay spreadsheet serials), blank
// cells nil and everything else a string, so text such as a folio "0012345"
// keeps its leading zeros.
func ReadSpreadsheet(r io.Reader) ([][]any, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptyWorkbook
	}
	sheet := sheets[0]

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}

	grid := make([][]any, len(rows))
	for i, row := range rows {
		cells := make([]any, len(row))
		for j, v := range row {
			cellType := excelize.CellTypeUnset
			if strings.TrimSpace(v) != "" {
				ref, err := excelize.CoordinatesToCellName(j+1, i+1)
				if err != nil {
					return nil, err
				}
				if cellType, err = f.GetCellType(sheet, ref); err != nil {
					return nil, fmt.Errorf("failed to read cell %s: %w", ref, err)
				}
			}
			cells[j] = spreadsheetCell(v, cellType)
		}
		grid[i] = cells
	}
	return grid, nil
}

// spreadsheetCell converts a raw cell value. Only numeric cells are turned
// into numbers; NaN and infinities stay text.
func spreadsheetCell(raw string, cellType excelize.CellType) any {
	v := strings.TrimSpace(raw)
	if v == "" {
		return nil
	}
	if cellType != excelize.CellTypeNumber && cellType != excelize.CellTypeUnset {
		return v
	}
	if len(v) <= maxNumericCellLen {
		if f, err := strconv.ParseFloat(v, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
			return f
		}
	}
	return v
}

// ParseFile chooses a reader by file extension and parses the content.
// Errors cover unreadable input only; an unrecognized layout is reported
// through Result.Recognized.
func ParseFile(name string, r io.Reader) (Result, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv", ".txt":
		data, err := io.ReadAll(r)
		if err != nil {
			return Result{}, fmt.Errorf("failed to read %s: %w", name, err)
		}
		if !utf8.Valid(data) {
			return Result{}, ErrInvalidEncoding
		}
		return ParseText(string(data)), nil
	case ".xlsx", ".xlsm", ".xltx", ".xltm":
		grid, err := ReadSpreadsheet(r)
		if err != nil {
			return Result{}, err
		}
		return Parse(grid), nil
	default:
		return Result{}, fmt.Errorf("%w: %s", ErrUnsupportedFileType, filepath.Ext(name))
	}
}
