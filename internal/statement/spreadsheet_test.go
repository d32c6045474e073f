package statement

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func buildWorkbook(t *testing.T, rows ...[]any) *bytes.Buffer {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func TestReadSpreadsheet(t *testing.T) {
	buf := buildWorkbook(t,
		[]any{"KFintech Statement"},
		[]any{"Folio", "Scheme Name", "Date", "Amount", "Units", "NAV"},
		[]any{"91011", "Beta Debt Fund", 44927, 5000, 41.32, 121.05},
	)

	grid, err := ReadSpreadsheet(buf)
	require.NoError(t, err)
	require.Len(t, grid, 3)

	assert.Equal(t, "KFintech Statement", grid[0][0])
	assert.Equal(t, float64(44927), grid[2][2])
	assert.Equal(t, 41.32, grid[2][4])
}

func TestReadSpreadsheet_NotAWorkbook(t *testing.T) {
	_, err := ReadSpreadsheet(strings.NewReader("definitely not a zip archive"))
	assert.Error(t, err)
}

func TestSpreadsheetCell(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		cellType excelize.CellType
		want     any
	}{
		{"blank", "   ", excelize.CellTypeUnset, nil},
		{"number", "12.5", excelize.CellTypeUnset, 12.5},
		{"typed number", "44927", excelize.CellTypeNumber, float64(44927)},
		{"long number stays text", "12345678901234567", excelize.CellTypeUnset, "12345678901234567"},
		{"text", " ABC Fund ", excelize.CellTypeSharedString, "ABC Fund"},
		{"numeric shared string", "0012345", excelize.CellTypeSharedString, "0012345"},
		{"numeric inline string", "0042", excelize.CellTypeInlineString, "0042"},
		{"formula string result", "100", excelize.CellTypeFormula, "100"},
		{"nan", "NaN", excelize.CellTypeUnset, "NaN"},
		{"inf", "Inf", excelize.CellTypeNumber, "Inf"},
		{"negative infinity", "-Infinity", excelize.CellTypeUnset, "-Infinity"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, spreadsheetCell(tt.raw, tt.cellType))
		})
	}
}

func TestReadSpreadsheet_TextCellsKeepLeadingZeros(t *testing.T) {
	buf := buildWorkbook(t,
		[]any{"Folio", "Scheme Name", "Date", "Amount", "Units"},
		[]any{"0012345", "Beta Debt Fund", "2023-01-05", 5000, 41.32},
	)

	grid, err := ReadSpreadsheet(buf)
	require.NoError(t, err)
	require.Len(t, grid, 2)

	assert.Equal(t, "0012345", grid[1][0])
	assert.Equal(t, float64(5000), grid[1][3])
}

func TestParseFile(t *testing.T) {
	t.Run("csv", func(t *testing.T) {
		text := "date,scheme,folio,type,amount,units,nav\n" +
			"2023-01-05,ABC Fund,F123,Purchase,5000,41.32,121.05\n"

		res, err := ParseFile("statement.CSV", strings.NewReader(text))
		require.NoError(t, err)
		assert.True(t, res.Recognized)
		assert.Len(t, res.Transactions, 1)
	})

	t.Run("xlsx", func(t *testing.T) {
		buf := buildWorkbook(t,
			[]any{"Folio", "Scheme Name", "Transaction Date", "Transaction Type", "Amount", "Units", "NAV"},
			[]any{"F9", "Gamma Index Fund", 44927, "SIP Purchase", 1000, 8.5, 117.64},
			[]any{"F9", "Gamma Index Fund", "05-Feb-2023", "SIP Purchase", 1000, 8.4, 119.04},
		)

		res, err := ParseFile("cas.xlsx", buf)
		require.NoError(t, err)
		require.True(t, res.Recognized)
		require.Len(t, res.Transactions, 2)

		assert.Equal(t, "2023-01-01", res.Transactions[0].TransactionDate)
		assert.Equal(t, "2023-02-05", res.Transactions[1].TransactionDate)
		assert.Equal(t, "SIP Purchase", res.Transactions[1].TransactionType)
		assertDecimal(t, "1000", res.Transactions[1].Amount)
	})

	t.Run("xlsx folio keeps leading zeros", func(t *testing.T) {
		buf := buildWorkbook(t,
			[]any{"Folio", "Scheme Name", "Transaction Date", "Amount", "Units"},
			[]any{"0012345", "Gamma Index Fund", "05-Feb-2023", 1000, 8.4},
		)

		res, err := ParseFile("cas.xlsx", buf)
		require.NoError(t, err)
		require.Len(t, res.Transactions, 1)
		assert.Equal(t, "0012345", res.Transactions[0].FolioNumber)
	})

	t.Run("xlsx NaN and infinite cells are dropped", func(t *testing.T) {
		buf := buildWorkbook(t,
			[]any{"Folio", "Scheme Name", "Transaction Date", "Amount", "Units"},
			[]any{"F9", "Gamma Index Fund", "05-Jan-2023", "NaN", "NaN"},
			[]any{"F9", "Gamma Index Fund", "05-Feb-2023", math.Inf(1), math.NaN()},
			[]any{"F9", "Gamma Index Fund", "05-Mar-2023", 1000, 8.4},
		)

		var res Result
		require.NotPanics(t, func() {
			var err error
			res, err = ParseFile("cas.xlsx", buf)
			require.NoError(t, err)
		})
		require.Len(t, res.Transactions, 1)
		assert.Equal(t, "2023-03-05", res.Transactions[0].TransactionDate)
		assert.Equal(t, 2, res.Dropped)
	})

	t.Run("unrecognized text is not an error", func(t *testing.T) {
		res, err := ParseFile("notes.txt", strings.NewReader("hello\nworld\n"))
		require.NoError(t, err)
		assert.False(t, res.Recognized)
		assert.Empty(t, res.Transactions)
	})

	t.Run("unsupported extension", func(t *testing.T) {
		_, err := ParseFile("statement.pdf", strings.NewReader("%PDF-1.7"))
		assert.ErrorIs(t, err, ErrUnsupportedFileType)
	})

	t.Run("invalid utf-8", func(t *testing.T) {
		_, err := ParseFile("statement.csv", bytes.NewReader([]byte{0xff, 0xfe, 0x00}))
		assert.ErrorIs(t, err, ErrInvalidEncoding)
	})
}
