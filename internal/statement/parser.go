// Package statement turns mutual fund account statements into normalized
// transactions.
//
// Statements from different registrars name and order their columns
// differently. The parser locates the table header heuristically, maps columns
// through a shared alias table and cleans each row. Rows that cannot be read
// are dropped rather than reported; an unrecognized file yields no rows.
package statement

import (
	"strings"

	"github.com/gripfinance/grip-backend/internal/model"
)

const (
	// UnknownScheme is used when a row has no scheme name.
	UnknownScheme = "Unknown Scheme"

	// DefaultTransactionType is used when the type column is missing or empty.
	DefaultTransactionType = "Purchase"
)

// Result is the outcome of parsing a grid, with diagnostics for logging.
type Result struct {
	Transactions []model.ParsedTransaction
	// Recognized is false when no header or no date/amount column was found.
	Recognized bool
	// HeaderRow is the zero based header index, or -1.
	HeaderRow int
	Columns   ColumnMap
	// Dropped counts non-blank rows that were discarded.
	Dropped int
}

type rowOutcome int

const (
	rowParsed rowOutcome = iota
	rowBlank
	rowDropped
)

// ParseTabularRows parses a pre-tokenized grid such as a spreadsheet sheet.
func ParseTabularRows(rows [][]any) []model.ParsedTransaction {
	return Parse(rows).Transactions
}

// Parse runs header detection, column resolution and row parsing over rows.
// It never fails: an unrecognized layout returns an empty result.
func Parse(rows [][]any) Result {
	res := Result{
		Transactions: []model.ParsedTransaction{},
		HeaderRow:    -1,
	}

	headerIdx, ok := findHeaderRow(rows)
	if !ok {
		return res
	}
	res.HeaderRow = headerIdx
	res.Columns = resolveColumns(rows[headerIdx])

	if !res.Columns.Has(FieldDate) || !res.Columns.Has(FieldAmount) {
		return res
	}
	res.Recognized = true

	for _, row := range rows[headerIdx+1:] {
		tx, outcome := parseRow(row, res.Columns)
		switch outcome {
		case rowParsed:
			res.Transactions = append(res.Transactions, tx)
		case rowDropped:
			res.Dropped++
		}
	}
	return res
}

func parseRow(row []any, cols ColumnMap) (model.ParsedTransaction, rowOutcome) {
	dateCell := cols.cell(row, FieldDate)
	amountCell := cols.cell(row, FieldAmount)
	if isBlank(dateCell) && isBlank(amountCell) {
		return model.ParsedTransaction{}, rowBlank
	}

	date, ok := parseDate(dateCell)
	if !ok {
		return model.ParsedTransaction{}, rowDropped
	}

	amount := parseAmount(amountCell)
	units := parseAmount(cols.cell(row, FieldUnits))
	if amount.IsZero() && units.IsZero() {
		return model.ParsedTransaction{}, rowDropped
	}

	scheme := cellString(cols.cell(row, FieldScheme))
	if scheme == "" {
		scheme = UnknownScheme
	}
	txType := cellString(cols.cell(row, FieldType))
	if txType == "" {
		txType = DefaultTransactionType
	}

	return model.ParsedTransaction{
		TransactionDate: date,
		SchemeName:      scheme,
		FolioNumber:     strings.TrimSpace(cellString(cols.cell(row, FieldFolio))),
		TransactionType: txType,
		Amount:          amount,
		Units:           units,
		NAV:             parseDecimal(cols.cell(row, FieldNAV)),
	}, rowParsed
}
