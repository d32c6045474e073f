package statement

import (
	"encoding/csv"
	"strings"

	"github.com/gripfinance/grip-backend/internal/model"
)

// delimiters are tried in order until one yields a recognizable header.
var delimiters = []rune{',', ';', '\t'}

// ParseDelimitedText parses CSV-like statement text.
func ParseDelimitedText(text string) []model.ParsedTransaction {
	return ParseText(text).Transactions
}

// ParseText is ParseDelimitedText with diagnostics. The delimiter is not
// declared by statement exports, so each candidate is tried and the first one
// producing a recognized layout wins. Comma is reported when none do.
func ParseText(text string) Result {
	text = strings.TrimPrefix(text, "\ufeff")

	var fallback Result
	for i, d := range delimiters {
		res := Parse(splitDelimited(text, d))
		if res.Recognized {
			return res
		}
		if i == 0 {
			fallback = res
		}
	}
	return fallback
}

// splitDelimited tokenizes text into rows, one line at a time. Quoted fields
// may contain the delimiter and lose one layer of surrounding quotes. Blank
// lines and lines the reader cannot tokenize are skipped, so a broken quote
// costs only its own line.
func splitDelimited(text string, delimiter rune) [][]any {
	var rows [][]any
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		record, err := splitLine(line, delimiter)
		if err != nil {
			continue
		}

		row := make([]any, len(record))
		for i, field := range record {
			row[i] = field
		}
		rows = append(rows, row)
	}
	return rows
}

func splitLine(line string, delimiter rune) ([]string, error) {
	r := csv.NewReader(strings.NewReader(line))
	r.Comma = delimiter
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.TrimLeadingSpace = true
	return r.Read()
}
