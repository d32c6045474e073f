package statement

import "strings"

// headerScanLimit is how many leading rows are inspected for a header.
// Statements put an address and summary preamble above the table.
const headerScanLimit = 25

// findHeaderRow returns the index of the first row that looks like the
// transaction table header.
func findHeaderRow(rows [][]any) (int, bool) {
	limit := min(len(rows), headerScanLimit)
	for i := 0; i < limit; i++ {
		if isHeaderRow(rows[i]) {
			return i, true
		}
	}
	return -1, false
}

// isHeaderRow requires "amount" and "unit" plus one identifying column so that
// summary rows mentioning totals are not mistaken for the header.
func isHeaderRow(row []any) bool {
	parts := make([]string, 0, len(row))
	for _, c := range row {
		if s := cellString(c); s != "" {
			parts = append(parts, s)
		}
	}
	text := strings.ToLower(strings.Join(parts, " "))

	if !strings.Contains(text, "amount") || !strings.Contains(text, "unit") {
		return false
	}
	return containsAny(text, []string{"date", "scheme", "folio"})
}
