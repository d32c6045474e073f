package statement

import (
	"strings"
)

// Field is a semantic column of a statement.
type Field int

const (
	FieldDate Field = iota
	FieldAmount
	FieldUnits
	FieldNAV
	FieldScheme
	FieldFolio
	FieldType
)

var fieldNames = map[Field]string{
	FieldDate:   "date",
	FieldAmount: "amount",
	FieldUnits:  "units",
	FieldNAV:    "nav",
	FieldScheme: "scheme",
	FieldFolio:  "folio",
	FieldType:   "type",
}

func (f Field) String() string {
	if name, ok := fieldNames[f]; ok {
		return name
	}
	return "unknown"
}

// columnAliases maps each field to the header substrings that identify it.
// Fields are resolved in this order and a header cell claimed by an earlier
// field is not offered to later ones.
var columnAliases = []struct {
	field   Field
	aliases []string
}{
	{FieldDate, []string{"date", "trade date", "txn date", "transaction date"}},
	{FieldAmount, []string{"amount", "amt"}},
	{FieldUnits, []string{"units", "unit", "quantity", "qty"}},
	{FieldNAV, []string{"nav", "price", "rate"}},
	{FieldScheme, []string{"scheme", "scheme name", "fund name", "fund", "security"}},
	{FieldFolio, []string{"folio", "folio no", "account number", "account no"}},
	{FieldType, []string{"transaction type", "txn type", "type", "description", "nature"}},
}

// ColumnMap holds the resolved column index of each field.
type ColumnMap map[Field]int

// Has reports whether the field was found in the header.
func (c ColumnMap) Has(f Field) bool {
	_, ok := c[f]
	return ok
}

// cell returns the raw value of field f in row, or nil when the field is
// unresolved or the row is too short.
func (c ColumnMap) cell(row []any, f Field) any {
	idx, ok := c[f]
	if !ok || idx >= len(row) {
		return nil
	}
	return row[idx]
}

// resolveColumns matches header cells against the alias table.
func resolveColumns(header []any) ColumnMap {
	normalized := make([]string, len(header))
	for i, h := range header {
		normalized[i] = normalizeHeader(cellString(h))
	}

	cols := make(ColumnMap, len(columnAliases))
	claimed := make(map[int]bool, len(header))
	for _, entry := range columnAliases {
		for i, h := range normalized {
			if h == "" || claimed[i] {
				continue
			}
			if containsAny(h, entry.aliases) {
				cols[entry.field] = i
				claimed[i] = true
				break
			}
		}
	}
	return cols
}

func normalizeHeader(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(strings.ToLower(s), "_", " "))
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
