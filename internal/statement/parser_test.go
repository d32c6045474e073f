package statement

import (
	"math"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, dec(t, want).Equal(got), "expected %s, got %s", want, got)
}

func TestParseDelimitedText_SingleRow(t *testing.T) {
	text := "date,scheme,folio,type,amount,units,nav\n" +
		"2023-01-05,ABC Fund,F123,Purchase,5000,41.32,121.05\n"

	txns := ParseDelimitedText(text)
	require.Len(t, txns, 1)

	tx := txns[0]
	assert.Equal(t, "2023-01-05", tx.TransactionDate)
	assert.Equal(t, "ABC Fund", tx.SchemeName)
	assert.Equal(t, "F123", tx.FolioNumber)
	assert.Equal(t, "Purchase", tx.TransactionType)
	assertDecimal(t, "5000", tx.Amount)
	assertDecimal(t, "41.32", tx.Units)
	assertDecimal(t, "121.05", tx.NAV)
}

func TestParseDelimitedText_PreambleAndSummaryRows(t *testing.T) {
	text := strings.Join([]string{
		"Consolidated Account Statement",
		"Investor: A N Other",
		"Total Amount,Total Units",
		"50000,410.2",
		"",
		"Folio No,Scheme Name,Transaction Date,Transaction Type,Amount (INR),Units,NAV",
		"F1/22,Alpha Equity Fund - Growth,05-Jan-2023,SIP,\"1,000.00\",8.123,123.11",
		"F1/22,Alpha Equity Fund - Growth,05-Feb-2023,Redemption,-2500,20.5,121.95",
		"",
	}, "\n")

	res := ParseText(text)
	require.True(t, res.Recognized)
	assert.Equal(t, 4, res.HeaderRow) // blank lines are skipped
	require.Len(t, res.Transactions, 2)

	assert.Equal(t, "2023-01-05", res.Transactions[0].TransactionDate)
	assert.Equal(t, "SIP", res.Transactions[0].TransactionType)
	assertDecimal(t, "1000", res.Transactions[0].Amount)

	assert.Equal(t, "Redemption", res.Transactions[1].TransactionType)
	assertDecimal(t, "2500", res.Transactions[1].Amount)
}

func TestParseDelimitedText_QuotedDelimiter(t *testing.T) {
	text := "Date,Scheme,Amount,Units\n" +
		"05-Jan-2023,\"ABC Fund, Growth Option\",\"1,23,456.50\",10\n"

	txns := ParseDelimitedText(text)
	require.Len(t, txns, 1)
	assert.Equal(t, "ABC Fund, Growth Option", txns[0].SchemeName)
	assertDecimal(t, "123456.50", txns[0].Amount)
}

func TestParseDelimitedText_SemicolonAndTab(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"semicolon", "Date;Scheme;Amount;Units\n15/01/2023;ABC;500;5\n"},
		{"tab", "Date\tScheme\tAmount\tUnits\n15/01/2023\tABC\t500\t5\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			txns := ParseDelimitedText(tt.text)
			require.Len(t, txns, 1)
			assert.Equal(t, "2023-01-15", txns[0].TransactionDate)
			assert.Equal(t, "ABC", txns[0].SchemeName)
			assertDecimal(t, "500", txns[0].Amount)
		})
	}
}

func TestParseDelimitedText_ByteOrderMark(t *testing.T) {
	text := "\ufeffDate,Scheme,Amount,Units\n2023-03-01,ABC,100,1\n"
	assert.Len(t, ParseDelimitedText(text), 1)
}

func TestParseDelimitedText_MissingMandatoryColumn(t *testing.T) {
	t.Run("no date column", func(t *testing.T) {
		text := "Folio,Scheme,Amount,Units\nF1,ABC,100,1\nF1,ABC,200,2\n"
		res := ParseText(text)
		assert.False(t, res.Recognized)
		assert.Empty(t, res.Transactions)
		assert.NotNil(t, res.Transactions)
	})

	t.Run("no amount column", func(t *testing.T) {
		// "amount" only appears in a cell the date field claims first
		text := "Date Amount,Scheme,Units\n2023-01-01,ABC,1\n"
		res := ParseText(text)
		assert.False(t, res.Recognized)
		assert.Empty(t, res.Transactions)
	})

	t.Run("no header at all", func(t *testing.T) {
		assert.Empty(t, ParseDelimitedText("just,some,text\n1,2,3\n"))
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Empty(t, ParseDelimitedText(""))
	})
}

func TestParseDelimitedText_HeaderBeyondScanLimit(t *testing.T) {
	lines := make([]string, 0, 40)
	for i := 0; i < headerScanLimit; i++ {
		lines = append(lines, "preamble line")
	}
	lines = append(lines, "Date,Scheme,Amount,Units", "2023-01-01,ABC,100,1")

	res := ParseText(strings.Join(lines, "\n"))
	assert.False(t, res.Recognized)
	assert.Equal(t, -1, res.HeaderRow)
}

func TestParse_DropsUnusableRows(t *testing.T) {
	text := strings.Join([]string{
		"Date,Scheme,Amount,Units",
		"2023-01-01,Kept,100,1",
		"not a date,Bad Date,100,1",
		"31/02/2023,Impossible Date,100,1",
		"2023-01-02,Zero Row,0,0",
		",,,",
		"2023-01-03,Bonus Units,,12.5",
	}, "\n")

	res := ParseText(text)
	require.True(t, res.Recognized)
	require.Len(t, res.Transactions, 2)
	assert.Equal(t, "Kept", res.Transactions[0].SchemeName)
	assert.Equal(t, "Bonus Units", res.Transactions[1].SchemeName)
	assert.True(t, res.Transactions[1].Amount.IsZero())
	assertDecimal(t, "12.5", res.Transactions[1].Units)
	assert.Equal(t, 3, res.Dropped)
}

func TestParse_Defaults(t *testing.T) {
	text := "Date,Scheme,Amount,Units\n2023-01-01,,100,1\n"

	txns := ParseDelimitedText(text)
	require.Len(t, txns, 1)
	assert.Equal(t, UnknownScheme, txns[0].SchemeName)
	assert.Equal(t, DefaultTransactionType, txns[0].TransactionType)
	assert.Empty(t, txns[0].FolioNumber)
	assert.True(t, txns[0].NAV.IsZero())
}

func TestParse_ShortRows(t *testing.T) {
	rows := [][]any{
		{"Date", "Amount", "Units", "Scheme", "Folio"},
		{"2023-01-01", "100"},
	}

	txns := ParseTabularRows(rows)
	require.Len(t, txns, 1)
	assert.Equal(t, UnknownScheme, txns[0].SchemeName)
	assert.True(t, txns[0].Units.IsZero())
}

func TestParseTabularRows_NumericCells(t *testing.T) {
	rows := [][]any{
		{"Statement for the period 01-Jan-2023 to 31-Dec-2023"},
		{"Folio", "Scheme Name", "Transaction Date", "Amount", "Units", "NAV"},
		{"F1", "XYZ Liquid Fund", 44927.0, 5000.0, 41.32, 121.05},
		{"F1", "XYZ Liquid Fund", nil, nil, nil, nil},
	}

	res := Parse(rows)
	require.True(t, res.Recognized)
	assert.Equal(t, 1, res.HeaderRow)
	assert.Equal(t, 0, res.Dropped)
	require.Len(t, res.Transactions, 1)

	tx := res.Transactions[0]
	assert.Equal(t, "2023-01-01", tx.TransactionDate)
	assert.Equal(t, "F1", tx.FolioNumber)
	assertDecimal(t, "5000", tx.Amount)
	assertDecimal(t, "41.32", tx.Units)
	assertDecimal(t, "121.05", tx.NAV)
}

func TestParse_Idempotent(t *testing.T) {
	text := "Date,Scheme,Folio,Amount,Units,NAV\n" +
		"05-Jan-2023,ABC,F1,5000,41.32,121.05\n" +
		"15/02/2023,DEF,F2,\"₹2,000\",10,200\n"

	first := ParseDelimitedText(text)
	second := ParseDelimitedText(text)
	assert.Equal(t, first, second)
	assert.Len(t, first, 2)
}

func TestIsHeaderRow(t *testing.T) {
	tests := []struct {
		name string
		row  []any
		want bool
	}{
		{"full header", []any{"Folio", "Scheme Name", "Transaction Date", "Amount", "Units", "NAV"}, true},
		{"summary row", []any{"Total", "", "", "50000", "", ""}, false},
		{"totals mentioning amount and units", []any{"Total Amount", "Total Units"}, false},
		{"missing units", []any{"Date", "Scheme", "Amount"}, false},
		{"snake case", []any{"txn_date", "amount", "unit"}, true},
		{"empty", []any{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isHeaderRow(tt.row))
		})
	}
}

func TestResolveColumns(t *testing.T) {
	t.Run("aliases and snake case", func(t *testing.T) {
		cols := resolveColumns([]any{"Txn_Date", "Fund Name", "Folio No", "Txn Type", "Amt", "Qty", "Price"})
		assert.Equal(t, ColumnMap{
			FieldDate:   0,
			FieldScheme: 1,
			FieldFolio:  2,
			FieldType:   3,
			FieldAmount: 4,
			FieldUnits:  5,
			FieldNAV:    6,
		}, cols)
	})

	t.Run("first matching cell wins", func(t *testing.T) {
		cols := resolveColumns([]any{"Trade Date", "Settlement Date", "Amount", "Units"})
		assert.Equal(t, 0, cols[FieldDate])
	})

	t.Run("unresolved fields are absent", func(t *testing.T) {
		cols := resolveColumns([]any{"Date", "Amount"})
		assert.True(t, cols.Has(FieldDate))
		assert.True(t, cols.Has(FieldAmount))
		assert.False(t, cols.Has(FieldNAV))
		assert.False(t, cols.Has(FieldType))
	})
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  string
		ok    bool
	}{
		{"textual month", "05-Jan-2023", "2023-01-05", true},
		{"textual month upper case", "05-JAN-2023", "2023-01-05", true},
		{"textual month with spaces", "5 Mar 2021", "2021-03-05", true},
		{"day first slash", "15/01/2023", "2023-01-15", true},
		{"day first dash", "1-2-2023", "2023-02-01", true},
		{"day first two digit year", "15/01/23", "2023-01-15", true},
		{"year first", "2023-1-5", "2023-01-05", true},
		{"year first slash", "2023/01/05", "2023-01-05", true},
		{"serial number", 44927.0, "2023-01-01", true},
		{"serial with time fraction", 44927.75, "2023-01-01", true},
		{"serial as text", "44927", "2023-01-01", true},
		{"iso timestamp", "2023-01-05T10:00:00Z", "2023-01-05", true},
		{"datetime", "2023-01-05 10:00:00", "2023-01-05", true},
		{"long month", "January 5, 2023", "2023-01-05", true},
		{"impossible day", "31/02/2023", "", false},
		{"bad month name", "05-Foo-2023", "", false},
		{"month out of range", "05/13/2023", "", false},
		{"serial out of range", 99999999.0, "", false},
		{"garbage", "pending", "", false},
		{"blank", "  ", "", false},
		{"nil", nil, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := parseDate(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  string
	}{
		{"rupee with indian grouping", "₹1,23,456.50", "123456.50"},
		{"negative", "-500", "500"},
		{"currency code", "INR 2,000", "2000"},
		{"float cell", -12.5, "12.5"},
		{"int cell", 42, "42"},
		{"unparsable", "n/a", "0"},
		{"double minus", "--5", "0"},
		{"empty", "", "0"},
		{"nil", nil, "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertDecimal(t, tt.want, parseAmount(tt.input))
		})
	}
}

func TestParseDecimal_KeepsSign(t *testing.T) {
	assertDecimal(t, "-3.5", parseDecimal("-3.5"))
}

func TestParseDecimal_NonFiniteFloats(t *testing.T) {
	tests := []struct {
		name  string
		input float64
	}{
		{"nan", math.NaN()},
		{"positive infinity", math.Inf(1)},
		{"negative infinity", math.Inf(-1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NotPanics(t, func() {
				assert.True(t, parseDecimal(tt.input).IsZero())
			})
		})
	}
}

func TestParseDelimitedText_UnterminatedQuote(t *testing.T) {
	text := strings.Join([]string{
		"date,scheme,folio,type,amount,units,nav",
		`2023-01-05,"ABC Fund,F1,Purchase,5000,41.32,121.05`,
		"2023-02-05,XYZ Fund,F2,Purchase,2000,10,200",
		"2023-03-05,XYZ Fund,F2,Purchase,2000,9.5,210.5",
	}, "\n")

	res := ParseText(text)
	require.True(t, res.Recognized)
	require.Len(t, res.Transactions, 2)
	assert.Equal(t, "XYZ Fund", res.Transactions[0].SchemeName)
	assert.Equal(t, "2023-03-05", res.Transactions[1].TransactionDate)
	assert.Equal(t, 1, res.Dropped)
}

func TestParseDelimitedText_CRLF(t *testing.T) {
	text := "Date,Scheme,Amount,Units\r\n2023-01-01,ABC,100,1\r\n2023-02-01,ABC,100,1\r\n"

	txns := ParseDelimitedText(text)
	require.Len(t, txns, 2)
	assertDecimal(t, "1", txns[1].Units)
}
