package statement

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// cellString renders a grid cell as trimmed text.
func cellString(v any) string {
	switch c := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(c)
	case float64:
		return strconv.FormatFloat(c, 'f', -1, 64)
	case int:
		return strconv.Itoa(c)
	case int64:
		return strconv.FormatInt(c, 10)
	case decimal.Decimal:
		return c.String()
	case time.Time:
		return c.Format(time.DateOnly)
	default:
		return strings.TrimSpace(fmt.Sprint(c))
	}
}

func isBlank(v any) bool {
	return cellString(v) == ""
}

// parseDecimal reads a number out of a cell, ignoring currency symbols and
// grouping separators. Anything unparsable is zero.
func parseDecimal(v any) decimal.Decimal {
	switch c := v.(type) {
	case nil:
		return decimal.Zero
	case float64:
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return decimal.Zero
		}
		return decimal.NewFromFloat(c)
	case int:
		return decimal.NewFromInt(int64(c))
	case int64:
		return decimal.NewFromInt(c)
	case decimal.Decimal:
		return c
	}

	d, err := decimal.NewFromString(cleanNumber(cellString(v)))
	if err != nil {
		return decimal.Zero
	}
	return d
}

// parseAmount is parseDecimal with the sign dropped.
func parseAmount(v any) decimal.Decimal {
	return parseDecimal(v).Abs()
}

// cleanNumber keeps digits, dots and minus signs only.
func cleanNumber(s string) string {
	return strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			return r
		}
		return -1
	}, s)
}
