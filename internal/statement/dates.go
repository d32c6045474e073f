package statement

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	minYear = 1900
	maxYear = 9999

	// Largest serial a spreadsheet can represent (9999-12-31).
	maxSerial = 2958465
)

// serialEpoch is day zero of 1900-based spreadsheet serial dates.
var serialEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

var (
	serialPattern  = regexp.MustCompile(`^\d+(\.\d+)?$`)
	textualPattern = regexp.MustCompile(`^(\d{1,2})[-\s/]([A-Za-z]{3})[-\s/](\d{4})$`)
)

var monthAbbreviations = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

var genericDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006/01/02",
	"2006.01.02",
	"2.1.2006",
	"2-Jan-2006 15:04:05",
	"2-Jan-2006 15:04",
	"2-Jan-06",
	"2 Jan 2006",
	"2 January 2006",
	"2-January-2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"Mon, 2 Jan 2006",
	"Monday, January 2, 2006",
}

// parseDate normalizes a date cell to YYYY-MM-DD. Rules are tried in order:
// spreadsheet serial, DD-MMM-YYYY, numeric D/M/Y with a year-first check,
// then a list of common layouts.
func parseDate(v any) (string, bool) {
	switch c := v.(type) {
	case float64:
		return fromSerial(c)
	case int:
		return fromSerial(float64(c))
	case int64:
		return fromSerial(float64(c))
	case time.Time:
		if c.IsZero() {
			return "", false
		}
		return c.Format(time.DateOnly), true
	}

	s := cellString(v)
	if s == "" {
		return "", false
	}

	if serialPattern.MatchString(s) {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return "", false
		}
		return fromSerial(f)
	}
	if m := textualPattern.FindStringSubmatch(s); m != nil {
		return fromTextual(m[1], m[2], m[3])
	}
	if d, ok := fromNumeric(s); ok {
		return d, true
	}
	return fromLayouts(s)
}

func fromSerial(serial float64) (string, bool) {
	if serial < 1 || serial > maxSerial || math.IsNaN(serial) {
		return "", false
	}
	t := serialEpoch.AddDate(0, 0, int(math.Floor(serial)))
	return buildDate(t.Year(), int(t.Month()), t.Day())
}

func fromTextual(day, month, year string) (string, bool) {
	m, ok := monthAbbreviations[strings.ToLower(month)]
	if !ok {
		return "", false
	}
	d, err := strconv.Atoi(day)
	if err != nil {
		return "", false
	}
	y, err := strconv.Atoi(year)
	if err != nil {
		return "", false
	}
	return buildDate(y, int(m), d)
}

// fromNumeric handles D/M/Y and D-M-Y. A four digit first segment means the
// value is already year-first.
func fromNumeric(s string) (string, bool) {
	parts := strings.FieldsFunc(s, func(r rune) bool { return r == '/' || r == '-' })
	if len(parts) != 3 {
		return "", false
	}

	var nums [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return "", false
		}
		nums[i] = n
	}

	if len(parts[0]) == 4 {
		return buildDate(nums[0], nums[1], nums[2])
	}

	year := nums[2]
	switch len(parts[2]) {
	case 4:
	case 2:
		year += 2000
	default:
		return "", false
	}
	return buildDate(year, nums[1], nums[0])
}

func fromLayouts(s string) (string, bool) {
	for _, layout := range genericDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return buildDate(t.Year(), int(t.Month()), t.Day())
		}
	}
	return "", false
}

// buildDate rejects out of range components, including days that would roll
// over into the next month.
func buildDate(year, month, day int) (string, bool) {
	if year < minYear || year > maxYear || month < 1 || month > 12 || day < 1 {
		return "", false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Day() != day {
		return "", false
	}
	return t.Format(time.DateOnly), true
}
