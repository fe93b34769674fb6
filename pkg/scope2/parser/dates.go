package parser

import (
	"regexp"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/xuri/excelize/v2"
)

// dashedMonthLayouts are tried before dateparse, which reads "15-Jan-23"
// as year-month-day.
var dashedMonthLayouts = []string{
	"2-Jan-2006",
	"2-Jan-06",
	"2-January-2006",
	"2-January-06",
}

var (
	// numericDate captures d/m/y dates written with dots or dashes.
	numericDate = regexp.MustCompile(`^(\d{1,2})[.-](\d{1,2})[.-](\d{4}|\d{2})\b`)
	allDigits   = regexp.MustCompile(`^\d+$`)
)

// ParseDate converts a cell value to a calendar date at UTC midnight.
//
// time.Time values keep their date. Numbers are read as Excel serial days.
// Strings may be ISO dates (with or without a time), named-month dates, or
// numeric d/m/y dates; the latter are read month-first unless dayFirst is
// set, falling back to the other order when the first choice is impossible.
// ok is false for anything else, including empty cells.
func ParseDate(v any, dayFirst bool) (time.Time, bool) {
	switch x := v.(type) {
	case time.Time:
		if x.IsZero() {
			return time.Time{}, false
		}
		return dateOf(x), true
	case int64:
		return serialDate(float64(x))
	case int:
		return serialDate(float64(x))
	case float64:
		return serialDate(x)
	case string:
		return parseDateString(strings.TrimSpace(x), dayFirst)
	}
	return time.Time{}, false
}

func serialDate(serial float64) (time.Time, bool) {
	if serial <= 0 {
		return time.Time{}, false
	}
	t, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return time.Time{}, false
	}
	return dateOf(t), true
}

func parseDateString(s string, dayFirst bool) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	// Bare digits are only a date as yyyymmdd; dateparse would also take
	// years and unix timestamps.
	if allDigits.MatchString(s) && len(s) != 8 {
		return time.Time{}, false
	}
	for _, layout := range dashedMonthLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return dateOf(t), true
		}
	}

	s = numericDate.ReplaceAllString(s, "$1/$2/$3")
	t, err := dateparse.ParseIn(s, time.UTC,
		dateparse.PreferMonthFirst(!dayFirst),
		dateparse.RetryAmbiguousDateWithSwap(true),
	)
	if err != nil {
		return time.Time{}, false
	}
	return dateOf(t), true
}

func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
