// Package models defines the tabular data structures moved through the pipeline.
package models

import (
	"strconv"
	"time"
)

// Row maps a column name to a cell value.
//
// A value is one of string, int64, float64, bool, time.Time or nil.
// A column that is absent from the map reads as nil.
type Row map[string]any

// Get returns the value stored under column, or nil.
func (r Row) Get(column string) any {
	if r == nil {
		return nil
	}
	return r[column]
}

// IsEmpty reports whether v is an empty cell.
func IsEmpty(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return x == ""
	case time.Time:
		return x.IsZero()
	}
	return false
}

// FormatValue renders a cell value as text.
func FormatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case int64:
		return strconv.FormatInt(x, 10)
	case int:
		return strconv.Itoa(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	case time.Time:
		if x.Hour() == 0 && x.Minute() == 0 && x.Second() == 0 && x.Nanosecond() == 0 {
			return x.Format("2006-01-02")
		}
		return x.Format("2006-01-02 15:04:05")
	}
	return ""
}
