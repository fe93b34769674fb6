package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ukaji3/scope2-go/pkg/scope2/models"
	"github.com/xuri/excelize/v2"
)

// extractTable converts raw sheet rows into a table keyed by header.
// Rows without any non-empty cell are skipped.
func (w *Workbook) extractTable(sheet string, rows [][]string) *models.Table {
	headers := headerRow(rows)
	table := models.NewTable(headers...)
	if len(rows) < 2 {
		return table
	}

	for rowIdx, row := range rows[1:] {
		rowNum := rowIdx + 2 // 1-based, after the header
		record := make(models.Row, len(headers))
		hasData := false

		for colIdx, raw := range row {
			if raw == "" || colIdx >= len(headers) {
				continue
			}
			hasData = true
			record[headers[colIdx]] = w.cellValue(sheet, colIdx+1, rowNum, raw)
		}

		if hasData {
			table.AppendFrom(record, models.Origin{Sheet: sheet, Row: rowNum})
		}
	}

	return table
}

// cellValue types a raw cell using its XML type and number format.
func (w *Workbook) cellValue(sheet string, col, row int, raw string) any {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return parseValue(raw)
	}
	typ, err := w.f.GetCellType(sheet, cell)
	if err != nil {
		return parseValue(raw)
	}

	switch typ {
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString,
		excelize.CellTypeFormula, excelize.CellTypeError:
		return raw
	case excelize.CellTypeBool:
		return raw == "1" || strings.EqualFold(raw, "true")
	case excelize.CellTypeDate:
		if t, ok := ParseDate(raw, false); ok {
			return t
		}
		return raw
	}

	v := parseValue(raw)
	if serial, ok := toFloat(v); ok && w.isDateCell(sheet, cell) {
		if t, err := excelize.ExcelDateToTime(serial, w.date1904); err == nil {
			return t
		}
	}
	return v
}

func (w *Workbook) isDateCell(sheet, cell string) bool {
	idx, err := w.f.GetCellStyle(sheet, cell)
	if err != nil || idx == 0 {
		return false
	}
	if isDate, ok := w.dateStyles[idx]; ok {
		return isDate
	}
	style, err := w.f.GetStyle(idx)
	isDate := err == nil && style != nil && isDateStyle(style)
	w.dateStyles[idx] = isDate
	return isDate
}

func isDateStyle(style *excelize.Style) bool {
	if style.CustomNumFmt != nil {
		return isDateFormatCode(*style.CustomNumFmt)
	}
	return isDateNumFmtID(style.NumFmt)
}

// isDateNumFmtID reports whether a built-in number format renders dates or times.
func isDateNumFmtID(id int) bool {
	switch {
	case id >= 14 && id <= 22:
		return true
	case id >= 27 && id <= 36:
		return true
	case id >= 45 && id <= 47:
		return true
	case id >= 50 && id <= 58:
		return true
	}
	return false
}

// isDateFormatCode reports whether a custom number format code renders dates.
// Quoted literals, bracketed sections and escaped characters are ignored.
func isDateFormatCode(code string) bool {
	var b strings.Builder
	inQuote, inBracket := false, false
	for i := 0; i < len(code); i++ {
		c := code[i]
		switch {
		case inQuote:
			if c == '"' {
				inQuote = false
			}
		case inBracket:
			if c == ']' {
				inBracket = false
			}
		case c == '"':
			inQuote = true
		case c == '[':
			inBracket = true
		case c == '\\' || c == '_' || c == '*':
			i++
		default:
			b.WriteByte(c)
		}
	}
	return strings.ContainsAny(strings.ToLower(b.String()), "ydhs")
}

// NormalizeHeaders names columns the way pandas does when reading a sheet:
// blank headers become "Unnamed: <index>" and repeats get ".1", ".2", ...
func NormalizeHeaders(raw []string) []string {
	names := make([]string, len(raw))
	for i, v := range raw {
		if strings.TrimSpace(v) == "" {
			v = fmt.Sprintf("Unnamed: %d", i)
		}
		names[i] = v
	}

	taken := make(map[string]bool, len(names))
	for _, n := range names {
		taken[n] = true
	}
	counts := make(map[string]int, len(names))
	seen := make(map[string]bool, len(names))
	out := make([]string, len(names))
	for i, name := range names {
		if !seen[name] {
			seen[name] = true
			out[i] = name
			continue
		}
		candidate := name
		for taken[candidate] {
			counts[name]++
			candidate = fmt.Sprintf("%s.%d", name, counts[name])
		}
		taken[candidate] = true
		out[i] = candidate
	}
	return out
}

// parseValue attempts to parse a string value as a number.
// Returns int64 for integers, float64 for decimals, or the original string.
func parseValue(s string) interface{} {
	// Try integer first
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	// Try float
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	// Return as string
	return s
}

func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case int64:
		return float64(x), true
	case int:
		return float64(x), true
	case float64:
		return x, true
	}
	return 0, false
}
