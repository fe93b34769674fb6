package transform

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/ukaji3/scope2-go/pkg/scope2/models"
)

// MapColumns builds a table with exactly schema's columns and one row per
// merged row. Each mapped field whose source column exists is copied row
// for row; every other column stays empty.
//
// A source column is matched exactly first, then by FoldHeader. A folded
// match is used but reported, naming both headers.
func MapColumns(merged *models.Table, mapping models.Mapping, schema []string) (*models.Table, []models.Diagnostic) {
	out := models.NewTable(schema...)
	out.Rows = make([]models.Row, merged.Len())
	for i := range out.Rows {
		out.Rows[i] = make(models.Row, len(schema))
	}
	out.Origins = append([]models.Origin(nil), merged.Origins...)

	var diags []models.Diagnostic
	for _, fm := range mapping {
		if !out.HasColumn(fm.Field) {
			diags = append(diags, models.Diagnostic{
				Kind:    models.KindFieldNotInTemplate,
				Field:   fm.Field,
				Column:  fm.Source,
				Row:     -1,
				Message: fmt.Sprintf("Field '%s' is not a template column", fm.Field),
			})
			continue
		}

		source, ok := ResolveColumn(merged, fm.Source)
		if !ok {
			diags = append(diags, models.Diagnostic{
				Kind:    models.KindMissingSourceColumn,
				Field:   fm.Field,
				Column:  fm.Source,
				Row:     -1,
				Message: fmt.Sprintf("Column '%s' not found in merged data", fm.Source),
			})
			continue
		}
		if source != fm.Source {
			diags = append(diags, models.Diagnostic{
				Kind:    models.KindFoldedSourceColumn,
				Field:   fm.Field,
				Column:  source,
				Row:     -1,
				Value:   fm.Source,
				Message: fmt.Sprintf("Column '%s' not found; using '%s' instead", fm.Source, source),
			})
		}

		for i, row := range merged.Rows {
			if v := row.Get(source); v != nil {
				out.Rows[i][fm.Field] = v
			}
		}
	}

	return out, diags
}

// ResolveColumn finds the column of t that name refers to.
func ResolveColumn(t *models.Table, name string) (string, bool) {
	if t.HasColumn(name) {
		return name, true
	}
	folded := FoldHeader(name)
	if folded == "" {
		return "", false
	}
	for _, c := range t.Columns {
		if FoldHeader(c) == folded {
			return c, true
		}
	}
	return "", false
}

// FoldHeader lower-cases a header and drops all whitespace, so that
// "Office/Factory/Site/\nLocation(Optional)" and
// "Office/Factory/Site/Location(Optional)" compare equal.
func FoldHeader(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}
