package transform

import (
	"fmt"

	"github.com/ukaji3/scope2-go/pkg/scope2/models"
	"github.com/ukaji3/scope2-go/pkg/scope2/parser"
)

// Constant is a column carrying the same value on every row.
type Constant struct {
	Column string `yaml:"column" json:"column"`
	Value  any    `yaml:"value" json:"value"`
}

// DefaultConstants are the report metadata columns.
// "Energy Type" is "India" in the reporting workflow this replaces; it is
// kept as is.
var DefaultConstants = []Constant{
	{Column: "CF Standard", Value: "IMO"},
	{Column: "Energy Unit", Value: "kWh"},
	{Column: "Activity Unit", Value: "kWh"},
	{Column: "Energy Type", Value: "India"},
	{Column: "Gas", Value: "CO2"},
	{Column: "Activity", Value: int64(0)},
}

// Enrich returns a copy of t with the constant columns set and, when t has
// dateColumn, its values normalized to dates. Unparseable dates become
// empty; the row is kept and a diagnostic is recorded.
func Enrich(t *models.Table, constants []Constant, dateColumn string, dayFirst bool) (*models.Table, []models.Diagnostic) {
	out := models.NewTable(t.Columns...)
	for _, c := range constants {
		out.AddColumn(c.Column)
	}

	hasDate := dateColumn != "" && t.HasColumn(dateColumn)
	var diags []models.Diagnostic

	for i, row := range t.Rows {
		enriched := make(models.Row, len(out.Columns))
		for k, v := range row {
			enriched[k] = v
		}
		for _, c := range constants {
			enriched[c.Column] = c.Value
		}

		if hasDate {
			raw := row.Get(dateColumn)
			if d, ok := parser.ParseDate(raw, dayFirst); ok {
				enriched[dateColumn] = d
			} else {
				delete(enriched, dateColumn)
				if !models.IsEmpty(raw) {
					origin := t.Origin(i)
					diags = append(diags, models.Diagnostic{
						Kind:     models.KindInvalidDate,
						Column:   dateColumn,
						Row:      i,
						Sheet:    origin.Sheet,
						SheetRow: origin.Row,
						Value:    models.FormatValue(raw),
						Message:  fmt.Sprintf("%s: '%s' is not a date", location(origin, i), models.FormatValue(raw)),
					})
				}
			}
		}

		out.AppendFrom(enriched, t.Origin(i))
	}

	return out, diags
}

func location(o models.Origin, row int) string {
	if o.IsZero() {
		return fmt.Sprintf("Merged row %d", row)
	}
	return fmt.Sprintf("Sheet '%s' row %d", o.Sheet, o.Row)
}
