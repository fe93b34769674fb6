// Package transform turns merged client sheets into template-shaped bucket tables.
package transform

import (
	"fmt"

	"github.com/ukaji3/scope2-go/pkg/scope2/models"
)

// DefaultSheets is the allow-list of client sheets merged into one table.
var DefaultSheets = []string{
	"SSLL",
	"FZE - Office",
	"DWC",
	"AL ROSTAMANI",
	"M&M Global",
	"ALIA MOH'D TRADING",
	"AL SAYEGH",
	"TB07",
	"GLIF",
}

// SheetSource is a workbook the merger can read sheets from.
type SheetSource interface {
	HasSheet(name string) bool
	Table(name string) (*models.Table, error)
}

// MergeSheets stacks every allow-listed sheet present in src, in allow-list
// order. Listed sheets that src lacks are skipped. It also returns the names
// of the sheets that were merged.
func MergeSheets(src SheetSource, allow []string) (*models.Table, []string, error) {
	var (
		tables []*models.Table
		merged []string
	)
	for _, name := range allow {
		if !src.HasSheet(name) {
			continue
		}
		t, err := src.Table(name)
		if err != nil {
			return nil, nil, fmt.Errorf("sheet %q: %w", name, err)
		}
		tables = append(tables, t)
		merged = append(merged, name)
	}
	return models.Concat(tables...), merged, nil
}
