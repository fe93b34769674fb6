// Package xlsxtest builds small xlsx fixtures for tests.
package xlsxtest

import (
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

// Sheet is a named sheet whose first row is the header.
type Sheet struct {
	Name string
	Rows [][]any
}

// Build returns the xlsx bytes of a workbook holding sheets in order.
func Build(t testing.TB, sheets ...Sheet) []byte {
	t.Helper()
	f := newFile(t, sheets)
	defer f.Close()

	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("Failed to write fixture: %v", err)
	}
	return buf.Bytes()
}

// Save writes the workbook into a temporary directory and returns its path.
func Save(t testing.TB, name string, sheets ...Sheet) string {
	t.Helper()
	f := newFile(t, sheets)
	defer f.Close()

	path := filepath.Join(t.TempDir(), name)
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("Failed to save fixture: %v", err)
	}
	return path
}

func newFile(t testing.TB, sheets []Sheet) *excelize.File {
	t.Helper()
	f := excelize.NewFile()
	for i, s := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", s.Name); err != nil {
				t.Fatalf("Failed to rename sheet: %v", err)
			}
		} else if _, err := f.NewSheet(s.Name); err != nil {
			t.Fatalf("Failed to add sheet %q: %v", s.Name, err)
		}

		for r, row := range s.Rows {
			cell, err := excelize.CoordinatesToCellName(1, r+1)
			if err != nil {
				t.Fatalf("Invalid row %d: %v", r+1, err)
			}
			values := row
			if err := f.SetSheetRow(s.Name, cell, &values); err != nil {
				t.Fatalf("Failed to set row %d of %q: %v", r+1, s.Name, err)
			}
		}
	}
	return f
}
