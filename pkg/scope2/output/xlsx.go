// Package output serializes tables as xlsx workbooks.
package output

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ukaji3/scope2-go/pkg/scope2/models"
	"github.com/xuri/excelize/v2"
)

// ErrWriteFailure indicates a workbook could not be serialized.
var ErrWriteFailure = errors.New("write failure")

// ContentType is the MIME type of an xlsx workbook.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// DateFormat is the number format applied to date cells.
const DateFormat = "yyyy-mm-dd"

// WriteTable renders t as a workbook holding a single sheet named sheet.
// The first row holds the column names; there is no index column.
func WriteTable(t *models.Table, sheet string) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := writeSheet(f, t, sheet); err != nil {
		return nil, fmt.Errorf("%w: sheet %q: %w", ErrWriteFailure, sheet, err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("%w: sheet %q: %w", ErrWriteFailure, sheet, err)
	}
	return buf.Bytes(), nil
}

func writeSheet(f *excelize.File, t *models.Table, sheet string) error {
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return err
	}

	header := make([]interface{}, len(t.Columns))
	for i, c := range t.Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}

	dateStyle := 0
	for rowIdx, values := range t.Values() {
		rowNum := rowIdx + 2
		for colIdx, v := range values {
			if models.IsEmpty(v) {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(colIdx+1, rowNum)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
			if _, ok := v.(time.Time); !ok {
				continue
			}
			if dateStyle == 0 {
				format := DateFormat
				if dateStyle, err = f.NewStyle(&excelize.Style{CustomNumFmt: &format}); err != nil {
					return err
				}
			}
			if err := f.SetCellStyle(sheet, cell, cell, dateStyle); err != nil {
				return err
			}
		}
	}
	return nil
}

// File is a named byte payload.
type File struct {
	Name string
	Data []byte
}

// Bundle zips files together with a diagnostics.json listing diags.
func Bundle(files []File, diags []models.Diagnostic) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	for _, file := range files {
		w, err := zw.Create(file.Name)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrWriteFailure, file.Name, err)
		}
		if _, err := w.Write(file.Data); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrWriteFailure, file.Name, err)
		}
	}

	if diags == nil {
		diags = []models.Diagnostic{}
	}
	report, err := json.MarshalIndent(diags, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("%w: diagnostics: %w", ErrWriteFailure, err)
	}
	w, err := zw.Create("diagnostics.json")
	if err != nil {
		return nil, fmt.Errorf("%w: diagnostics: %w", ErrWriteFailure, err)
	}
	if _, err := w.Write(report); err != nil {
		return nil, fmt.Errorf("%w: diagnostics: %w", ErrWriteFailure, err)
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("%w: zip: %w", ErrWriteFailure, err)
	}
	return buf.Bytes(), nil
}
