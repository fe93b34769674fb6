package parser

import (
	"fmt"
	"io"

	"github.com/ukaji3/scope2-go/pkg/scope2/models"
	"github.com/xuri/excelize/v2"
)

// Workbook is an open xlsx workbook.
type Workbook struct {
	f          *excelize.File
	date1904   bool
	dateStyles map[int]bool
}

// OpenWorkbook reads a whole xlsx stream into memory.
func OpenWorkbook(r io.Reader) (*Workbook, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnreadableWorkbook, err)
	}
	return newWorkbook(f), nil
}

// OpenWorkbookFile opens the xlsx file at path.
func OpenWorkbookFile(path string) (*Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrUnreadableWorkbook, path, err)
	}
	return newWorkbook(f), nil
}

func newWorkbook(f *excelize.File) *Workbook {
	w := &Workbook{
		f:          f,
		dateStyles: make(map[int]bool),
	}
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		w.date1904 = *props.Date1904
	}
	return w
}

// Close releases the workbook.
func (w *Workbook) Close() error {
	return w.f.Close()
}

// SheetNames returns the sheet names in workbook order.
func (w *Workbook) SheetNames() []string {
	return w.f.GetSheetList()
}

// HasSheet reports whether the workbook contains a sheet called name.
func (w *Workbook) HasSheet(name string) bool {
	for _, s := range w.f.GetSheetList() {
		if s == name {
			return true
		}
	}
	return false
}

// Header returns the normalized column names of a sheet's first row.
func (w *Workbook) Header(sheet string) ([]string, error) {
	rows, err := w.rawRows(sheet)
	if err != nil {
		return nil, err
	}
	return headerRow(rows), nil
}

// FirstSheetColumns returns the first sheet's name and its column names.
func (w *Workbook) FirstSheetColumns() (string, []string, error) {
	sheets := w.f.GetSheetList()
	if len(sheets) == 0 {
		return "", nil, nil
	}
	cols, err := w.Header(sheets[0])
	if err != nil {
		return "", nil, err
	}
	return sheets[0], cols, nil
}

// Table materializes a sheet. The first row provides the column names.
func (w *Workbook) Table(sheet string) (*models.Table, error) {
	rows, err := w.rawRows(sheet)
	if err != nil {
		return nil, err
	}
	return w.extractTable(sheet, rows), nil
}

func (w *Workbook) rawRows(sheet string) ([][]string, error) {
	if !w.HasSheet(sheet) {
		return nil, fmt.Errorf("%w: %q", ErrSheetNotFound, sheet)
	}
	rows, err := w.f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	return rows, nil
}

// headerRow returns the normalized header, padded to the widest row.
func headerRow(rows [][]string) []string {
	if len(rows) == 0 {
		return []string{}
	}
	width := 0
	for _, row := range rows {
		if len(row) > width {
			width = len(row)
		}
	}
	header := make([]string, width)
	copy(header, rows[0])
	return NormalizeHeaders(header)
}
