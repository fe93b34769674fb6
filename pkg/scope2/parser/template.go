package parser

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// LoadTemplate returns the column names of a template sheet's header row.
// Only the header is read; the template's data rows are ignored.
func LoadTemplate(path, sheet string) ([]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrTemplateNotFound, path, err)
	}
	w := newWorkbook(f)
	defer w.Close()

	if !w.HasSheet(sheet) {
		return nil, fmt.Errorf("%w: %q in %s", ErrTemplateSheetMissing, sheet, path)
	}
	return w.Header(sheet)
}
