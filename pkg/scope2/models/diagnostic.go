package models

// DiagnosticKind classifies a non-fatal finding.
type DiagnosticKind string

const (
	// KindMissingSourceColumn: a mapped client column is absent from the merged table.
	KindMissingSourceColumn DiagnosticKind = "missing_source_column"
	// KindFoldedSourceColumn: a mapped client column matched a header that
	// differs from it only in case or whitespace.
	KindFoldedSourceColumn DiagnosticKind = "folded_source_column"
	// KindFieldNotInTemplate: a mapped field is not a column of the template.
	KindFieldNotInTemplate DiagnosticKind = "field_not_in_template"
	// KindInvalidDate: a non-empty date cell could not be parsed.
	KindInvalidDate DiagnosticKind = "invalid_date"
)

// Diagnostic is an informational finding that does not stop the pipeline.
// Row is the 0-based row of the merged table, or -1 when the finding is not
// row-specific. Sheet and SheetRow locate that row in the client workbook
// when known.
type Diagnostic struct {
	Kind     DiagnosticKind `json:"kind"`
	Field    string         `json:"field,omitempty"`
	Column   string         `json:"column,omitempty"`
	Row      int            `json:"row"`
	Sheet    string         `json:"sheet,omitempty"`
	SheetRow int            `json:"sheet_row,omitempty"`
	Value    string         `json:"value,omitempty"`
	Message  string         `json:"message"`
}
