package scope2

import (
	"errors"
	"fmt"

	"github.com/ukaji3/scope2-go/pkg/scope2/output"
	"github.com/ukaji3/scope2-go/pkg/scope2/parser"
)

// ErrUnreadableWorkbook indicates the uploaded file is not a valid xlsx workbook.
var ErrUnreadableWorkbook = parser.ErrUnreadableWorkbook

// ErrSheetNotFound indicates a requested sheet is missing.
var ErrSheetNotFound = parser.ErrSheetNotFound

// ErrTemplateNotFound indicates the template workbook could not be opened.
var ErrTemplateNotFound = parser.ErrTemplateNotFound

// ErrTemplateSheetMissing indicates the template lacks its target sheet.
var ErrTemplateSheetMissing = parser.ErrTemplateSheetMissing

// ErrWriteFailure indicates an output workbook could not be serialized.
var ErrWriteFailure = output.ErrWriteFailure

// ErrInvalidMapping indicates a column mapping does not cover the template fields.
var ErrInvalidMapping = errors.New("invalid column mapping")

// Pipeline steps named in a StepError.
const (
	StepRead      = "read"
	StepMerge     = "merge"
	StepTemplate  = "template"
	StepMapping   = "mapping"
	StepWrite     = "write"
	StepConfigure = "configure"
)

// StepError represents a fatal error in one pipeline step.
type StepError struct {
	Step     string
	Resource string // file, sheet or bucket the step was working on
	Err      error
}

func (e *StepError) Error() string {
	if e.Resource == "" {
		return fmt.Sprintf("%s failed: %v", e.Step, e.Err)
	}
	return fmt.Sprintf("%s failed for %q: %v", e.Step, e.Resource, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// NewStepError creates a new StepError.
func NewStepError(step, resource string, err error) *StepError {
	return &StepError{
		Step:     step,
		Resource: resource,
		Err:      err,
	}
}
