// Package parser reads xlsx workbooks into models.Table values.
package parser

import "errors"

var (
	// ErrUnreadableWorkbook indicates the input is not a valid xlsx container.
	ErrUnreadableWorkbook = errors.New("unreadable workbook")
	// ErrSheetNotFound indicates a requested sheet is not in the workbook.
	ErrSheetNotFound = errors.New("sheet not found")
	// ErrTemplateNotFound indicates the template workbook could not be opened.
	ErrTemplateNotFound = errors.New("template not found")
	// ErrTemplateSheetMissing indicates the template lacks its target sheet.
	ErrTemplateSheetMissing = errors.New("template sheet missing")
)
