// Package sheet adapts a Google Spreadsheet as the row store for the
// translation pipeline: ordered dialogue rows in, one target cell written
// back per translated row.
package sheet

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// Row is one unit of dialogue, identified by its 1-based position in the
// sheet. Target is empty until the row has been translated.
type Row struct {
	Index           int
	Speaker         string
	SourcePrimary   string
	SourceSecondary string
	Target          string
}

// Translated reports whether the row already carries a target value.
func (r Row) Translated() bool {
	return strings.TrimSpace(r.Target) != ""
}

// HasSource reports whether the row has anything to translate.
func (r Row) HasSource() bool {
	return strings.TrimSpace(r.SourcePrimary) != "" || strings.TrimSpace(r.SourceSecondary) != ""
}

// RowStore is the tabular boundary the orchestrator works against.
type RowStore interface {
	// ListSheets returns the worksheet tab titles in the spreadsheet.
	ListSheets(ctx context.Context) ([]string, error)
	// ListRows returns all data rows of the named tab in sheet order,
	// header rows excluded. Fails with *AccessError.
	ListRows(ctx context.Context, sheetName string) ([]Row, error)
	// WriteTarget writes text into the target column of exactly one row.
	// Fails with *AccessError or *WriteError.
	WriteTarget(ctx context.Context, sheetName string, rowIndex int, text string) error
}

// AccessError means the row store cannot be read at all: bad credentials,
// missing spreadsheet, or missing tab. It is fatal to a run.
type AccessError struct {
	Op    string
	Sheet string
	Err   error
}

func (e *AccessError) Error() string {
	if e.Sheet != "" {
		return fmt.Sprintf("sheet access failed (%s, tab %q): %v", e.Op, e.Sheet, e.Err)
	}
	return fmt.Sprintf("sheet access failed (%s): %v", e.Op, e.Err)
}

func (e *AccessError) Unwrap() error { return e.Err }

// WriteError means one cell write was rejected. It fails the row, not the
// run.
type WriteError struct {
	Row int
	Err error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write to row %d failed: %v", e.Row, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// Columns maps spreadsheet columns to row fields. Each column is given as a
// letter (A, B, ..., AA) or a 1-based number.
type Columns struct {
	Speaker         string
	SourcePrimary   string
	SourceSecondary string
	Target          string
	HeaderRows      int
}

// ColIndex converts a column letter or decimal string to a 1-based index.
func ColIndex(col string) (int, error) {
	s := strings.TrimSpace(col)
	if s == "" {
		return 0, fmt.Errorf("empty column reference")
	}
	if n, err := strconv.Atoi(s); err == nil {
		if n < 1 {
			return 0, fmt.Errorf("column number must be positive: %d", n)
		}
		return n, nil
	}

	idx := 0
	for _, ch := range strings.ToUpper(s) {
		if ch < 'A' || ch > 'Z' {
			return 0, fmt.Errorf("invalid column %q", col)
		}
		idx = idx*26 + int(ch-'A'+1)
	}
	return idx, nil
}

// colLetter is the inverse of ColIndex for building A1 ranges.
func colLetter(idx int) string {
	var sb strings.Builder
	for idx > 0 {
		idx--
		sb.WriteByte(byte('A' + idx%26))
		idx /= 26
	}
	// Reverse the accumulated letters.
	b := []byte(sb.String())
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
	return string(b)
}

// quoteSheetName wraps a tab name for use in an A1 range. Single quotes
// inside the name are doubled per the Sheets grammar.
func quoteSheetName(name string) string {
	return "'" + strings.ReplaceAll(name, "'", "''") + "'"
}
