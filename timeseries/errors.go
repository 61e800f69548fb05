package timeseries

import (
	"errors"
	"fmt"
)

// ErrNoData is returned when a source holds no data rows.
var ErrNoData = errors.New("no data rows")

// DataError reports a malformed, missing or unreadable source file.
type DataError struct {
	Path string // source path, "<reader>" for in-memory sources
	Line int    // 1-based record number, 0 when not tied to a row
	Err  error
}

func (e *DataError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("load %s: line %d: %v", e.Path, e.Line, e.Err)
	}
	return fmt.Sprintf("load %s: %v", e.Path, e.Err)
}

func (e *DataError) Unwrap() error {
	return e.Err
}

func dataErr(path string, line int, format string, args ...any) *DataError {
	return &DataError{Path: path, Line: line, Err: fmt.Errorf(format, args...)}
}
