package sheet

import (
	"errors"
	"fmt"
)

// ErrLabelCount indicates header labels that do not match the table columns.
var ErrLabelCount = errors.New("label count does not match column count")

// SyncError represents a failed step of a sheet sync.
type SyncError struct {
	Sheet string
	Op    string // "resolve", "read", "clear", "write", "charts"
	Err   error
}

func (e *SyncError) Error() string {
	return fmt.Sprintf("sync error in sheet %q (%s): %v", e.Sheet, e.Op, e.Err)
}

func (e *SyncError) Unwrap() error {
	return e.Err
}

func newSyncError(sheet, op string, err error) *SyncError {
	return &SyncError{Sheet: sheet, Op: op, Err: err}
}
