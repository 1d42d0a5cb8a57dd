package sheetsync

import (
	"errors"
	"fmt"
)

// ErrCredentials indicates credentials that could not be loaded. No fetch
// is attempted after it.
var ErrCredentials = errors.New("credentials unavailable")

// ErrNoContentSource indicates an article sync without a CMS configured.
var ErrNoContentSource = errors.New("no content source configured")

// StageError represents a failed report at one stage of a refresh.
type StageError struct {
	Report string
	Stage  string // "fetch", "merge", "write", "charts"
	Err    error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s failed for report %q: %v", e.Stage, e.Report, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// NewStageError creates a new StageError.
func NewStageError(report, stage string, err error) *StageError {
	return &StageError{
		Report: report,
		Stage:  stage,
		Err:    err,
	}
}
