// Package source fetches report tables and content entries from the remote
// reporting and CMS APIs.
package source

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidWindow indicates a date window whose start is after its end.
var ErrInvalidWindow = errors.New("invalid date window")

// apiDateLayout is the date format both reporting APIs accept.
const apiDateLayout = "2006-01-02"

// DateWindow is an inclusive range of calendar days.
type DateWindow struct {
	Start time.Time
	End   time.Time
}

// LastDays returns the window of days ending lag days before now.
func LastDays(now time.Time, days, lag int) DateWindow {
	end := now.AddDate(0, 0, -lag)
	return DateWindow{Start: end.AddDate(0, 0, -days), End: end}
}

// Validate checks that the window resolves to start <= end.
func (w DateWindow) Validate() error {
	if w.Start.IsZero() || w.End.IsZero() {
		return fmt.Errorf("%w: unset bound", ErrInvalidWindow)
	}
	if w.StartDate() > w.EndDate() {
		return fmt.Errorf("%w: %s after %s", ErrInvalidWindow, w.StartDate(), w.EndDate())
	}
	return nil
}

// StartDate formats the first day for the reporting APIs.
func (w DateWindow) StartDate() string { return w.Start.Format(apiDateLayout) }

// EndDate formats the last day for the reporting APIs.
func (w DateWindow) EndDate() string { return w.End.Format(apiDateLayout) }
