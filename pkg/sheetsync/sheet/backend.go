// Package sheet writes report tables into spreadsheet sheets without losing
// the columns people edit by hand.
package sheet

import (
	"context"

	"github.com/ukaji3/sheetsync/pkg/sheetsync/models"
)

// Spreadsheet is the boundary to a spreadsheet document. Sheets are
// addressed by title; ids are backend specific.
type Spreadsheet interface {
	// Sheets returns the id of every sheet keyed by title.
	Sheets(ctx context.Context) (map[string]int64, error)
	// AddSheet creates a sheet with the given grid capacity.
	AddSheet(ctx context.Context, title string, rows, cols int) (int64, error)
	// Read returns the used values of a sheet as displayed text.
	Read(ctx context.Context, sheet string) ([][]string, error)
	// Clear removes every value of a sheet.
	Clear(ctx context.Context, sheet string) error
	// Write stores rows starting at the top-left cell. Cells are string,
	// int64 or float64.
	Write(ctx context.Context, sheet string, rows [][]interface{}) error
	// AddCharts creates all charts in one batch.
	AddCharts(ctx context.Context, reqs []models.ChartRequest) error
}

// trimRows drops trailing empty cells and trailing empty rows.
func trimRows(rows [][]string) [][]string {
	last := -1
	for i, row := range rows {
		n := len(row)
		for n > 0 && row[n-1] == "" {
			n--
		}
		rows[i] = row[:n]
		if n > 0 {
			last = i
		}
	}
	return rows[:last+1]
}
