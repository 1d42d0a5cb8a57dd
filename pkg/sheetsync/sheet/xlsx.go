package sheet

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ukaji3/sheetsync/pkg/sheetsync/models"
)

// Workbook is a Spreadsheet stored in a local xlsx file. Sheet ids are
// workbook sheet indexes. Every mutation is saved to the file.
type Workbook struct {
	path string
	f    *excelize.File
}

// OpenWorkbook opens the xlsx file at path, or starts a new workbook that
// will be written there.
func OpenWorkbook(path string) (*Workbook, error) {
	f, err := excelize.OpenFile(path)
	if errors.Is(err, os.ErrNotExist) {
		f = excelize.NewFile()
	} else if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", path, err)
	}
	return &Workbook{path: path, f: f}, nil
}

// Close releases the workbook.
func (w *Workbook) Close() error {
	return w.f.Close()
}

// Sheets returns the index of every sheet keyed by name.
func (w *Workbook) Sheets(ctx context.Context) (map[string]int64, error) {
	out := make(map[string]int64)
	for _, name := range w.f.GetSheetList() {
		idx, err := w.f.GetSheetIndex(name)
		if err != nil {
			return nil, err
		}
		out[name] = int64(idx)
	}
	return out, nil
}

// AddSheet creates a sheet. xlsx grids grow on demand, so rows and cols
// are not applied.
func (w *Workbook) AddSheet(ctx context.Context, title string, rows, cols int) (int64, error) {
	idx, err := w.f.NewSheet(title)
	if err != nil {
		return 0, err
	}
	return int64(idx), w.save()
}

// Read returns the used values of a sheet.
func (w *Workbook) Read(ctx context.Context, sheet string) ([][]string, error) {
	rows, err := w.f.GetRows(sheet)
	if err != nil {
		return nil, err
	}
	return trimRows(rows), nil
}

// Clear blanks every cell inside the sheet's data bounds.
func (w *Workbook) Clear(ctx context.Context, sheet string) error {
	rows, err := w.f.GetRows(sheet)
	if err != nil {
		return err
	}
	minRow, maxRow, minCol, maxCol := findDataBounds(rows)
	if minRow < 0 {
		return nil
	}
	for r := minRow; r <= maxRow; r++ {
		for c := minCol; c <= maxCol; c++ {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return err
			}
			if err := w.f.SetCellStr(sheet, cell, ""); err != nil {
				return err
			}
		}
	}
	return w.save()
}

// Write stores rows starting at A1.
func (w *Workbook) Write(ctx context.Context, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		row := row
		if err := w.f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return w.save()
}

// AddCharts renders chart requests as native xlsx charts.
func (w *Workbook) AddCharts(ctx context.Context, reqs []models.ChartRequest) error {
	for _, r := range reqs {
		anchor, err := excelize.CoordinatesToCellName(r.AnchorColumn+1, r.AnchorRow+1)
		if err != nil {
			return err
		}
		chart, err := xlsxChart(r)
		if err != nil {
			return err
		}
		if err := w.f.AddChart(r.Sheet, anchor, chart); err != nil {
			return fmt.Errorf("add chart %q: %w", r.Title, err)
		}
	}
	return w.save()
}

func (w *Workbook) save() error {
	return w.f.SaveAs(w.path)
}

func xlsxChart(r models.ChartRequest) (*excelize.Chart, error) {
	chart := &excelize.Chart{
		Type:      excelize.Line,
		Title:     []excelize.RichTextRun{{Text: r.Title}},
		Legend:    excelize.ChartLegend{Position: "bottom"},
		Dimension: excelize.ChartDimension{Width: uint(r.Width), Height: uint(r.Height)},
	}
	if r.Kind == models.ChartBar {
		chart.Type = excelize.Bar
	}
	if r.Legend == "NO_LEGEND" {
		chart.Legend.Position = "none"
	}
	for _, a := range r.Axes {
		title := []excelize.RichTextRun{{Text: a.Title}}
		switch a.Position {
		case "BOTTOM_AXIS":
			chart.XAxis.Title = title
		case "LEFT_AXIS":
			chart.YAxis.Title = title
		}
	}

	categories, err := dataRange(r.Sheet, r.Domain, r.HeaderCount)
	if err != nil {
		return nil, err
	}
	for _, s := range r.Series {
		values, err := dataRange(r.Sheet, s.Source, r.HeaderCount)
		if err != nil {
			return nil, err
		}
		series := excelize.ChartSeries{Categories: categories, Values: values}
		if r.HeaderCount > 0 {
			name, err := excelize.CoordinatesToCellName(s.Source.StartCol+1, s.Source.StartRow+1, true)
			if err != nil {
				return nil, err
			}
			series.Name = quoteSheet(r.Sheet) + "!" + name
		}
		if s.Color != nil {
			series.Fill = excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{hexColor(*s.Color)}}
		}
		chart.Series = append(chart.Series, series)
	}
	return chart, nil
}

// dataRange renders the plotted part of a single-column range as an
// absolute A1 reference, skipping the header rows.
func dataRange(sheet string, g models.GridRange, headers int) (string, error) {
	first, err := excelize.CoordinatesToCellName(g.StartCol+1, g.StartRow+headers+1, true)
	if err != nil {
		return "", err
	}
	last, err := excelize.CoordinatesToCellName(g.EndCol, g.EndRow, true)
	if err != nil {
		return "", err
	}
	return quoteSheet(sheet) + "!" + first + ":" + last, nil
}

func quoteSheet(name string) string {
	return "'" + strings.ReplaceAll(name, "'", "''") + "'"
}

func hexColor(c models.Color) string {
	return fmt.Sprintf("#%02X%02X%02X", channel(c.Red), channel(c.Green), channel(c.Blue))
}

func channel(f float64) int {
	switch {
	case f <= 0:
		return 0
	case f >= 1:
		return 255
	}
	return int(f*255 + 0.5)
}

// findDataBounds finds the bounding box of non-empty cells. It returns -1
// bounds for a sheet without values.
func findDataBounds(rows [][]string) (minRow, maxRow, minCol, maxCol int) {
	minRow, maxRow = -1, -1
	minCol, maxCol = -1, -1

	for rowIdx, row := range rows {
		for colIdx, cell := range row {
			if cell == "" {
				continue
			}
			if minRow < 0 {
				minRow = rowIdx
			}
			maxRow = rowIdx
			if minCol < 0 || colIdx < minCol {
				minCol = colIdx
			}
			if colIdx > maxCol {
				maxCol = colIdx
			}
		}
	}
	return
}
