// Package chart turns declarative chart descriptors into backend-neutral
// chart requests and applies them to a spreadsheet.
package chart

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/ukaji3/sheetsync/pkg/sheetsync/models"
	"github.com/ukaji3/sheetsync/pkg/sheetsync/sheet"
)

// Legend and axis positions understood by every backend.
const (
	LegendBottom = "BOTTOM_LEGEND"
	LegendNone   = "NO_LEGEND"
	AxisBottom   = "BOTTOM_AXIS"
	AxisLeft     = "LEFT_AXIS"
)

// Default chart size in pixels.
const (
	DefaultWidth  = 600
	DefaultHeight = 400
)

// DefaultBarColor is the series color of a bar chart without an override.
var DefaultBarColor = models.Color{Red: 0.2, Green: 0.6, Blue: 0.9}

// ErrInvalidDescriptor indicates a descriptor that cannot produce a chart.
var ErrInvalidDescriptor = errors.New("invalid chart descriptor")

// Build converts a descriptor into a chart request. Every range starts at
// the header row and spans DataRows rows below it; the header is excluded
// from the plotted data through HeaderCount. Sheet ids are left at zero
// and resolved by Apply.
func Build(d models.ChartDescriptor) (models.ChartRequest, error) {
	if err := validate(d); err != nil {
		return models.ChartRequest{}, err
	}

	req := models.ChartRequest{
		Sheet:        d.Sheet,
		Kind:         d.Kind,
		Title:        d.Title,
		Domain:       column(d.DomainColumn, d.DataRows),
		HeaderCount:  1,
		AnchorRow:    d.AnchorRow,
		AnchorColumn: d.AnchorColumn,
		Width:        d.Width,
		Height:       d.Height,
		Axes: []models.ChartAxis{
			{Position: AxisBottom, Title: d.DomainTitle},
			{Position: AxisLeft, Title: d.ValueTitle},
		},
	}
	if req.Width == 0 {
		req.Width = DefaultWidth
	}
	if req.Height == 0 {
		req.Height = DefaultHeight
	}

	switch d.Kind {
	case models.ChartLine:
		req.Legend = LegendBottom
		for _, c := range d.SeriesColumns {
			req.Series = append(req.Series, models.ChartSeries{
				Source:     column(c, d.DataRows),
				TargetAxis: AxisLeft,
				Color:      d.Color,
			})
		}
	case models.ChartBar:
		color := DefaultBarColor
		if d.Color != nil {
			color = *d.Color
		}
		req.Legend = LegendNone
		req.Series = []models.ChartSeries{{
			Source:     column(d.SeriesColumns[0], d.DataRows),
			TargetAxis: AxisBottom,
			Color:      &color,
		}}
	}
	return req, nil
}

func column(col, dataRows int) models.GridRange {
	return models.GridRange{StartRow: 0, EndRow: dataRows + 1, StartCol: col, EndCol: col + 1}
}

func validate(d models.ChartDescriptor) error {
	if d.Sheet == "" {
		return fmt.Errorf("%w %q: no sheet", ErrInvalidDescriptor, d.Title)
	}
	if d.DataRows <= 0 {
		return fmt.Errorf("%w %q: data rows must be positive", ErrInvalidDescriptor, d.Title)
	}
	if d.DomainColumn < 0 || d.AnchorRow < 0 || d.AnchorColumn < 0 {
		return fmt.Errorf("%w %q: negative index", ErrInvalidDescriptor, d.Title)
	}
	if len(d.SeriesColumns) == 0 {
		return fmt.Errorf("%w %q: no series columns", ErrInvalidDescriptor, d.Title)
	}
	seen := make(map[int]bool, len(d.SeriesColumns))
	for _, c := range d.SeriesColumns {
		if c < 0 || c == d.DomainColumn || seen[c] {
			return fmt.Errorf("%w %q: bad series column %d", ErrInvalidDescriptor, d.Title, c)
		}
		seen[c] = true
	}

	switch d.Kind {
	case models.ChartLine:
	case models.ChartBar:
		if len(d.SeriesColumns) != 1 {
			return fmt.Errorf("%w %q: bar charts take exactly one series", ErrInvalidDescriptor, d.Title)
		}
	default:
		return fmt.Errorf("%w %q: unknown kind %q", ErrInvalidDescriptor, d.Title, d.Kind)
	}
	return nil
}

// Apply resolves sheet ids right before issuing one batch of charts.
// Requests whose sheet does not exist are skipped with a warning. It
// returns the number of charts created.
func Apply(ctx context.Context, book sheet.Spreadsheet, reqs []models.ChartRequest, logger zerolog.Logger) (int, error) {
	ids, err := book.Sheets(ctx)
	if err != nil {
		return 0, fmt.Errorf("resolve sheets: %w", err)
	}

	var resolved []models.ChartRequest
	for _, r := range reqs {
		id, ok := ids[r.Sheet]
		if !ok {
			logger.Warn().Str("sheet", r.Sheet).Str("chart", r.Title).Msg("Sheet not found, chart skipped")
			continue
		}
		resolved = append(resolved, r.WithSheetID(id))
	}
	if len(resolved) == 0 {
		return 0, nil
	}

	if err := book.AddCharts(ctx, resolved); err != nil {
		return 0, fmt.Errorf("add %d charts: %w", len(resolved), err)
	}
	logger.Info().Int("charts", len(resolved)).Msg("Charts created")
	return len(resolved), nil
}
