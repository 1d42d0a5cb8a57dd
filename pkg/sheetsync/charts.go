package sheetsync

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/ukaji3/sheetsync/pkg/sheetsync/chart"
	"github.com/ukaji3/sheetsync/pkg/sheetsync/models"
	"github.com/ukaji3/sheetsync/pkg/sheetsync/sheet"
)

// CreateCharts adds the default dashboard charts to the sheets that exist.
// Charts are not deduplicated; running it twice draws every chart twice.
func CreateCharts(ctx context.Context, book sheet.Spreadsheet, names SheetNames, logger zerolog.Logger) (int, error) {
	descs := chart.Defaults(chart.DashboardSheets{
		DailyPV:       names.DailyPV,
		Articles:      names.ArticlePerformance,
		SearchQueries: names.SearchQueries,
		Trends:        names.Trends,
	})

	reqs := make([]models.ChartRequest, 0, len(descs))
	for _, d := range descs {
		r, err := chart.Build(d)
		if err != nil {
			return 0, NewStageError(d.Title, "charts", err)
		}
		reqs = append(reqs, r)
	}

	n, err := chart.Apply(ctx, book, reqs, logger)
	if err != nil {
		return 0, NewStageError("charts", "charts", err)
	}
	return n, nil
}
