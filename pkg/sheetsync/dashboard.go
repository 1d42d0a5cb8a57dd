package sheetsync

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/ukaji3/sheetsync/pkg/sheetsync/merge"
	"github.com/ukaji3/sheetsync/pkg/sheetsync/models"
	"github.com/ukaji3/sheetsync/pkg/sheetsync/sheet"
	"github.com/ukaji3/sheetsync/pkg/sheetsync/source"
)

// Display labels of the report sheets, in table column order.
var (
	DailyPVLabels       = []string{"日付", "PV数", "セッション数", "ユーザー数", "平均滞在時間(秒)"}
	ArticleLabels       = []string{"URL", "記事タイトル", "PV数", "平均滞在時間(秒)", "直帰率(%)"}
	SearchQueryLabels   = []string{"検索クエリ", "クリック数", "表示回数", "CTR(%)", "平均順位"}
	TrendLabels         = []string{"日付", "PV数", "セッション数", "ユーザー数", "平均滞在時間", "クリック数", "表示回数", "CTR(%)", "平均順位"}
	TrafficSourceLabels = []string{"参照元", "メディア", "セッション数", "ユーザー数"}
	SearchPageLabels    = []string{"ページ", "クリック数", "表示回数", "CTR(%)", "平均順位"}
	DeviceLabels        = []string{"デバイス", "セッション数", "PV数", "クリック数", "表示回数", "CTR(%)", "平均順位"}
	HourlyLabels        = []string{"時間", "ユーザー数"}
)

// AnalyticsReports is the web-analytics side of the dashboard.
type AnalyticsReports interface {
	DailyPageViews(ctx context.Context) (*models.Table, error)
	ArticlePerformance(ctx context.Context, limit int) (*models.Table, error)
	TrafficSources(ctx context.Context) (*models.Table, error)
	DeviceCategories(ctx context.Context) (*models.Table, error)
	HourlyUsers(ctx context.Context) (*models.Table, error)
}

// SearchReports is the search-performance side of the dashboard.
type SearchReports interface {
	SearchQueries(ctx context.Context, limit int) (*models.Table, error)
	PagePerformance(ctx context.Context, limit int) (*models.Table, error)
	DailyPerformance(ctx context.Context) (*models.Table, error)
	DevicePerformance(ctx context.Context) (*models.Table, error)
}

// Dashboard refreshes the report sheets of one spreadsheet.
type Dashboard struct {
	analytics AnalyticsReports
	search    SearchReports
	engine    *sheet.Engine
	opts      Options
	now       func() time.Time
	log       zerolog.Logger
}

// NewDashboard creates a dashboard fed by the given sources.
func NewDashboard(analytics AnalyticsReports, search SearchReports, engine *sheet.Engine, opts Options, logger zerolog.Logger) *Dashboard {
	return &Dashboard{
		analytics: analytics,
		search:    search,
		engine:    engine,
		opts:      opts,
		now:       time.Now,
		log:       logger,
	}
}

// Run fetches every report sequentially and writes the sheets. In quick
// mode only the summary inputs are fetched and only the summary is written.
func (d *Dashboard) Run(ctx context.Context) (Summary, error) {
	start := time.Now()
	d.log.Info().
		Str("mode", string(d.opts.Mode)).
		Int("days", d.opts.Days).
		Msg("Dashboard refresh started")

	daily, err := fetch(ctx, "daily_pv", d.analytics.DailyPageViews)
	if err != nil {
		return Summary{}, err
	}
	articles, err := fetch(ctx, "article_performance", func(ctx context.Context) (*models.Table, error) {
		return d.analytics.ArticlePerformance(ctx, d.opts.RowLimit)
	})
	if err != nil {
		return Summary{}, err
	}
	queries, err := fetch(ctx, "search_queries", func(ctx context.Context) (*models.Table, error) {
		return d.search.SearchQueries(ctx, d.opts.RowLimit)
	})
	if err != nil {
		return Summary{}, err
	}

	summary := BuildSummary(daily, articles, queries, d.now())
	if _, err := d.engine.WriteLayout(ctx, d.opts.Sheets.Summary, summary.Layout(d.opts.Title, d.opts.Days)); err != nil {
		return summary, NewStageError("summary", "write", err)
	}

	if d.opts.Mode != ModeQuick {
		if err := d.writeReports(ctx, daily, articles, queries); err != nil {
			return summary, err
		}
	}

	d.log.Info().
		Int64("total_pv", summary.TotalPageViews).
		Int64("total_clicks", summary.TotalClicks).
		Dur("duration", time.Since(start)).
		Msg("Dashboard refresh finished")
	return summary, nil
}

type reportWrite struct {
	report string
	sheet  string
	table  *models.Table
	labels []string
}

func (d *Dashboard) writeReports(ctx context.Context, daily, articles, queries *models.Table) error {
	names := d.opts.Sheets

	gscDaily, err := fetch(ctx, "search_daily", d.search.DailyPerformance)
	if err != nil {
		return err
	}
	trends, err := merge.Outer(daily, gscDaily, source.DimDate)
	if err != nil && !errors.Is(err, merge.ErrNoData) {
		return NewStageError("trends", "merge", err)
	}

	writes := []reportWrite{
		{"daily_pv", names.DailyPV, daily, DailyPVLabels},
		{"article_performance", names.ArticlePerformance, articles, ArticleLabels},
		{"search_queries", names.SearchQueries, queries, SearchQueryLabels},
		{"trends", names.Trends, trends, TrendLabels},
	}

	if d.opts.ShouldIncludeBreakdowns() {
		traffic, err := fetch(ctx, "traffic_sources", d.analytics.TrafficSources)
		if err != nil {
			return err
		}
		pages, err := fetch(ctx, "search_pages", func(ctx context.Context) (*models.Table, error) {
			return d.search.PagePerformance(ctx, d.opts.RowLimit)
		})
		if err != nil {
			return err
		}
		devices, err := d.devices(ctx)
		if err != nil {
			return err
		}
		hourly, err := fetch(ctx, "hourly_users", d.analytics.HourlyUsers)
		if err != nil {
			return err
		}
		writes = append(writes, []reportWrite{
			{"traffic_sources", names.TrafficSources, traffic, TrafficSourceLabels},
			{"search_pages", names.SearchPages, pages, SearchPageLabels},
			{"devices", names.Devices, devices, DeviceLabels},
			{"hourly_users", names.TimeAnalysis, hourly, HourlyLabels},
		}...)
	}

	for _, w := range writes {
		if _, err := d.engine.SyncTable(ctx, w.sheet, w.table, w.labels); err != nil {
			return NewStageError(w.report, "write", err)
		}
	}
	return nil
}

// devices joins GA device categories with Search Console devices. Search
// Console reports upper-case device names.
func (d *Dashboard) devices(ctx context.Context) (*models.Table, error) {
	ga, err := fetch(ctx, "device_category", d.analytics.DeviceCategories)
	if err != nil {
		return nil, err
	}
	gsc, err := fetch(ctx, "device_performance", d.search.DevicePerformance)
	if err != nil {
		return nil, err
	}
	gsc, err = gsc.Map(func(r models.Row) models.Row {
		r[source.DimDevice] = models.String(strings.ToLower(r[source.DimDevice].Str()))
		return r
	})
	if err != nil {
		return nil, NewStageError("devices", "merge", err)
	}
	gsc = gsc.Rename(map[string]string{source.DimDevice: source.DimDeviceCategory})

	joined, err := merge.Outer(ga, gsc, source.DimDeviceCategory)
	if err != nil && !errors.Is(err, merge.ErrNoData) {
		return nil, NewStageError("devices", "merge", err)
	}
	return joined.SortBy(source.MetricSessions, true), nil
}

func fetch(ctx context.Context, report string, fn func(context.Context) (*models.Table, error)) (*models.Table, error) {
	tbl, err := fn(ctx)
	if err != nil {
		return nil, NewStageError(report, "fetch", err)
	}
	if tbl == nil {
		return nil, NewStageError(report, "fetch", fmt.Errorf("no table returned"))
	}
	return tbl, nil
}
