package source

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/rs/zerolog"
	analyticsdata "google.golang.org/api/analyticsdata/v1beta"
	"google.golang.org/api/option"

	"github.com/ukaji3/sheetsync/pkg/sheetsync/models"
)

// GA4 dimension and metric names used by the dashboard.
const (
	DimDate           = "date"
	DimHour           = "hour"
	DimPagePath       = "pagePath"
	DimPageTitle      = "pageTitle"
	DimSessionSource  = "sessionSource"
	DimSessionMedium  = "sessionMedium"
	DimDeviceCategory = "deviceCategory"

	MetricPageViews       = "screenPageViews"
	MetricSessions        = "sessions"
	MetricActiveUsers     = "activeUsers"
	MetricSessionDuration = "averageSessionDuration"
	MetricBounceRate      = "bounceRate"
)

// ga4DateLayout is the format of the GA4 "date" dimension.
const ga4DateLayout = "20060102"

// ArticlePathPattern matches content pages: a single slug or numeric id
// segment. The top page, archives and category pages do not match.
var ArticlePathPattern = regexp.MustCompile(`^/[a-z0-9\-]+/$|^/\d+/$`)

// ReportRunner executes a GA4 runReport call.
type ReportRunner interface {
	RunReport(ctx context.Context, property string, req *analyticsdata.RunReportRequest) (*analyticsdata.RunReportResponse, error)
}

type analyticsService struct {
	svc *analyticsdata.Service
}

func (s analyticsService) RunReport(ctx context.Context, property string, req *analyticsdata.RunReportRequest) (*analyticsdata.RunReportResponse, error) {
	return s.svc.Properties.RunReport(property, req).Context(ctx).Do()
}

// NewAnalyticsRunner creates a ReportRunner backed by the GA4 Data API.
func NewAnalyticsRunner(ctx context.Context, opts ...option.ClientOption) (ReportRunner, error) {
	svc, err := analyticsdata.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create analytics data service: %w", err)
	}
	return analyticsService{svc: svc}, nil
}

// Analytics is the web-analytics MetricsSource.
type Analytics struct {
	runner   ReportRunner
	property string
	days     int
	now      func() time.Time
	log      zerolog.Logger
}

// NewAnalytics creates a source for GA4 property propertyID reporting over
// the last days days.
func NewAnalytics(runner ReportRunner, propertyID string, days int, logger zerolog.Logger) *Analytics {
	return &Analytics{
		runner:   runner,
		property: "properties/" + propertyID,
		days:     days,
		now:      time.Now,
		log:      logger.With().Str("source", "analytics").Logger(),
	}
}

// Fetch runs q and returns one row per response row, dimensions first.
func (a *Analytics) Fetch(ctx context.Context, q Query) (*models.Table, error) {
	if err := q.validate(); err != nil {
		return nil, err
	}

	req := &analyticsdata.RunReportRequest{
		DateRanges: []*analyticsdata.DateRange{{
			StartDate: q.Window.StartDate(),
			EndDate:   q.Window.EndDate(),
		}},
		Limit: int64(q.Limit),
	}
	for _, d := range q.Dimensions {
		req.Dimensions = append(req.Dimensions, &analyticsdata.Dimension{Name: d})
	}
	for _, m := range q.Metrics {
		req.Metrics = append(req.Metrics, &analyticsdata.Metric{Name: m})
	}

	start := time.Now()
	resp, err := a.runner.RunReport(ctx, a.property, req)
	if err != nil {
		return nil, &QueryError{Source: "analytics", Report: q.Name, Err: err}
	}

	rows := make([][]string, 0, len(resp.Rows))
	for i, r := range resp.Rows {
		if len(r.DimensionValues) != len(q.Dimensions) || len(r.MetricValues) != len(q.Metrics) {
			return nil, &QueryError{Source: "analytics", Report: q.Name,
				Err: fmt.Errorf("row %d has %d dimensions and %d metrics", i, len(r.DimensionValues), len(r.MetricValues))}
		}
		raw := make([]string, 0, len(q.Dimensions)+len(q.Metrics))
		for _, v := range r.DimensionValues {
			raw = append(raw, v.Value)
		}
		for _, v := range r.MetricValues {
			raw = append(raw, v.Value)
		}
		rows = append(rows, raw)
	}

	tbl, err := rawTable(q.Dimensions, q.Metrics, rows, q.Coerce)
	if err != nil {
		return nil, &QueryError{Source: "analytics", Report: q.Name, Err: err}
	}

	a.log.Debug().
		Str("report", q.Name).
		Int("rows", tbl.Len()).
		Dur("duration", time.Since(start)).
		Msg("GA4 report fetched")
	return tbl, nil
}

func (a *Analytics) window(days int) DateWindow {
	return LastDays(a.now(), days, 0)
}

// DailyPageViews returns page views, sessions, users and mean session
// duration per day, oldest first.
func (a *Analytics) DailyPageViews(ctx context.Context) (*models.Table, error) {
	tbl, err := a.Fetch(ctx, Query{
		Name:       "daily_pv",
		Dimensions: []string{DimDate},
		Metrics:    []string{MetricPageViews, MetricSessions, MetricActiveUsers, MetricSessionDuration},
		Window:     a.window(a.days),
		Limit:      a.days + 1,
		Coerce: map[string]Coercion{
			DimDate:               AsDate(ga4DateLayout),
			MetricPageViews:       AsInt,
			MetricSessions:        AsInt,
			MetricActiveUsers:     AsInt,
			MetricSessionDuration: AsFloat(1),
		},
	})
	if err != nil {
		return nil, err
	}
	return tbl.SortBy(DimDate, false), nil
}

// ArticlePerformance returns per-article page views, mean session duration
// and bounce rate (percent), most viewed first. Non-article paths are
// dropped.
func (a *Analytics) ArticlePerformance(ctx context.Context, limit int) (*models.Table, error) {
	tbl, err := a.Fetch(ctx, Query{
		Name:       "article_performance",
		Dimensions: []string{DimPagePath, DimPageTitle},
		Metrics:    []string{MetricPageViews, MetricSessionDuration, MetricBounceRate},
		Window:     a.window(a.days),
		Limit:      limit,
		Coerce: map[string]Coercion{
			MetricPageViews:       AsInt,
			MetricSessionDuration: AsFloat(1),
			MetricBounceRate:      AsPercent(1),
		},
	})
	if err != nil {
		return nil, err
	}
	articles := tbl.Filter(func(r models.Row) bool {
		return ArticlePathPattern.MatchString(r[DimPagePath].Str())
	})
	return articles.SortBy(MetricPageViews, true), nil
}

// TrafficSources returns sessions and users per source/medium pair.
func (a *Analytics) TrafficSources(ctx context.Context) (*models.Table, error) {
	tbl, err := a.Fetch(ctx, Query{
		Name:       "traffic_sources",
		Dimensions: []string{DimSessionSource, DimSessionMedium},
		Metrics:    []string{MetricSessions, MetricActiveUsers},
		Window:     a.window(a.days),
		Limit:      20,
		Coerce: map[string]Coercion{
			MetricSessions:    AsInt,
			MetricActiveUsers: AsInt,
		},
	})
	if err != nil {
		return nil, err
	}
	return tbl.SortBy(MetricSessions, true), nil
}

// DeviceCategories returns sessions and page views per device category.
func (a *Analytics) DeviceCategories(ctx context.Context) (*models.Table, error) {
	tbl, err := a.Fetch(ctx, Query{
		Name:       "device_category",
		Dimensions: []string{DimDeviceCategory},
		Metrics:    []string{MetricSessions, MetricPageViews},
		Window:     a.window(a.days),
		Limit:      10,
		Coerce: map[string]Coercion{
			MetricSessions:  AsInt,
			MetricPageViews: AsInt,
		},
	})
	if err != nil {
		return nil, err
	}
	return tbl.SortBy(MetricSessions, true), nil
}

// HourlyUsers returns active users per hour of day over the last day.
func (a *Analytics) HourlyUsers(ctx context.Context) (*models.Table, error) {
	tbl, err := a.Fetch(ctx, Query{
		Name:       "hourly_users",
		Dimensions: []string{DimHour},
		Metrics:    []string{MetricActiveUsers},
		Window:     a.window(1),
		Limit:      24,
		Coerce: map[string]Coercion{
			DimHour:           AsInt,
			MetricActiveUsers: AsInt,
		},
	})
	if err != nil {
		return nil, err
	}
	return tbl.SortBy(DimHour, false), nil
}
