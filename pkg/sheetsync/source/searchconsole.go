package source

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"google.golang.org/api/option"
	searchconsole "google.golang.org/api/searchconsole/v1"

	"github.com/ukaji3/sheetsync/pkg/sheetsync/models"
)

// Search Console dimensions and the metrics every row carries.
const (
	DimQuery  = "query"
	DimPage   = "page"
	DimDevice = "device"

	MetricClicks      = "clicks"
	MetricImpressions = "impressions"
	MetricCTR         = "ctr"
	MetricPosition    = "position"
)

// searchMetrics is the fixed metric set of a searchanalytics row.
var searchMetrics = []string{MetricClicks, MetricImpressions, MetricCTR, MetricPosition}

// SearchLagDays is how far behind today Search Console data is complete.
const SearchLagDays = 3

// SearchQuerier executes a searchanalytics.query call.
type SearchQuerier interface {
	Query(ctx context.Context, siteURL string, req *searchconsole.SearchAnalyticsQueryRequest) (*searchconsole.SearchAnalyticsQueryResponse, error)
}

type searchService struct {
	svc *searchconsole.Service
}

func (s searchService) Query(ctx context.Context, siteURL string, req *searchconsole.SearchAnalyticsQueryRequest) (*searchconsole.SearchAnalyticsQueryResponse, error) {
	return s.svc.Searchanalytics.Query(siteURL, req).Context(ctx).Do()
}

// NewSearchQuerier creates a SearchQuerier backed by the Search Console API.
func NewSearchQuerier(ctx context.Context, opts ...option.ClientOption) (SearchQuerier, error) {
	svc, err := searchconsole.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create search console service: %w", err)
	}
	return searchService{svc: svc}, nil
}

// Search is the search-performance MetricsSource.
type Search struct {
	querier SearchQuerier
	siteURL string
	days    int
	lag     int
	now     func() time.Time
	log     zerolog.Logger
}

// NewSearch creates a source for siteURL reporting over the last days days,
// ending lag days before today.
func NewSearch(querier SearchQuerier, siteURL string, days, lag int, logger zerolog.Logger) *Search {
	return &Search{
		querier: querier,
		siteURL: siteURL,
		days:    days,
		lag:     lag,
		now:     time.Now,
		log:     logger.With().Str("source", "search").Logger(),
	}
}

// Fetch runs q. q.Metrics is ignored: every row carries clicks, impressions,
// CTR (percent, 2 dp) and position (1 dp).
func (s *Search) Fetch(ctx context.Context, q Query) (*models.Table, error) {
	if err := q.validate(); err != nil {
		return nil, err
	}

	req := &searchconsole.SearchAnalyticsQueryRequest{
		StartDate:  q.Window.StartDate(),
		EndDate:    q.Window.EndDate(),
		Dimensions: q.Dimensions,
		RowLimit:   int64(q.Limit),
		StartRow:   0,
	}
	if len(q.Filters) > 0 {
		group := &searchconsole.ApiDimensionFilterGroup{}
		for _, f := range q.Filters {
			group.Filters = append(group.Filters, &searchconsole.ApiDimensionFilter{
				Dimension:  f.Dimension,
				Operator:   f.Operator,
				Expression: f.Expression,
			})
		}
		req.DimensionFilterGroups = []*searchconsole.ApiDimensionFilterGroup{group}
	}

	start := time.Now()
	resp, err := s.querier.Query(ctx, s.siteURL, req)
	if err != nil {
		return nil, &QueryError{Source: "search", Report: q.Name, Err: err}
	}

	rows := make([][]string, 0, len(resp.Rows))
	for i, r := range resp.Rows {
		if len(r.Keys) != len(q.Dimensions) {
			return nil, &QueryError{Source: "search", Report: q.Name,
				Err: fmt.Errorf("row %d has %d keys, want %d", i, len(r.Keys), len(q.Dimensions))}
		}
		raw := append([]string(nil), r.Keys...)
		raw = append(raw,
			formatFloat(r.Clicks),
			formatFloat(r.Impressions),
			formatFloat(r.Ctr),
			formatFloat(r.Position),
		)
		rows = append(rows, raw)
	}

	coerce := map[string]Coercion{
		MetricClicks:      AsInt,
		MetricImpressions: AsInt,
		MetricCTR:         AsPercent(2),
		MetricPosition:    AsFloat(1),
	}
	for k, c := range q.Coerce {
		coerce[k] = c
	}

	tbl, err := rawTable(q.Dimensions, searchMetrics, rows, coerce)
	if err != nil {
		return nil, &QueryError{Source: "search", Report: q.Name, Err: err}
	}

	s.log.Debug().
		Str("report", q.Name).
		Int("rows", tbl.Len()).
		Dur("duration", time.Since(start)).
		Msg("Search Console report fetched")
	return tbl, nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func (s *Search) window() DateWindow {
	return LastDays(s.now(), s.days, s.lag)
}

// SearchQueries returns per-query performance, most impressions first.
func (s *Search) SearchQueries(ctx context.Context, limit int) (*models.Table, error) {
	tbl, err := s.Fetch(ctx, Query{Name: "search_queries", Dimensions: []string{DimQuery}, Window: s.window(), Limit: limit})
	if err != nil {
		return nil, err
	}
	return tbl.SortBy(MetricImpressions, true), nil
}

// PagePerformance returns per-page performance, most clicks first.
func (s *Search) PagePerformance(ctx context.Context, limit int) (*models.Table, error) {
	tbl, err := s.Fetch(ctx, Query{Name: "page_performance", Dimensions: []string{DimPage}, Window: s.window(), Limit: limit})
	if err != nil {
		return nil, err
	}
	return tbl.SortBy(MetricClicks, true), nil
}

// DailyPerformance returns per-day performance, oldest first.
func (s *Search) DailyPerformance(ctx context.Context) (*models.Table, error) {
	tbl, err := s.Fetch(ctx, Query{
		Name:       "daily_performance",
		Dimensions: []string{DimDate},
		Window:     s.window(),
		Limit:      s.days + 1,
		Coerce:     map[string]Coercion{DimDate: AsDate(apiDateLayout)},
	})
	if err != nil {
		return nil, err
	}
	return tbl.SortBy(DimDate, false), nil
}

// QueriesForPage returns the queries leading to one page.
func (s *Search) QueriesForPage(ctx context.Context, pageURL string, limit int) (*models.Table, error) {
	return s.Fetch(ctx, Query{
		Name:       "queries_for_page",
		Dimensions: []string{DimQuery},
		Window:     s.window(),
		Limit:      limit,
		Filters:    []Filter{{Dimension: DimPage, Operator: "equals", Expression: pageURL}},
	})
}

// DevicePerformance returns performance per device type.
func (s *Search) DevicePerformance(ctx context.Context) (*models.Table, error) {
	return s.Fetch(ctx, Query{Name: "device_performance", Dimensions: []string{DimDevice}, Window: s.window(), Limit: 10})
}
