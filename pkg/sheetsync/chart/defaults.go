package chart

import "github.com/ukaji3/sheetsync/pkg/sheetsync/models"

// DashboardSheets names the sheets the default charts are drawn on.
type DashboardSheets struct {
	DailyPV       string
	Articles      string
	SearchQueries string
	Trends        string
}

// Defaults returns the dashboard charts: page views and sessions per day,
// the twenty most viewed articles, the twenty most shown search queries,
// and clicks and impressions per day.
func Defaults(s DashboardSheets) []models.ChartDescriptor {
	return []models.ChartDescriptor{
		{
			Kind:          models.ChartLine,
			Title:         "📈 日別PV推移（全期間）",
			Sheet:         s.DailyPV,
			DomainColumn:  0,
			SeriesColumns: []int{1, 2},
			DataRows:      129,
			AnchorRow:     1,
			AnchorColumn:  6,
			Width:         600,
			Height:        400,
			DomainTitle:   "日付",
			ValueTitle:    "数値",
		},
		{
			Kind:          models.ChartBar,
			Title:         "📊 記事別PV数 TOP20",
			Sheet:         s.Articles,
			DomainColumn:  1,
			SeriesColumns: []int{2},
			DataRows:      20,
			AnchorRow:     1,
			AnchorColumn:  6,
			Width:         600,
			Height:        500,
		},
		{
			Kind:          models.ChartBar,
			Title:         "🔍 検索クエリ TOP20",
			Sheet:         s.SearchQueries,
			DomainColumn:  0,
			SeriesColumns: []int{2},
			DataRows:      20,
			AnchorRow:     1,
			AnchorColumn:  6,
			Width:         600,
			Height:        500,
		},
		{
			Kind:          models.ChartLine,
			Title:         "📉 検索パフォーマンス推移（全期間）",
			Sheet:         s.Trends,
			DomainColumn:  0,
			SeriesColumns: []int{5, 6},
			DataRows:      129,
			AnchorRow:     1,
			AnchorColumn:  10,
			Width:         600,
			Height:        400,
			DomainTitle:   "日付",
			ValueTitle:    "数値",
		},
	}
}
