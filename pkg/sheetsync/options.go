// Package sheetsync refreshes an analytics dashboard spreadsheet from the
// reporting and CMS APIs.
package sheetsync

// Mode represents the dashboard refresh mode.
type Mode string

const (
	// ModeQuick fetches what the summary needs and writes the summary only.
	ModeQuick Mode = "quick"
	// ModeFull writes the summary and every report sheet.
	ModeFull Mode = "full"
)

// SheetNames maps each dashboard report to its sheet name.
type SheetNames struct {
	Summary            string `yaml:"summary"`
	DailyPV            string `yaml:"daily_pv"`
	ArticlePerformance string `yaml:"article_performance"`
	SearchQueries      string `yaml:"search_queries"`
	Trends             string `yaml:"trends"`
	TimeAnalysis       string `yaml:"time_analysis"`
	TrafficSources     string `yaml:"traffic_sources"`
	SearchPages        string `yaml:"search_pages"`
	Devices            string `yaml:"devices"`
	Articles           string `yaml:"articles"`
}

// DefaultSheetNames returns the standard sheet names.
func DefaultSheetNames() SheetNames {
	return SheetNames{
		Summary:            "サマリー",
		DailyPV:            "日別PV",
		ArticlePerformance: "記事別パフォーマンス",
		SearchQueries:      "検索クエリ",
		Trends:             "トレンド分析",
		TimeAnalysis:       "時間帯分析",
		TrafficSources:     "流入元",
		SearchPages:        "検索ページ別",
		Devices:            "デバイス別",
		Articles:           "記事一覧",
	}
}

// Options configures a dashboard refresh.
type Options struct {
	// Mode specifies the refresh mode (quick, full).
	Mode Mode
	// Title heads the summary sheet.
	Title string
	// Days is the reporting window length shown in the summary.
	Days int
	// RowLimit bounds the per-article, per-query and per-page reports.
	RowLimit int
	// Sheets names the destination sheets.
	Sheets SheetNames
	// IncludeBreakdowns specifies whether to write the traffic source,
	// search page, device and hourly sheets.
	// If nil, defaults to true for full mode, false otherwise.
	IncludeBreakdowns *bool
}

// DefaultOptions returns default refresh options.
func DefaultOptions() Options {
	return Options{
		Mode:     ModeFull,
		Title:    "ダッシュボード",
		Days:     120,
		RowLimit: 100,
		Sheets:   DefaultSheetNames(),
	}
}

// ShouldIncludeBreakdowns returns whether to write the breakdown sheets.
func (o Options) ShouldIncludeBreakdowns() bool {
	if o.Mode == ModeQuick {
		return false
	}
	if o.IncludeBreakdowns != nil {
		return *o.IncludeBreakdowns
	}
	return true
}
