package sheetsync

import (
	"fmt"
	"time"

	"github.com/ukaji3/sheetsync/pkg/sheetsync/models"
	"github.com/ukaji3/sheetsync/pkg/sheetsync/source"
)

// Number of articles listed in the summary and the title length kept.
const (
	TopArticles    = 5
	TopTitleLength = 50
)

// TopArticle is a summary line for a most viewed article.
type TopArticle struct {
	Title     string
	PageViews int64
}

// Summary is the headline numbers of the dashboard.
type Summary struct {
	TotalPageViews     int64
	TotalSessions      int64
	TotalUsers         int64
	AvgSessionDuration float64
	TotalClicks        int64
	TotalImpressions   int64
	AvgCTR             float64
	AvgPosition        float64
	TopArticles        []TopArticle
	UpdatedAt          time.Time
}

// BuildSummary aggregates the daily, article and query reports. Empty
// reports contribute zeros.
func BuildSummary(daily, articles, queries *models.Table, now time.Time) Summary {
	s := Summary{
		TotalPageViews:     int64(daily.Sum(source.MetricPageViews)),
		TotalSessions:      int64(daily.Sum(source.MetricSessions)),
		TotalUsers:         int64(daily.Sum(source.MetricActiveUsers)),
		AvgSessionDuration: source.Round(daily.Mean(source.MetricSessionDuration), 1),
		TotalClicks:        int64(queries.Sum(source.MetricClicks)),
		TotalImpressions:   int64(queries.Sum(source.MetricImpressions)),
		AvgCTR:             source.Round(queries.Mean(source.MetricCTR), 2),
		AvgPosition:        source.Round(queries.Mean(source.MetricPosition), 1),
		UpdatedAt:          now,
	}
	for _, r := range articles.Head(TopArticles).Rows {
		s.TopArticles = append(s.TopArticles, TopArticle{
			Title:     truncate(r[source.DimPageTitle].Str(), TopTitleLength),
			PageViews: r[source.MetricPageViews].Int(),
		})
	}
	return s
}

// Layout renders the summary sheet.
func (s Summary) Layout(title string, days int) [][]models.Value {
	str := models.String
	blank := []models.Value{}
	rows := [][]models.Value{
		{str(title)},
		blank,
		{str("最終更新"), models.Time(s.UpdatedAt)},
		blank,
		{str(fmt.Sprintf("=== 過去%d日間のサマリー ===", days))},
		blank,
		{str("総PV数"), models.Int(s.TotalPageViews)},
		{str("総セッション数"), models.Int(s.TotalSessions)},
		{str("ユニークユーザー数"), models.Int(s.TotalUsers)},
		{str("平均セッション時間(秒)"), models.Float(s.AvgSessionDuration)},
		blank,
		{str("=== 検索パフォーマンス ===")},
		blank,
		{str("総クリック数"), models.Int(s.TotalClicks)},
		{str("総表示回数"), models.Int(s.TotalImpressions)},
		{str("平均CTR(%)"), models.Float(s.AvgCTR)},
		{str("平均検索順位"), models.Float(s.AvgPosition)},
		blank,
		{str("=== トップ記事 ===")},
		blank,
	}
	for i, a := range s.TopArticles {
		rows = append(rows, []models.Value{
			str(fmt.Sprintf("%d. %s", i+1, a.Title)),
			str(fmt.Sprintf("%d PV", a.PageViews)),
		})
	}
	return rows
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
