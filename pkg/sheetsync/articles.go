package sheetsync

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/ukaji3/sheetsync/pkg/sheetsync/models"
	"github.com/ukaji3/sheetsync/pkg/sheetsync/sheet"
	"github.com/ukaji3/sheetsync/pkg/sheetsync/source"
)

// Columns of the article listing sheet.
const (
	ColID            = "ID"
	ColNo            = "No"
	ColTitle         = "タイトル"
	ColStatus        = "ステータス"
	ColLink          = "リンク"
	ColDate          = "日付"
	ColCategories    = "カテゴリ"
	ColTags          = "タグ"
	ColInternalLinks = "内"
	ColExternalLinks = "外"
	ColEyecatch      = "アイ"
	ColImages        = "画"
	ColMetaDesc      = "メタディ"
	ColSlug          = "スラッグ"
	ColRecommended   = "推奨リンク"
)

// ArticleColumns is the listing layout.
var ArticleColumns = []string{
	ColID, ColNo, ColTitle, ColStatus, ColLink, ColDate, ColCategories, ColTags,
	ColInternalLinks, ColExternalLinks, ColEyecatch, ColImages, ColMetaDesc, ColSlug, ColRecommended,
}

// ProtectedArticleColumns are edited by hand and survive every sync.
var ProtectedArticleColumns = []string{ColMetaDesc, ColRecommended}

const (
	statusPublished = "公開"
	noTerms         = "(なし)"
)

// ContentSource lists published CMS entries and their taxonomies.
type ContentSource interface {
	FetchAll(ctx context.Context) ([]models.ContentEntry, error)
	Categories(ctx context.Context) (map[int64]string, error)
	Tags(ctx context.Context) (map[int64]string, error)
}

// ArticleSync mirrors the CMS into the article listing sheet.
type ArticleSync struct {
	content ContentSource
	engine  *sheet.Engine
	sheet   string
	log     zerolog.Logger
}

// NewArticleSync creates a sync writing to the named sheet.
func NewArticleSync(content ContentSource, engine *sheet.Engine, sheetName string, logger zerolog.Logger) *ArticleSync {
	return &ArticleSync{content: content, engine: engine, sheet: sheetName, log: logger}
}

// Run fetches every entry and rewrites the listing, keeping the protected
// columns of entries that are still published. It returns the number of
// entries written.
func (a *ArticleSync) Run(ctx context.Context) (int, error) {
	if a.content == nil {
		return 0, ErrNoContentSource
	}
	start := time.Now()

	entries, err := a.content.FetchAll(ctx)
	if err != nil {
		return 0, NewStageError("articles", "fetch", err)
	}
	categories, err := a.content.Categories(ctx)
	if err != nil {
		return 0, NewStageError("categories", "fetch", err)
	}
	tags, err := a.content.Tags(ctx)
	if err != nil {
		return 0, NewStageError("tags", "fetch", err)
	}

	tbl, err := ArticleTable(entries, categories, tags)
	if err != nil {
		return 0, NewStageError("articles", "write", err)
	}
	p := sheet.Preserve{Key: ColID, Columns: ProtectedArticleColumns, OrderBy: ColDate}
	if _, err := a.engine.SyncWithPreservedColumns(ctx, a.sheet, tbl, p); err != nil {
		return 0, NewStageError("articles", "write", err)
	}

	a.log.Info().
		Int("articles", tbl.Len()).
		Dur("duration", time.Since(start)).
		Msg("Article listing synced")
	return tbl.Len(), nil
}

// ArticleTable lays entries out oldest first and numbers them. Protected
// columns are left empty for the sync to fill.
func ArticleTable(entries []models.ContentEntry, categories, tags map[int64]string) (*models.Table, error) {
	sorted := append([]models.ContentEntry(nil), entries...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Published.Before(sorted[j].Published)
	})

	tbl := models.NewTable(ArticleColumns...)
	for i, e := range sorted {
		eyecatch := "無"
		if e.FeaturedMedia != 0 {
			eyecatch = "有"
		}
		row := models.Row{
			ColID:            models.Int(e.ID),
			ColNo:            models.Int(int64(i + 1)),
			ColTitle:         models.String(e.Title),
			ColStatus:        models.String(statusPublished),
			ColLink:          models.String(e.Link),
			ColDate:          models.Time(e.Published),
			ColCategories:    models.String(joinTerms(e.CategoryIDs, categories)),
			ColTags:          models.String(joinTerms(e.TagIDs, tags)),
			ColInternalLinks: models.Int(int64(e.InternalLinks)),
			ColExternalLinks: models.Int(int64(e.ExternalLinks)),
			ColEyecatch:      models.String(eyecatch),
			ColImages:        models.Int(int64(e.Images)),
			ColMetaDesc:      models.Empty(),
			ColSlug:          models.String(e.Slug),
			ColRecommended:   models.Empty(),
		}
		if err := tbl.Append(row); err != nil {
			return nil, err
		}
	}
	return tbl, nil
}

func joinTerms(ids []int64, names map[int64]string) string {
	resolved := source.ResolveNames(ids, names)
	if len(resolved) == 0 {
		return noTerms
	}
	return strings.Join(resolved, ", ")
}
