package source

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/ukaji3/sheetsync/pkg/sheetsync/models"
)

// TotalPagesHeader carries the page count of a WordPress collection.
const TotalPagesHeader = "X-WP-TotalPages"

// DefaultPerPage is the largest page size the WordPress REST API allows.
const DefaultPerPage = 100

// wpDateLayout is the layout of a post's local "date" field.
const wpDateLayout = "2006-01-02T15:04:05"

type wpRendered struct {
	Rendered string `json:"rendered"`
}

type wpPost struct {
	ID            int64      `json:"id"`
	Date          string     `json:"date"`
	Link          string     `json:"link"`
	Slug          string     `json:"slug"`
	Title         wpRendered `json:"title"`
	Content       wpRendered `json:"content"`
	Categories    []int64    `json:"categories"`
	Tags          []int64    `json:"tags"`
	FeaturedMedia int64      `json:"featured_media"`
}

type wpTerm struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// CMS is the ContentSource backed by the WordPress REST API.
type CMS struct {
	baseURL string
	client  *http.Client
	perPage int
	links   *LinkCounter
	log     zerolog.Logger
}

// NewCMS creates a content source. baseURL is the REST root
// (https://example.com/wp-json/wp/v2); siteURL is the canonical site URL
// whose host counts as internal for link classification.
func NewCMS(baseURL, siteURL string, client *http.Client, logger zerolog.Logger) (*CMS, error) {
	u, err := url.Parse(siteURL)
	if err != nil || u.Host == "" {
		return nil, fmt.Errorf("invalid site URL %q", siteURL)
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &CMS{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
		perPage: DefaultPerPage,
		links:   NewLinkCounter(u.Host),
		log:     logger.With().Str("source", "cms").Logger(),
	}, nil
}

// FetchAll returns every published entry with link and image counts.
func (c *CMS) FetchAll(ctx context.Context) ([]models.ContentEntry, error) {
	params := url.Values{}
	params.Set("status", "publish")
	params.Set("_fields", "id,title,date,link,slug,content,categories,tags,featured_media")

	posts, err := fetchPaged[wpPost](ctx, c, "/posts", params)
	if err != nil {
		return nil, err
	}

	entries := make([]models.ContentEntry, 0, len(posts))
	for _, p := range posts {
		published, err := time.ParseInLocation(wpDateLayout, p.Date, time.UTC)
		if err != nil {
			return nil, fmt.Errorf("post %d: parse date %q: %w", p.ID, p.Date, err)
		}
		internal, external, images := c.links.Count(p.Content.Rendered)
		entries = append(entries, models.ContentEntry{
			ID:            p.ID,
			Title:         html.UnescapeString(p.Title.Rendered),
			Published:     published,
			Link:          p.Link,
			Slug:          p.Slug,
			CategoryIDs:   p.Categories,
			TagIDs:        p.Tags,
			FeaturedMedia: p.FeaturedMedia,
			Body:          p.Content.Rendered,
			InternalLinks: internal,
			ExternalLinks: external,
			Images:        images,
		})
	}

	c.log.Info().Int("entries", len(entries)).Msg("Content entries fetched")
	return entries, nil
}

// Categories returns the category id to name mapping.
func (c *CMS) Categories(ctx context.Context) (map[int64]string, error) {
	return c.terms(ctx, "/categories")
}

// Tags returns the tag id to name mapping.
func (c *CMS) Tags(ctx context.Context) (map[int64]string, error) {
	return c.terms(ctx, "/tags")
}

func (c *CMS) terms(ctx context.Context, path string) (map[int64]string, error) {
	params := url.Values{}
	params.Set("_fields", "id,name")
	terms, err := fetchPaged[wpTerm](ctx, c, path, params)
	if err != nil {
		return nil, err
	}
	names := make(map[int64]string, len(terms))
	for _, t := range terms {
		names[t.ID] = html.UnescapeString(t.Name)
	}
	return names, nil
}

// ResolveNames maps ids to names, silently dropping unknown ids.
func ResolveNames(ids []int64, names map[int64]string) []string {
	var out []string
	for _, id := range ids {
		if n, ok := names[id]; ok {
			out = append(out, n)
		}
	}
	return out
}

// fetchPaged walks a collection one page at a time. It stops on an empty
// page or once the next page index exceeds the total page count reported
// in the response header, so it never requests a page past that total.
func fetchPaged[T any](ctx context.Context, c *CMS, path string, params url.Values) ([]T, error) {
	var all []T
	page := 1
	for {
		items, total, err := getPage[T](ctx, c, path, params, page)
		if err != nil {
			return nil, err
		}
		if len(items) == 0 {
			break
		}
		all = append(all, items...)
		page++
		if page > total {
			break
		}
	}
	return all, nil
}

func getPage[T any](ctx context.Context, c *CMS, path string, params url.Values, page int) ([]T, int, error) {
	q := url.Values{}
	for k, v := range params {
		q[k] = v
	}
	q.Set("per_page", strconv.Itoa(c.perPage))
	q.Set("page", strconv.Itoa(page))
	target := c.baseURL + path + "?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to GET %s: %w", target, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, 0, &HTTPError{URL: target, StatusCode: resp.StatusCode, Body: string(body)}
	}

	var items []T
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		return nil, 0, fmt.Errorf("failed to decode %s: %w", target, err)
	}

	c.log.Debug().
		Str("path", path).
		Int("page", page).
		Int("items", len(items)).
		Msg("CMS page fetched")
	return items, totalPages(resp.Header), nil
}

func totalPages(h http.Header) int {
	n, err := strconv.Atoi(strings.TrimSpace(h.Get(TotalPagesHeader)))
	if err != nil || n < 1 {
		return 1
	}
	return n
}
