package source

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	"github.com/rs/zerolog"
)

// pagedServer serves a /posts collection of total pages, one post per
// page, and records the requested page numbers.
type pagedServer struct {
	mu        sync.Mutex
	requested []int
	total     string
	emptyFrom int
}

func (s *pagedServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	s.mu.Lock()
	s.requested = append(s.requested, page)
	s.mu.Unlock()

	if r.URL.Query().Get("per_page") != "100" {
		http.Error(w, "bad per_page", http.StatusBadRequest)
		return
	}
	if s.total != "" {
		w.Header().Set(TotalPagesHeader, s.total)
	}
	if s.emptyFrom > 0 && page >= s.emptyFrom {
		fmt.Fprint(w, `[]`)
		return
	}
	fmt.Fprintf(w, `[{"id":%d,"date":"2024-01-0%dT09:30:00","link":"https://example.com/p%d/","slug":"p%d",`+
		`"title":{"rendered":"Tips &amp; Tricks %d"},`+
		`"content":{"rendered":"<a href=\"https://example.com/x/\">x</a><a href=\"https://go.dev/\">g</a><img src=\"a.png\">"},`+
		`"categories":[1,99],"tags":[5],"featured_media":%d}]`, page, page, page, page, page, page%2)
}

func newTestCMS(t *testing.T, h http.Handler) *CMS {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := NewCMS(srv.URL, "https://example.com", srv.Client(), zerolog.Nop())
	if err != nil {
		t.Fatalf("NewCMS failed: %v", err)
	}
	return c
}

func TestFetchAllStopsAtTotalPages(t *testing.T) {
	s := &pagedServer{total: "3"}
	mux := http.NewServeMux()
	mux.Handle("/posts", s)
	c := newTestCMS(t, mux)

	entries, err := c.FetchAll(context.Background())
	if err != nil {
		t.Fatalf("FetchAll failed: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("Expected 3 entries, got %d", len(entries))
	}
	if len(s.requested) != 3 {
		t.Errorf("Expected 3 requests, got pages %v", s.requested)
	}
	for _, p := range s.requested {
		if p > 3 {
			t.Errorf("Requested page %d beyond the reported total", p)
		}
	}

	e := entries[0]
	if e.Title != "Tips & Tricks 1" {
		t.Errorf("Expected unescaped title, got %q", e.Title)
	}
	if e.Published.Format("2006-01-02 15:04:05") != "2024-01-01 09:30:00" {
		t.Errorf("Unexpected publish time %v", e.Published)
	}
	if e.InternalLinks != 1 || e.ExternalLinks != 1 || e.Images != 1 {
		t.Errorf("Unexpected counts %d/%d/%d", e.InternalLinks, e.ExternalLinks, e.Images)
	}
	if e.FeaturedMedia != 1 || entries[1].FeaturedMedia != 0 {
		t.Errorf("Unexpected featured media %d, %d", e.FeaturedMedia, entries[1].FeaturedMedia)
	}
}

func TestFetchAllStopsOnEmptyPage(t *testing.T) {
	s := &pagedServer{total: "5", emptyFrom: 2}
	mux := http.NewServeMux()
	mux.Handle("/posts", s)
	c := newTestCMS(t, mux)

	entries, err := c.FetchAll(context.Background())
	if err != nil {
		t.Fatalf("FetchAll failed: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("Expected 1 entry, got %d", len(entries))
	}
	if len(s.requested) != 2 {
		t.Errorf("Expected 2 requests, got pages %v", s.requested)
	}
}

func TestFetchAllMissingHeaderMeansOnePage(t *testing.T) {
	s := &pagedServer{}
	mux := http.NewServeMux()
	mux.Handle("/posts", s)
	c := newTestCMS(t, mux)

	if _, err := c.FetchAll(context.Background()); err != nil {
		t.Fatalf("FetchAll failed: %v", err)
	}
	if len(s.requested) != 1 {
		t.Errorf("Expected a single request, got pages %v", s.requested)
	}
}

func TestFetchAllReturnsHTTPError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/posts", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	c := newTestCMS(t, mux)

	_, err := c.FetchAll(context.Background())
	var httpErr *HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("Expected *HTTPError, got %v", err)
	}
	if httpErr.StatusCode != http.StatusInternalServerError {
		t.Errorf("Expected status 500, got %d", httpErr.StatusCode)
	}
}

func TestCategoriesAndResolveNames(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/categories", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(TotalPagesHeader, "2")
		switch r.URL.Query().Get("page") {
		case "1":
			fmt.Fprint(w, `[{"id":1,"name":"Go &amp; Rust"}]`)
		case "2":
			fmt.Fprint(w, `[{"id":2,"name":"Cloud"}]`)
		default:
			t.Errorf("Unexpected page %q", r.URL.Query().Get("page"))
		}
	})
	c := newTestCMS(t, mux)

	names, err := c.Categories(context.Background())
	if err != nil {
		t.Fatalf("Categories failed: %v", err)
	}
	if len(names) != 2 || names[1] != "Go & Rust" {
		t.Errorf("Unexpected categories %v", names)
	}

	got := ResolveNames([]int64{2, 99, 1}, names)
	if len(got) != 2 || got[0] != "Cloud" || got[1] != "Go & Rust" {
		t.Errorf("ResolveNames = %v, expected [Cloud Go & Rust]", got)
	}
}

func TestNewCMSRejectsBadSiteURL(t *testing.T) {
	if _, err := NewCMS("https://example.com/wp-json/wp/v2", "not a url", nil, zerolog.Nop()); err == nil {
		t.Error("Expected an error for a site URL without host")
	}
}
