package models

import "time"

// ContentEntry is a published CMS entry with its derived link counts.
type ContentEntry struct {
	// ID is the CMS entry id. It is the stable row key of the article sheet.
	ID int64 `json:"id"`
	// Title is the rendered title with HTML entities decoded.
	Title string `json:"title"`
	// Published is the publish time in the site's local zone.
	Published time.Time `json:"published"`
	// Link is the canonical URL.
	Link string `json:"link"`
	// Slug is the URL slug.
	Slug string `json:"slug"`
	// CategoryIDs lists taxonomy ids assigned to the entry.
	CategoryIDs []int64 `json:"category_ids,omitempty"`
	// TagIDs lists tag ids assigned to the entry.
	TagIDs []int64 `json:"tag_ids,omitempty"`
	// FeaturedMedia is the eyecatch media id, 0 when none is set.
	FeaturedMedia int64 `json:"featured_media,omitempty"`
	// Body is the rendered HTML body.
	Body string `json:"-"`
	// InternalLinks counts anchors pointing at the site's own domain.
	InternalLinks int `json:"internal_links"`
	// ExternalLinks counts anchors pointing at any other http(s) URL.
	ExternalLinks int `json:"external_links"`
	// Images counts img tags in the body.
	Images int `json:"images"`
}
