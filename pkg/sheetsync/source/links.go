package source

import (
	"regexp"
	"strings"
)

var (
	anyLinkPattern = regexp.MustCompile(`href="https?://[^"]*"`)
	imagePattern   = regexp.MustCompile(`<img[^>]*>`)
)

// LinkCounter classifies the anchors and images of an HTML body.
type LinkCounter struct {
	internal *regexp.Regexp
}

// NewLinkCounter creates a counter treating host as the site's own domain.
func NewLinkCounter(host string) *LinkCounter {
	host = strings.ToLower(strings.TrimSpace(host))
	return &LinkCounter{
		internal: regexp.MustCompile(`href="https?://` + regexp.QuoteMeta(host) + `(?:[/?#:][^"]*)?"`),
	}
}

// Count returns the number of internal anchors, external http(s) anchors
// and img tags in body.
func (lc *LinkCounter) Count(body string) (internal, external, images int) {
	internal = len(lc.internal.FindAllString(body, -1))
	external = len(anyLinkPattern.FindAllString(body, -1)) - internal
	images = len(imagePattern.FindAllString(body, -1))
	return internal, external, images
}
