package docscout

import (
	"context"
	"net/url"
	"strings"
)

// CrawlOptions bounds a multi-page crawl.
type CrawlOptions struct {
	// PageLimit caps the number of pages returned.
	PageLimit int `json:"limit"`

	// MaxDepth caps the number of link hops from the root URL.
	MaxDepth int `json:"maxDepth"`

	// IncludePaths restricts the crawl to paths matching at least one glob.
	IncludePaths []string `json:"includePaths,omitempty"`

	// ExcludePaths drops paths matching any glob.
	ExcludePaths []string `json:"excludePaths,omitempty"`

	// Formats lists the requested output formats, e.g. "markdown".
	Formats []string `json:"formats"`

	// MainContentOnly asks the backend to strip boilerplate.
	MainContentOnly bool `json:"onlyMainContent"`
}

// CrawledPage is one page returned by a crawl backend.
type CrawledPage struct {
	URL     string `json:"url"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

// CrawlBackend performs a multi-page crawl rooted at a URL.
type CrawlBackend interface {
	// Crawl returns the pages reachable from url within opts. An
	// unreachable backend fails with EUNAVAILABLE; any other failure,
	// including an empty result, fails with ECRAWL.
	Crawl(ctx context.Context, url string, opts CrawlOptions) ([]*CrawledPage, error)
}

// DomainLimiter provides per-domain rate limiting.
type DomainLimiter interface {
	// Wait blocks until a request to domain is allowed.
	// Returns an error if the context is canceled.
	Wait(ctx context.Context, domain string) error
}

// RelativePath returns the path of rawURL without its leading slash, the
// form crawl include/exclude globs are matched against. Unparseable URLs
// return an empty string.
func RelativePath(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(u.Path, "/")
}
