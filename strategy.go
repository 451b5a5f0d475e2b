package docscout

import (
	"net/url"
	"strings"
)

// Crawl defaults for documentation roots.
const (
	DefaultCrawlPageLimit = 30
	DefaultCrawlMaxDepth  = 3
)

var documentationIndicators = []string{
	"docs.",
	"/docs/",
	"/documentation/",
	"/api/",
	"/reference/",
	"/guide/",
	"/tutorial/",
	"developer.",
	"/dev/",
	"/sdk/",
	"readme",
	"/help/",
	"/support/",
	"gitbook.io",
	"notion.so",
	"readme.io",
}

var defaultExcludePaths = []string{
	"blog/*",
	"changelog/*",
	"news/*",
	"legal/*",
	"about/*",
	"contact/*",
	"*/download/*",
	"*/downloads/*",
	"*/.git/*",
	"*/node_modules/*",
}

// IsDocumentationURL reports whether rawURL looks like the root of a
// documentation site and is therefore worth a deep crawl.
func IsDocumentationURL(rawURL string) bool {
	lower := strings.ToLower(rawURL)
	for _, indicator := range documentationIndicators {
		if strings.Contains(lower, indicator) {
			return true
		}
	}
	return false
}

// CrawlOptionsFor returns the crawl bounds used for a documentation URL.
// Include globs follow the section the URL points into; blog, legal and
// download areas are always excluded.
func CrawlOptionsFor(rawURL string) CrawlOptions {
	opts := CrawlOptions{
		PageLimit:       DefaultCrawlPageLimit,
		MaxDepth:        DefaultCrawlMaxDepth,
		ExcludePaths:    append([]string(nil), defaultExcludePaths...),
		Formats:         []string{"markdown"},
		MainContentOnly: true,
	}

	path := rawURL
	if u, err := url.Parse(rawURL); err == nil {
		path = u.Path
	}
	path = strings.ToLower(path)

	switch {
	case strings.Contains(path, "/docs/"):
		opts.IncludePaths = []string{"/docs/*"}
	case strings.Contains(path, "/api/"):
		opts.IncludePaths = []string{"/api/*", "/docs/*"}
	case strings.Contains(path, "/reference/"):
		opts.IncludePaths = []string{"/reference/*", "/docs/*"}
	}

	return opts
}

// ParseURL parses rawURL and requires an absolute http or https URL with a
// host. Any other input fails with EINVALID.
func ParseURL(rawURL string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return nil, Errorf(EINVALID, "invalid URL %q", rawURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, Errorf(EINVALID, "invalid URL %q: scheme must be http or https", rawURL)
	}
	if u.Host == "" {
		return nil, Errorf(EINVALID, "invalid URL %q: missing host", rawURL)
	}
	return u, nil
}
