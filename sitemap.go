package docscout

import "context"

// SitemapService discovers URLs from website sitemaps.
type SitemapService interface {
	// DiscoverURLs finds the URLs listed in a site's sitemap. It checks
	// robots.txt for Sitemap directives, then falls back to /sitemap.xml.
	// Sitemap indexes are resolved recursively. When baseURL has a path,
	// only URLs under that path are returned.
	//
	// A nil filter returns every URL.
	DiscoverURLs(ctx context.Context, baseURL string, filter *URLFilter) ([]string, error)
}

// Matcher reports whether a string matches a pattern. Compiled globs and
// regular expression adapters satisfy it.
type Matcher interface {
	Match(s string) bool
}

// URLFilter includes and excludes URLs by matching their path.
type URLFilter struct {
	// Include patterns. When set, the path must match at least one.
	Include []Matcher

	// Exclude patterns. A path matching any of them is dropped.
	// Exclude is applied after Include.
	Exclude []Matcher

	// Path extracts the string the patterns are matched against.
	// Defaults to the URL path without its leading slash.
	Path func(rawURL string) string
}

// Match returns true if the URL passes the filter.
// A nil filter matches everything.
func (f *URLFilter) Match(rawURL string) bool {
	if f == nil {
		return true
	}

	path := f.Path
	if path == nil {
		path = RelativePath
	}
	p := path(rawURL)

	if len(f.Include) > 0 {
		matched := false
		for _, m := range f.Include {
			if m.Match(p) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}

	for _, m := range f.Exclude {
		if m.Match(p) {
			return false
		}
	}

	return true
}
