package docscout

import (
	"net/url"
	"strings"
)

// AcquisitionMethod tags how a page's content was obtained.
type AcquisitionMethod string

// Acquisition methods, in tier order.
const (
	DeepCrawl   AcquisitionMethod = "deep_crawl"
	SingleFetch AcquisitionMethod = "single_fetch"
	RawFallback AcquisitionMethod = "raw_fallback"
)

// Page is the acquired content of one requested URL.
// A Page is never mutated after creation; use WithContent to derive a
// filtered copy.
type Page struct {
	URL          string            `json:"url"`
	FinalURL     string            `json:"finalUrl,omitempty"`
	Title        string            `json:"title"`
	Content      string            `json:"content"`
	APIEndpoints []string          `json:"apiEndpoints"`
	CodeExamples []string          `json:"codeExamples"`
	WordCount    int               `json:"wordCount"`
	AcquiredVia  AcquisitionMethod `json:"acquiredVia"`

	// PageCount is the number of crawled pages merged into Content.
	// Zero when the page was not produced by a crawl.
	PageCount int `json:"pageCount,omitempty"`
}

// WithContent returns a copy of p with Content replaced and WordCount
// recomputed. Slices are shared with p.
func (p *Page) WithContent(content string) *Page {
	other := *p
	other.Content = content
	other.WordCount = CountWords(content)
	return &other
}

// Host returns the host name of the page URL, or the raw URL when it
// cannot be parsed.
func (p *Page) Host() string {
	return hostOf(p.URL)
}

// CountWords returns the number of whitespace-separated words in s.
func CountWords(s string) int {
	return len(strings.Fields(s))
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Hostname() == "" {
		return rawURL
	}
	return u.Hostname()
}
