// Package readability extracts the main content of documentation pages
// with go-readability.
package readability

import (
	"net/url"
	"strings"

	"github.com/fwojciec/docscout"
	"github.com/go-shiori/go-readability"
)

// MinTextLength is the shortest article text accepted from readability.
// Shorter results mean the algorithm missed the content, so the whole
// body is returned instead.
const MinTextLength = 50

// Ensure Extractor implements docscout.Extractor at compile time.
var _ docscout.Extractor = (*Extractor)(nil)

// Extractor wraps go-readability.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract returns the title and main content HTML of rawHTML. Relative
// URLs in the content are resolved against pageURL when it is set.
func (e *Extractor) Extract(rawHTML string, pageURL string) (*docscout.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, docscout.Errorf(docscout.EINVALID, "empty HTML input")
	}

	var base *url.URL
	if u, err := url.Parse(pageURL); err == nil && u.Host != "" {
		base = u
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), base)
	if err != nil {
		return nil, err
	}

	if len(strings.TrimSpace(article.TextContent)) < MinTextLength {
		return &docscout.ExtractResult{
			Title:       strings.TrimSpace(article.Title),
			ContentHTML: rawHTML,
		}, nil
	}

	return &docscout.ExtractResult{
		Title:       strings.TrimSpace(article.Title),
		ContentHTML: article.Content,
	}, nil
}
