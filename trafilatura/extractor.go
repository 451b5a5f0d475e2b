// Package trafilatura extracts the main content of documentation pages
// with go-trafilatura.
package trafilatura

import (
	"bytes"
	"net/url"
	"strings"

	"github.com/fwojciec/docscout"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"
)

// Ensure Extractor implements docscout.Extractor at compile time.
var _ docscout.Extractor = (*Extractor)(nil)

// Extractor wraps go-trafilatura. Links and tables are kept because
// documentation pages carry endpoint references in both.
type Extractor struct {
	// Fallback enables the readability and dom-distiller fallbacks when
	// trafilatura's own heuristics find too little text.
	Fallback bool
}

// NewExtractor creates an Extractor with fallbacks enabled.
func NewExtractor() *Extractor {
	return &Extractor{Fallback: true}
}

// Extract returns the title and main content HTML of rawHTML.
func (e *Extractor) Extract(rawHTML string, pageURL string) (*docscout.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, docscout.Errorf(docscout.EINVALID, "empty HTML input")
	}

	opts := trafilatura.Options{
		EnableFallback: e.Fallback,
		IncludeLinks:   true,
	}
	if u, err := url.Parse(pageURL); err == nil && u.Host != "" {
		opts.OriginalURL = u
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), opts)
	if err != nil {
		return nil, err
	}

	var contentHTML string
	if result.ContentNode != nil {
		var buf bytes.Buffer
		if err := html.Render(&buf, result.ContentNode); err != nil {
			return nil, err
		}
		contentHTML = buf.String()
	}

	return &docscout.ExtractResult{
		Title:       strings.TrimSpace(result.Metadata.Title),
		ContentHTML: contentHTML,
	}, nil
}
