package mock

import "github.com/fwojciec/docscout"

var _ docscout.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of docscout.Extractor.
type Extractor struct {
	ExtractFn func(html string, pageURL string) (*docscout.ExtractResult, error)
}

func (e *Extractor) Extract(html string, pageURL string) (*docscout.ExtractResult, error) {
	return e.ExtractFn(html, pageURL)
}
