package mock

import "github.com/fwojciec/docscout"

var _ docscout.LinkSelector = (*LinkSelector)(nil)

// LinkSelector is a mock implementation of docscout.LinkSelector.
type LinkSelector struct {
	ExtractLinksFn func(html string, baseURL string) ([]docscout.DiscoveredLink, error)
}

func (s *LinkSelector) ExtractLinks(html string, baseURL string) ([]docscout.DiscoveredLink, error) {
	return s.ExtractLinksFn(html, baseURL)
}
