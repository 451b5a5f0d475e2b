package mock

import "github.com/fwojciec/docscout"

var _ docscout.Converter = (*Converter)(nil)

// Converter is a mock implementation of docscout.Converter.
type Converter struct {
	ConvertFn func(html string, pageURL string) (string, error)
}

func (c *Converter) Convert(html string, pageURL string) (string, error) {
	return c.ConvertFn(html, pageURL)
}
