// Package htmltomarkdown converts extracted page content to Markdown with
// html-to-markdown.
package htmltomarkdown

import (
	"net/url"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/fwojciec/docscout"
)

// Ensure Converter implements docscout.Converter at compile time.
var _ docscout.Converter = (*Converter)(nil)

// Converter wraps html-to-markdown. It is safe for concurrent use.
type Converter struct {
	conv *converter.Converter
}

// NewConverter creates a Converter with the commonmark and table plugins.
// Table cells use minimal padding to keep crawl output compact.
func NewConverter() *Converter {
	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
			table.NewTablePlugin(
				table.WithCellPaddingBehavior(table.CellPaddingBehaviorMinimal),
			),
		),
	)
	return &Converter{conv: conv}
}

// Convert transforms HTML content into Markdown. Relative link and image
// targets are made absolute against the scheme and host of pageURL.
func (c *Converter) Convert(html string, pageURL string) (string, error) {
	if strings.TrimSpace(html) == "" {
		return "", docscout.Errorf(docscout.EINVALID, "empty HTML input")
	}

	var (
		md  string
		err error
	)
	if domain := domainOf(pageURL); domain != "" {
		md, err = c.conv.ConvertString(html, converter.WithDomain(domain))
	} else {
		md, err = c.conv.ConvertString(html)
	}
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(md), nil
}

func domainOf(pageURL string) string {
	u, err := url.Parse(pageURL)
	if err != nil || u.Host == "" {
		return ""
	}
	return u.Scheme + "://" + u.Host
}
