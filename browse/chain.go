package browse

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/fwojciec/docscout"
)

// degradable lists the failure codes after which the next tier is tried.
var degradable = []string{docscout.ESKIPPED, docscout.ECRAWL, docscout.EUNAVAILABLE}

// Tier is one acquisition step of a Chain.
type Tier struct {
	// Method tags pages produced by this tier.
	Method docscout.AcquisitionMethod

	Strategy docscout.Acquirer

	// After restricts the tier to follow failures with one of these codes.
	// An empty After makes the tier eligible after any degradable failure.
	After []string
}

var _ docscout.Acquirer = (*Chain)(nil)

// Chain tries its tiers in order. A degradable failure moves on to the next
// eligible tier; any other failure is returned immediately.
type Chain struct {
	Tiers  []Tier
	Logger *slog.Logger
}

// NewChain returns the standard three-tier chain: a deep crawl through
// backend, a single fetch when the crawl failed, and a raw fetch when no
// crawl was attempted or the backend could not be reached.
func NewChain(backend docscout.CrawlBackend, fetcher docscout.Fetcher, logger *slog.Logger) *Chain {
	return &Chain{
		Tiers: []Tier{
			{
				Method:   docscout.DeepCrawl,
				Strategy: &CrawlStrategy{Backend: backend, Logger: logger},
			},
			{
				Method:   docscout.SingleFetch,
				Strategy: &FetchStrategy{Fetcher: fetcher, Method: docscout.SingleFetch},
				After:    []string{docscout.ECRAWL},
			},
			{
				Method:   docscout.RawFallback,
				Strategy: &FetchStrategy{Fetcher: fetcher, Method: docscout.RawFallback},
				After:    []string{docscout.ESKIPPED, docscout.EUNAVAILABLE},
			},
		},
		Logger: logger,
	}
}

// Acquire returns the page from the first tier that succeeds.
func (c *Chain) Acquire(ctx context.Context, url string) (*docscout.Page, error) {
	log := logger(c.Logger).With("url", url)

	var last error
	for _, tier := range c.Tiers {
		if last != nil && len(tier.After) > 0 && !slices.Contains(tier.After, docscout.ErrorCode(last)) {
			continue
		}

		page, err := tier.Strategy.Acquire(ctx, url)
		if err == nil {
			p := *page
			p.AcquiredVia = tier.Method
			return &p, nil
		}

		code := docscout.ErrorCode(err)
		if !slices.Contains(degradable, code) {
			return nil, err
		}
		log.Debug("tier not applicable", "method", tier.Method, "code", code, "err", err)
		last = err
	}

	if last == nil {
		return nil, docscout.Errorf(docscout.EINTERNAL, "no acquisition tiers configured")
	}
	return nil, last
}

// CrawlStrategy acquires documentation roots through a CrawlBackend and
// merges the crawled pages into one Page.
type CrawlStrategy struct {
	// Backend performs the crawl. A nil Backend skips the tier.
	Backend docscout.CrawlBackend
	Logger  *slog.Logger
}

// Acquire crawls url. URLs that do not look like documentation fail with
// ESKIPPED. Backend failures other than EUNAVAILABLE are reported as
// ECRAWL so the chain always degrades.
func (s *CrawlStrategy) Acquire(ctx context.Context, url string) (*docscout.Page, error) {
	u, err := docscout.ParseURL(url)
	if err != nil {
		return nil, err
	}
	if s.Backend == nil {
		return nil, docscout.Errorf(docscout.ESKIPPED, "no crawl backend configured")
	}
	if !docscout.IsDocumentationURL(url) {
		return nil, docscout.Errorf(docscout.ESKIPPED, "%s does not look like documentation", url)
	}

	pages, err := s.Backend.Crawl(ctx, url, docscout.CrawlOptionsFor(url))
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		switch docscout.ErrorCode(err) {
		case docscout.ECRAWL, docscout.EUNAVAILABLE:
			return nil, err
		}
		return nil, &docscout.Error{Code: docscout.ECRAWL, Message: fmt.Sprintf("crawling %s: %s", url, docscout.ErrorMessage(err)), Err: err}
	}
	if len(pages) == 0 {
		return nil, docscout.Errorf(docscout.ECRAWL, "crawl of %s returned no pages", url)
	}
	logger(s.Logger).Debug("crawl merged", "url", url, "pages", len(pages))

	contents := make([]string, 0, len(pages))
	for _, p := range pages {
		contents = append(contents, p.Content)
	}
	content := strings.Join(contents, docscout.ContextSeparator)

	title := pages[0].Title
	if title == "" {
		title = u.Hostname()
	}

	return &docscout.Page{
		URL:          url,
		Title:        fmt.Sprintf("%s (%d pages)", title, len(pages)),
		Content:      content,
		APIEndpoints: docscout.ExtractEndpoints(content),
		CodeExamples: docscout.ExtractCodeExamples(content),
		WordCount:    docscout.CountWords(content),
		AcquiredVia:  docscout.DeepCrawl,
		PageCount:    len(pages),
	}, nil
}

// FetchStrategy acquires a single page: the fetched HTML is normalized to
// text while endpoints and code samples are extracted from the raw markup.
type FetchStrategy struct {
	Fetcher docscout.Fetcher
	Method  docscout.AcquisitionMethod
}

// Acquire fetches url. Fetch failures are returned unchanged.
func (s *FetchStrategy) Acquire(ctx context.Context, url string) (*docscout.Page, error) {
	res, err := s.Fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}

	n := docscout.Normalize(res.HTML, url)
	return &docscout.Page{
		URL:          url,
		FinalURL:     res.FinalURL,
		Title:        n.Title,
		Content:      n.Content,
		APIEndpoints: docscout.ExtractEndpoints(res.HTML),
		CodeExamples: docscout.ExtractCodeExamples(res.HTML),
		WordCount:    docscout.CountWords(n.Content),
		AcquiredVia:  s.Method,
	}, nil
}

func logger(l *slog.Logger) *slog.Logger {
	if l == nil {
		return slog.New(slog.DiscardHandler)
	}
	return l
}
