// Package crawl is an in-process deep crawler for documentation sites.
// It discovers pages from the sitemap when one exists and walks links
// otherwise, turning every page into main-content markdown.
package crawl

import (
	"context"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/docscout"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is the number of pages fetched at once.
const DefaultConcurrency = 5

var _ docscout.CrawlBackend = (*Crawler)(nil)

// Crawler implements docscout.CrawlBackend without an external service.
type Crawler struct {
	// Sitemaps is consulted first. Optional.
	Sitemaps docscout.SitemapService

	Fetcher   docscout.Fetcher
	Extractor docscout.Extractor
	Converter docscout.Converter

	// LinkSelector discovers links while walking. Without it only the
	// sitemap URLs or the root page are crawled.
	LinkSelector docscout.LinkSelector

	// RateLimiter throttles requests per host. Optional.
	RateLimiter docscout.DomainLimiter

	Concurrency int
	RetryDelays []time.Duration

	// Timeout bounds a whole crawl. Pages finished before it expires are
	// still returned. Zero means no limit.
	Timeout time.Duration

	Logger *slog.Logger
}

// pageResult is the outcome of processing one URL.
type pageResult struct {
	link  docscout.DiscoveredLink
	page  *docscout.CrawledPage
	hash  uint64
	links []docscout.DiscoveredLink
	err   error
}

// Crawl returns up to opts.PageLimit pages reachable from rawURL. Every
// failure, including a crawl that produced no pages, has code ECRAWL.
func (c *Crawler) Crawl(ctx context.Context, rawURL string, opts docscout.CrawlOptions) ([]*docscout.CrawledPage, error) {
	root, err := docscout.ParseURL(rawURL)
	if err != nil {
		return nil, &docscout.Error{Code: docscout.ECRAWL, Message: docscout.ErrorMessage(err), Err: err}
	}
	filter, err := CompileFilter(opts.IncludePaths, opts.ExcludePaths)
	if err != nil {
		return nil, &docscout.Error{Code: docscout.ECRAWL, Message: docscout.ErrorMessage(err), Err: err}
	}

	limit := opts.PageLimit
	if limit <= 0 {
		limit = docscout.DefaultCrawlPageLimit
	}
	maxDepth := max(opts.MaxDepth, 0)

	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	log := c.logger().With("root", rawURL)
	log.Debug("crawl started", "limit", limit, "maxDepth", maxDepth, "filter", describeFilter(filter))

	var pages []*docscout.CrawledPage
	if c.Sitemaps != nil {
		urls, err := c.Sitemaps.DiscoverURLs(ctx, rawURL, filter)
		if err != nil {
			log.Debug("sitemap discovery failed", "err", err)
		}
		urls = withinDepth(rawURL, urls, maxDepth)
		if len(urls) > 0 && ctx.Err() == nil {
			log.Debug("crawling sitemap", "urls", len(urls))
			pages = c.crawlList(ctx, urls, limit)
		}
	}
	if len(pages) == 0 && ctx.Err() == nil {
		pages = c.walk(ctx, root, filter, limit, maxDepth)
	}

	if len(pages) == 0 {
		e := docscout.Errorf(docscout.ECRAWL, "no pages crawled from %s", rawURL)
		e.Err = ctx.Err()
		return nil, e
	}
	log.Debug("crawl finished", "pages", len(pages))
	return pages, nil
}

// crawlList processes a fixed URL list in order, in batches sized to the
// pages still missing, until the limit is met or the list is exhausted.
func (c *Crawler) crawlList(ctx context.Context, urls []string, limit int) []*docscout.CrawledPage {
	seen := make(map[uint64]struct{})
	var pages []*docscout.CrawledPage

	for start := 0; start < len(urls) && len(pages) < limit && ctx.Err() == nil; {
		end := min(start+limit-len(pages), len(urls))
		batch := urls[start:end]
		start = end

		results := make([]pageResult, len(batch))
		var g errgroup.Group
		g.SetLimit(c.concurrency())
		for i, u := range batch {
			g.Go(func() error {
				results[i] = c.processURL(ctx, docscout.DiscoveredLink{URL: u}, false)
				return nil
			})
		}
		_ = g.Wait()

		for _, r := range results {
			if c.accept(r, seen) {
				pages = append(pages, r.page)
			}
		}
	}
	return pages
}

// processURL fetches one page and converts its main content to markdown.
// Links are extracted only when wantLinks is set.
func (c *Crawler) processURL(ctx context.Context, link docscout.DiscoveredLink, wantLinks bool) pageResult {
	result := pageResult{link: link}

	if c.RateLimiter != nil {
		u, err := url.Parse(link.URL)
		if err != nil {
			result.err = err
			return result
		}
		if err := c.RateLimiter.Wait(ctx, u.Host); err != nil {
			result.err = err
			return result
		}
	}

	delays := c.RetryDelays
	if delays == nil {
		delays = DefaultRetryDelays()
	}
	res, err := FetchWithRetry(ctx, link.URL, c.Fetcher.Fetch, delays, c.Logger)
	if err != nil {
		result.err = err
		return result
	}
	pageURL := res.FinalURL
	if pageURL == "" {
		pageURL = link.URL
	}

	if wantLinks && c.LinkSelector != nil {
		if links, err := c.LinkSelector.ExtractLinks(res.HTML, pageURL); err == nil {
			result.links = links
		}
	}

	extracted, err := c.Extractor.Extract(res.HTML, pageURL)
	if err != nil {
		result.err = err
		return result
	}
	markdown, err := c.Converter.Convert(extracted.ContentHTML, pageURL)
	if err != nil {
		result.err = err
		return result
	}
	markdown = strings.TrimSpace(markdown)
	if markdown == "" {
		result.err = docscout.Errorf(docscout.ECRAWL, "no content extracted from %s", link.URL)
		return result
	}

	title := strings.TrimSpace(extracted.Title)
	if title == "" {
		title = pageURL
	}

	result.page = &docscout.CrawledPage{URL: pageURL, Title: title, Content: markdown}
	result.hash = xxhash.Sum64String(markdown)
	return result
}

// accept reports whether a result is a successful page with a body not
// seen before, recording its hash.
func (c *Crawler) accept(r pageResult, seen map[uint64]struct{}) bool {
	if r.err != nil {
		c.logger().Debug("page skipped", "url", r.link.URL, "err", r.err)
		return false
	}
	if _, dup := seen[r.hash]; dup {
		c.logger().Debug("duplicate page body", "url", r.link.URL)
		return false
	}
	seen[r.hash] = struct{}{}
	return true
}

func (c *Crawler) concurrency() int {
	if c.Concurrency <= 0 {
		return DefaultConcurrency
	}
	return c.Concurrency
}

func (c *Crawler) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return c.Logger
}

// withinDepth drops sitemap URLs more than maxDepth path segments below
// the root.
func withinDepth(root string, urls []string, maxDepth int) []string {
	var out []string
	for _, u := range urls {
		if pathDepth(root, u) <= maxDepth {
			out = append(out, u)
		}
	}
	return out
}
