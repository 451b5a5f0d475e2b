package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/docscout"
)

// Ensure LoggingCrawlBackend implements docscout.CrawlBackend.
var _ docscout.CrawlBackend = (*LoggingCrawlBackend)(nil)

// LoggingCrawlBackend wraps a CrawlBackend with logging.
type LoggingCrawlBackend struct {
	next   docscout.CrawlBackend
	logger *slog.Logger
}

// NewLoggingCrawlBackend creates a new LoggingCrawlBackend.
func NewLoggingCrawlBackend(next docscout.CrawlBackend, logger *slog.Logger) *LoggingCrawlBackend {
	return &LoggingCrawlBackend{next: next, logger: logger}
}

// Crawl logs the crawl outcome and delegates to the wrapped backend.
func (b *LoggingCrawlBackend) Crawl(ctx context.Context, url string, opts docscout.CrawlOptions) (pages []*docscout.CrawledPage, err error) {
	defer func(begin time.Time) {
		n := 0
		for _, p := range pages {
			n += len(p.Content)
		}
		logResult(ctx, b.logger, slog.LevelInfo, "crawl", err,
			"url", url,
			"limit", opts.PageLimit,
			"pages", len(pages),
			"bytes", n,
			"duration", time.Since(begin),
		)
	}(time.Now())
	return b.next.Crawl(ctx, url, opts)
}
