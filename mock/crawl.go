package mock

import (
	"context"

	"github.com/fwojciec/docscout"
)

var _ docscout.CrawlBackend = (*CrawlBackend)(nil)

// CrawlBackend is a mock implementation of docscout.CrawlBackend.
type CrawlBackend struct {
	CrawlFn func(ctx context.Context, url string, opts docscout.CrawlOptions) ([]*docscout.CrawledPage, error)
}

func (b *CrawlBackend) Crawl(ctx context.Context, url string, opts docscout.CrawlOptions) ([]*docscout.CrawledPage, error) {
	return b.CrawlFn(ctx, url, opts)
}

var _ docscout.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter is a mock implementation of docscout.DomainLimiter.
type DomainLimiter struct {
	WaitFn func(ctx context.Context, domain string) error
}

func (l *DomainLimiter) Wait(ctx context.Context, domain string) error {
	return l.WaitFn(ctx, domain)
}
