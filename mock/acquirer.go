package mock

import (
	"context"

	"github.com/fwojciec/docscout"
)

var _ docscout.Acquirer = (*Acquirer)(nil)

// Acquirer is a mock implementation of docscout.Acquirer.
type Acquirer struct {
	AcquireFn func(ctx context.Context, url string) (*docscout.Page, error)
}

func (a *Acquirer) Acquire(ctx context.Context, url string) (*docscout.Page, error) {
	return a.AcquireFn(ctx, url)
}

var _ docscout.BrowseService = (*BrowseService)(nil)

// BrowseService is a mock implementation of docscout.BrowseService.
type BrowseService struct {
	BrowseFn     func(ctx context.Context, req docscout.BrowseRequest) (*docscout.Report, error)
	ScrapePageFn func(ctx context.Context, url string) (*docscout.Page, error)
}

func (s *BrowseService) Browse(ctx context.Context, req docscout.BrowseRequest) (*docscout.Report, error) {
	return s.BrowseFn(ctx, req)
}

func (s *BrowseService) ScrapePage(ctx context.Context, url string) (*docscout.Page, error) {
	return s.ScrapePageFn(ctx, url)
}
