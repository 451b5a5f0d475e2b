package docscout

import "context"

// Acquirer obtains the content of one URL as a Page.
type Acquirer interface {
	// Acquire retrieves and extracts url. Failures carry an error code;
	// ESKIPPED, ECRAWL and EUNAVAILABLE mark the strategy as not
	// applicable rather than the URL as broken.
	Acquire(ctx context.Context, url string) (*Page, error)
}

// BrowseService runs the documentation pipeline for outer surfaces.
type BrowseService interface {
	// Browse acquires, filters and analyzes the requested URLs.
	Browse(ctx context.Context, req BrowseRequest) (*Report, error)

	// ScrapePage fetches a single URL without crawling or analysis.
	ScrapePage(ctx context.Context, url string) (*Page, error)
}
