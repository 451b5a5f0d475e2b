package docscout

import "context"

// FetchResult is the raw response body of a single page retrieval.
type FetchResult struct {
	// HTML is the response body as text.
	HTML string

	// FinalURL is the URL after redirects were followed.
	FinalURL string

	// StatusCode is the HTTP status of the final response.
	StatusCode int
}

// Fetcher retrieves raw HTML from URLs.
type Fetcher interface {
	// Fetch retrieves the page at url. The context controls timeout and
	// cancellation. Implementations classify failures with EINVALID,
	// ETIMEOUT, EHTTPSTATUS or ENETWORK.
	Fetch(ctx context.Context, url string) (*FetchResult, error)

	// Close releases resources held by the fetcher.
	Close() error
}
