package browse_test

import (
	"context"
	"errors"
	"testing"

	"github.com/fwojciec/docscout"
	"github.com/fwojciec/docscout/browse"
	"github.com/fwojciec/docscout/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const docsHTML = `<html><head><title>Payments API</title></head>
<body><script>var x = 1;</script><h1>Payments</h1>
<p>Call GET /api/v1/payments with your api key.</p>
<pre><code>curl https://api.example.com/v1/payments</code></pre></body></html>`

func fetcherFor(html string) *mock.Fetcher {
	return &mock.Fetcher{
		FetchFn: func(_ context.Context, url string) (*docscout.FetchResult, error) {
			return &docscout.FetchResult{HTML: html, FinalURL: url, StatusCode: 200}, nil
		},
		CloseFn: func() error { return nil },
	}
}

func crawledPages() []*docscout.CrawledPage {
	return []*docscout.CrawledPage{
		{URL: "https://example.com/docs/api", Title: "API Reference", Content: "Use POST /api/v1/charges to create a charge."},
		{URL: "https://example.com/docs/api/auth", Title: "Auth", Content: "```\ncurl -H 'Authorization: Bearer x'\n```"},
	}
}

func TestChain_Acquire(t *testing.T) {
	t.Parallel()

	t.Run("deep crawl merges crawled pages", func(t *testing.T) {
		t.Parallel()

		var gotOpts docscout.CrawlOptions
		backend := &mock.CrawlBackend{
			CrawlFn: func(_ context.Context, _ string, opts docscout.CrawlOptions) ([]*docscout.CrawledPage, error) {
				gotOpts = opts
				return crawledPages(), nil
			},
		}
		fetcher := fetcherFor(docsHTML)
		fetcher.FetchFn = func(context.Context, string) (*docscout.FetchResult, error) {
			t.Fatal("fetcher must not be called after a successful crawl")
			return nil, nil
		}

		page, err := browse.NewChain(backend, fetcher, nil).Acquire(context.Background(), "https://example.com/docs/api")
		require.NoError(t, err)

		assert.Equal(t, docscout.DeepCrawl, page.AcquiredVia)
		assert.Equal(t, "API Reference (2 pages)", page.Title)
		assert.Equal(t, 2, page.PageCount)
		assert.Equal(t, crawledPages()[0].Content+docscout.ContextSeparator+crawledPages()[1].Content, page.Content)
		assert.Contains(t, page.APIEndpoints, "/api/v1/charges")
		assert.NotEmpty(t, page.CodeExamples)
		assert.Equal(t, docscout.CountWords(page.Content), page.WordCount)
		assert.Equal(t, docscout.CrawlOptionsFor("https://example.com/docs/api"), gotOpts)
	})

	t.Run("untitled crawl falls back to host", func(t *testing.T) {
		t.Parallel()

		backend := &mock.CrawlBackend{
			CrawlFn: func(context.Context, string, docscout.CrawlOptions) ([]*docscout.CrawledPage, error) {
				return []*docscout.CrawledPage{{URL: "https://docs.example.com/", Content: "hello"}}, nil
			},
		}

		page, err := browse.NewChain(backend, fetcherFor(docsHTML), nil).Acquire(context.Background(), "https://docs.example.com/")
		require.NoError(t, err)
		assert.Equal(t, "docs.example.com (1 pages)", page.Title)
	})

	t.Run("crawl failure degrades to single fetch", func(t *testing.T) {
		t.Parallel()

		backend := &mock.CrawlBackend{
			CrawlFn: func(context.Context, string, docscout.CrawlOptions) ([]*docscout.CrawledPage, error) {
				return nil, docscout.Errorf(docscout.ECRAWL, "boom")
			},
		}

		page, err := browse.NewChain(backend, fetcherFor(docsHTML), nil).Acquire(context.Background(), "https://example.com/docs/api")
		require.NoError(t, err)

		assert.Equal(t, docscout.SingleFetch, page.AcquiredVia)
		assert.Equal(t, "Payments API", page.Title)
		assert.NotContains(t, page.Content, "var x")
		assert.Contains(t, page.APIEndpoints, "/api/v1/payments")
		assert.Zero(t, page.PageCount)
	})

	t.Run("unclassified backend error degrades to single fetch", func(t *testing.T) {
		t.Parallel()

		backend := &mock.CrawlBackend{
			CrawlFn: func(context.Context, string, docscout.CrawlOptions) ([]*docscout.CrawledPage, error) {
				return nil, errors.New("unexpected")
			},
		}

		page, err := browse.NewChain(backend, fetcherFor(docsHTML), nil).Acquire(context.Background(), "https://example.com/docs/api")
		require.NoError(t, err)
		assert.Equal(t, docscout.SingleFetch, page.AcquiredVia)
	})

	t.Run("empty crawl degrades to single fetch", func(t *testing.T) {
		t.Parallel()

		backend := &mock.CrawlBackend{
			CrawlFn: func(context.Context, string, docscout.CrawlOptions) ([]*docscout.CrawledPage, error) {
				return nil, nil
			},
		}

		page, err := browse.NewChain(backend, fetcherFor(docsHTML), nil).Acquire(context.Background(), "https://example.com/docs/api")
		require.NoError(t, err)
		assert.Equal(t, docscout.SingleFetch, page.AcquiredVia)
	})

	t.Run("unreachable backend degrades to raw fallback", func(t *testing.T) {
		t.Parallel()

		backend := &mock.CrawlBackend{
			CrawlFn: func(context.Context, string, docscout.CrawlOptions) ([]*docscout.CrawledPage, error) {
				return nil, docscout.Errorf(docscout.EUNAVAILABLE, "connection refused")
			},
		}

		page, err := browse.NewChain(backend, fetcherFor(docsHTML), nil).Acquire(context.Background(), "https://example.com/docs/api")
		require.NoError(t, err)
		assert.Equal(t, docscout.RawFallback, page.AcquiredVia)
	})

	t.Run("non-documentation URL never calls the backend", func(t *testing.T) {
		t.Parallel()

		backend := &mock.CrawlBackend{
			CrawlFn: func(context.Context, string, docscout.CrawlOptions) ([]*docscout.CrawledPage, error) {
				t.Fatal("backend must not be called")
				return nil, nil
			},
		}

		page, err := browse.NewChain(backend, fetcherFor(docsHTML), nil).Acquire(context.Background(), "https://example.com/pricing")
		require.NoError(t, err)
		assert.Equal(t, docscout.RawFallback, page.AcquiredVia)
	})

	t.Run("missing backend uses raw fallback", func(t *testing.T) {
		t.Parallel()

		page, err := browse.NewChain(nil, fetcherFor(docsHTML), nil).Acquire(context.Background(), "https://example.com/docs/api")
		require.NoError(t, err)
		assert.Equal(t, docscout.RawFallback, page.AcquiredVia)
	})

	t.Run("invalid URL is terminal", func(t *testing.T) {
		t.Parallel()

		fetcher := fetcherFor(docsHTML)
		fetcher.FetchFn = func(context.Context, string) (*docscout.FetchResult, error) {
			t.Fatal("fetcher must not be called")
			return nil, nil
		}

		_, err := browse.NewChain(nil, fetcher, nil).Acquire(context.Background(), "not-a-url")
		assert.Equal(t, docscout.EINVALID, docscout.ErrorCode(err))
	})

	t.Run("fetch failure after crawl failure is terminal", func(t *testing.T) {
		t.Parallel()

		backend := &mock.CrawlBackend{
			CrawlFn: func(context.Context, string, docscout.CrawlOptions) ([]*docscout.CrawledPage, error) {
				return nil, docscout.Errorf(docscout.ECRAWL, "boom")
			},
		}
		var calls int
		fetcher := fetcherFor(docsHTML)
		fetcher.FetchFn = func(context.Context, string) (*docscout.FetchResult, error) {
			calls++
			return nil, &docscout.Error{Code: docscout.EHTTPSTATUS, Message: "HTTP 404", Status: 404}
		}

		_, err := browse.NewChain(backend, fetcher, nil).Acquire(context.Background(), "https://example.com/docs/api")
		assert.Equal(t, docscout.EHTTPSTATUS, docscout.ErrorCode(err))
		assert.Equal(t, 404, docscout.ErrorStatus(err))
		assert.Equal(t, 1, calls)
	})

	t.Run("empty chain is an internal error", func(t *testing.T) {
		t.Parallel()

		_, err := (&browse.Chain{}).Acquire(context.Background(), "https://example.com")
		assert.Equal(t, docscout.EINTERNAL, docscout.ErrorCode(err))
	})

	t.Run("tier method overrides strategy tag", func(t *testing.T) {
		t.Parallel()

		chain := &browse.Chain{Tiers: []browse.Tier{{
			Method:   docscout.SingleFetch,
			Strategy: &browse.FetchStrategy{Fetcher: fetcherFor(docsHTML), Method: docscout.RawFallback},
		}}}

		page, err := chain.Acquire(context.Background(), "https://example.com")
		require.NoError(t, err)
		assert.Equal(t, docscout.SingleFetch, page.AcquiredVia)
	})
}

func TestFetchStrategy_Acquire(t *testing.T) {
	t.Parallel()

	t.Run("records final URL and normalized content", func(t *testing.T) {
		t.Parallel()

		fetcher := &mock.Fetcher{
			FetchFn: func(context.Context, string) (*docscout.FetchResult, error) {
				return &docscout.FetchResult{HTML: docsHTML, FinalURL: "https://example.com/final", StatusCode: 200}, nil
			},
		}
		s := &browse.FetchStrategy{Fetcher: fetcher, Method: docscout.SingleFetch}

		page, err := s.Acquire(context.Background(), "https://example.com/start")
		require.NoError(t, err)
		assert.Equal(t, "https://example.com/start", page.URL)
		assert.Equal(t, "https://example.com/final", page.FinalURL)
		assert.Equal(t, "Payments API Payments Call GET /api/v1/payments with your api key. curl https://api.example.com/v1/payments", page.Content)
		assert.Equal(t, docscout.SingleFetch, page.AcquiredVia)
	})

	t.Run("returns fetch errors unchanged", func(t *testing.T) {
		t.Parallel()

		want := docscout.Errorf(docscout.ETIMEOUT, "slow")
		fetcher := &mock.Fetcher{
			FetchFn: func(context.Context, string) (*docscout.FetchResult, error) {
				return nil, want
			},
		}

		_, err := (&browse.FetchStrategy{Fetcher: fetcher}).Acquire(context.Background(), "https://example.com")
		assert.Equal(t, want, err)
	})
}
