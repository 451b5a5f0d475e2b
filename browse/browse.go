// Package browse runs the documentation pipeline: it acquires each
// requested URL through a tier chain, keeps the parts relevant to the
// user's request and analyzes what is left.
package browse

import (
	"context"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/fwojciec/docscout"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// MaxScrapeLength caps the content returned by ScrapePage, in characters.
const MaxScrapeLength = 8000

var _ docscout.BrowseService = (*Browser)(nil)

// Browser implements docscout.BrowseService.
type Browser struct {
	// Acquirer obtains the content of each requested URL, usually a Chain.
	Acquirer docscout.Acquirer

	// Scraper backs ScrapePage, usually a single-fetch FetchStrategy.
	Scraper docscout.Acquirer

	Logger *slog.Logger

	// MaxURLs caps the URLs processed per browse. Defaults to
	// docscout.DefaultMaxURLs.
	MaxURLs int

	// Concurrency is the number of URLs acquired at once. Defaults to 1.
	Concurrency int

	// TokenCounter sizes the documentation context. Optional.
	TokenCounter docscout.TokenCounter

	// Store receives every completed report. Optional.
	Store docscout.ReportStore

	Now   func() time.Time
	NewID func() string
}

// Browse acquires, filters and analyzes the first MaxURLs of req.URLs.
// Per-URL failures are recorded in the report; an error is returned only
// when req.URLs is nil.
func (b *Browser) Browse(ctx context.Context, req docscout.BrowseRequest) (*docscout.Report, error) {
	if req.URLs == nil {
		return nil, docscout.Errorf(docscout.EINVALID, "urls must be a list")
	}

	urls := req.URLs[:min(len(req.URLs), b.maxURLs())]
	topics := []string{}
	if req.UserRequest != "" {
		topics = docscout.ExtractTopics(req.UserRequest)
	}
	focus := req.Focus
	if focus == "" {
		focus = req.UserRequest
	}

	log := logger(b.Logger)
	log.Info("browse started", "urls", len(urls), "topics", topics)
	start := time.Now()

	results := make([]*docscout.Result, len(urls))
	var g errgroup.Group
	g.SetLimit(b.concurrency())
	for i, u := range urls {
		g.Go(func() error {
			results[i] = b.process(ctx, u, req.UserRequest != "", topics, focus)
			return nil
		})
	}
	_ = g.Wait()

	summary := docscout.Summarize(len(req.URLs), results)
	report := &docscout.Report{
		ID:                   b.newID(),
		CreatedAt:            b.now(),
		RequestedURLs:        req.URLs,
		UserRequest:          req.UserRequest,
		Focus:                focus,
		Topics:               topics,
		Results:              results,
		DocumentationContext: docscout.FormatContext(results),
		Message:              summary.Message(),
	}

	if b.TokenCounter != nil && report.DocumentationContext != "" {
		n, err := b.TokenCounter.CountTokens(ctx, report.DocumentationContext)
		if err != nil {
			log.Warn("counting context tokens failed", "err", err)
		} else {
			summary.ContextTokens = n
		}
	}
	report.Summary = summary

	if b.Store != nil {
		if err := b.Store.Put(ctx, report); err != nil {
			log.Warn("storing report failed", "id", report.ID, "err", err)
		}
	}

	log.Info("browse finished",
		"successful", summary.Successful,
		"failed", summary.Failed,
		"endpoints", summary.TotalEndpoints,
		"duration", time.Since(start),
	)
	return report, nil
}

func (b *Browser) process(ctx context.Context, url string, filter bool, topics []string, focus string) *docscout.Result {
	page, err := b.Acquirer.Acquire(ctx, url)
	if err != nil {
		logger(b.Logger).Warn("acquiring page failed", "url", url, "code", docscout.ErrorCode(err), "err", err)
		return &docscout.Result{URL: url, Failure: docscout.NewFailure(url, err)}
	}

	if filter {
		page = page.WithContent(docscout.FilterRelevant(page.Content, topics))
	}
	return &docscout.Result{
		URL:      url,
		Success:  true,
		Page:     page,
		Analysis: docscout.Analyze(page.Content, page.APIEndpoints, focus),
	}
}

// ScrapePage fetches url without crawling or analysis. Content longer than
// MaxScrapeLength characters is cut and suffixed with "...".
func (b *Browser) ScrapePage(ctx context.Context, url string) (*docscout.Page, error) {
	if _, err := docscout.ParseURL(url); err != nil {
		return nil, err
	}
	if b.Scraper == nil {
		return nil, docscout.Errorf(docscout.EINTERNAL, "scraping is not configured")
	}

	page, err := b.Scraper.Acquire(ctx, url)
	if err != nil {
		return nil, err
	}
	if utf8.RuneCountInString(page.Content) > MaxScrapeLength {
		page = page.WithContent(capRunes(page.Content, MaxScrapeLength) + "...")
	}
	return page, nil
}

func capRunes(s string, n int) string {
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

func (b *Browser) maxURLs() int {
	if b.MaxURLs <= 0 {
		return docscout.DefaultMaxURLs
	}
	return b.MaxURLs
}

func (b *Browser) concurrency() int {
	if b.Concurrency <= 0 {
		return 1
	}
	return b.Concurrency
}

func (b *Browser) now() time.Time {
	if b.Now == nil {
		return time.Now().UTC()
	}
	return b.Now()
}

func (b *Browser) newID() string {
	if b.NewID == nil {
		return uuid.NewString()
	}
	return b.NewID()
}
