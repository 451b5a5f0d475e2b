package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/docscout"
)

// Ensure LoggingFetcher implements docscout.Fetcher.
var _ docscout.Fetcher = (*LoggingFetcher)(nil)

// LoggingFetcher wraps a Fetcher with debug logging.
type LoggingFetcher struct {
	next   docscout.Fetcher
	logger *slog.Logger
}

// NewLoggingFetcher creates a new LoggingFetcher.
func NewLoggingFetcher(next docscout.Fetcher, logger *slog.Logger) *LoggingFetcher {
	return &LoggingFetcher{next: next, logger: logger}
}

// Fetch logs the URL being fetched and delegates to the wrapped fetcher.
func (f *LoggingFetcher) Fetch(ctx context.Context, url string) (res *docscout.FetchResult, err error) {
	defer func(begin time.Time) {
		var n, status int
		if res != nil {
			n, status = len(res.HTML), res.StatusCode
		}
		logResult(ctx, f.logger, slog.LevelDebug, "fetch", err,
			"url", url,
			"status", status,
			"bytes", n,
			"duration", time.Since(begin),
		)
	}(time.Now())
	return f.next.Fetch(ctx, url)
}

// Close delegates to the wrapped fetcher.
func (f *LoggingFetcher) Close() error {
	return f.next.Close()
}
