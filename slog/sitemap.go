package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/docscout"
)

// Ensure LoggingSitemapService implements docscout.SitemapService.
var _ docscout.SitemapService = (*LoggingSitemapService)(nil)

// LoggingSitemapService wraps a SitemapService with debug logging.
type LoggingSitemapService struct {
	next   docscout.SitemapService
	logger *slog.Logger
}

// NewLoggingSitemapService creates a new LoggingSitemapService.
func NewLoggingSitemapService(next docscout.SitemapService, logger *slog.Logger) *LoggingSitemapService {
	return &LoggingSitemapService{next: next, logger: logger}
}

// DiscoverURLs delegates to the wrapped service and logs the operation.
func (s *LoggingSitemapService) DiscoverURLs(ctx context.Context, baseURL string, filter *docscout.URLFilter) (urls []string, err error) {
	defer func(begin time.Time) {
		logResult(ctx, s.logger, slog.LevelDebug, "sitemap discovery", err,
			"url", baseURL,
			"filtered", filter != nil,
			"count", len(urls),
			"duration", time.Since(begin),
		)
	}(time.Now())
	return s.next.DiscoverURLs(ctx, baseURL, filter)
}
