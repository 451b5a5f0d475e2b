package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/docscout"
)

// Ensure LoggingLinkSelector implements docscout.LinkSelector.
var _ docscout.LinkSelector = (*LoggingLinkSelector)(nil)

// LoggingLinkSelector wraps a LinkSelector with debug logging of how many
// links each page section contributed.
type LoggingLinkSelector struct {
	next   docscout.LinkSelector
	logger *slog.Logger
}

// NewLoggingLinkSelector creates a new LoggingLinkSelector.
func NewLoggingLinkSelector(next docscout.LinkSelector, logger *slog.Logger) *LoggingLinkSelector {
	return &LoggingLinkSelector{next: next, logger: logger}
}

// ExtractLinks delegates to the wrapped selector and logs link counts by
// source.
func (s *LoggingLinkSelector) ExtractLinks(html string, baseURL string) (links []docscout.DiscoveredLink, err error) {
	defer func(begin time.Time) {
		sources := make(map[string]int)
		for _, l := range links {
			sources[l.Source]++
		}
		logResult(context.Background(), s.logger, slog.LevelDebug, "link extraction", err,
			"url", baseURL,
			"links", len(links),
			"sources", sources,
			"duration", time.Since(begin),
		)
	}(time.Now())
	return s.next.ExtractLinks(html, baseURL)
}
