package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/docscout"
)

// Ensure LoggingReportStore implements docscout.ReportStore.
var _ docscout.ReportStore = (*LoggingReportStore)(nil)

// LoggingReportStore wraps a ReportStore with debug logging.
type LoggingReportStore struct {
	next   docscout.ReportStore
	logger *slog.Logger
}

// NewLoggingReportStore creates a new LoggingReportStore.
func NewLoggingReportStore(next docscout.ReportStore, logger *slog.Logger) *LoggingReportStore {
	return &LoggingReportStore{next: next, logger: logger}
}

// Put delegates to the wrapped store and logs the report ID.
func (s *LoggingReportStore) Put(ctx context.Context, report *docscout.Report) (err error) {
	defer func(begin time.Time) {
		id := ""
		if report != nil {
			id = report.ID
		}
		logResult(ctx, s.logger, slog.LevelDebug, "report put", err,
			"id", id,
			"duration", time.Since(begin),
		)
	}(time.Now())
	return s.next.Put(ctx, report)
}

// Get delegates to the wrapped store. An empty store is not logged as a
// failure.
func (s *LoggingReportStore) Get(ctx context.Context) (report *docscout.Report, err error) {
	defer func(begin time.Time) {
		id := ""
		if report != nil {
			id = report.ID
		}
		logErr := err
		if docscout.ErrorCode(err) == docscout.ENOTFOUND {
			logErr = nil
		}
		logResult(ctx, s.logger, slog.LevelDebug, "report get", logErr,
			"id", id,
			"found", report != nil,
			"duration", time.Since(begin),
		)
	}(time.Now())
	return s.next.Get(ctx)
}
