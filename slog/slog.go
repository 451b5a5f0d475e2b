// Package slog decorates docscout services with structured logging.
package slog

import (
	"context"
	"log/slog"

	"github.com/fwojciec/docscout"
)

// logResult writes one record per call. Failures are logged at warn level
// with their error code so per-tier degradations stand out.
func logResult(ctx context.Context, logger *slog.Logger, level slog.Level, msg string, err error, args ...any) {
	if err != nil {
		level = slog.LevelWarn
		args = append(args, "code", docscout.ErrorCode(err))
	}
	args = append(args, "err", err)
	logger.Log(ctx, level, msg, args...)
}
