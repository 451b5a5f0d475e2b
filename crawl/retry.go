package crawl

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/fwojciec/docscout"
)

// FetchFunc is the signature of a single fetch attempt.
type FetchFunc func(ctx context.Context, url string) (*docscout.FetchResult, error)

// DefaultRetryDelays returns the backoff delays for fetch retries: 1s, 2s, 4s.
func DefaultRetryDelays() []time.Duration {
	return []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}
}

// FetchWithRetry calls fetch until it succeeds, fails permanently or the
// delays are used up. One attempt is made per delay plus the first.
// A nil logger disables retry logging.
func FetchWithRetry(ctx context.Context, url string, fetch FetchFunc, delays []time.Duration, logger *slog.Logger) (*docscout.FetchResult, error) {
	var lastErr error
	for attempt := 0; attempt <= len(delays); attempt++ {
		res, err := fetch(ctx, url)
		if err == nil {
			return res, nil
		}
		lastErr = err

		if attempt == len(delays) || !Retryable(err) {
			break
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		if logger != nil {
			logger.Debug("retrying fetch", "url", url, "attempt", attempt+2, "err", err)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delays[attempt]):
		}
	}
	return nil, lastErr
}

// Retryable reports whether a failed fetch may succeed when repeated.
// Malformed URLs, cancellation and client-side HTTP statuses other than 429
// are permanent.
func Retryable(err error) bool {
	if errors.Is(err, context.Canceled) {
		return false
	}
	switch docscout.ErrorCode(err) {
	case docscout.EINVALID:
		return false
	case docscout.EHTTPSTATUS:
		status := docscout.ErrorStatus(err)
		return status == http.StatusTooManyRequests || status >= 500
	}
	return true
}
