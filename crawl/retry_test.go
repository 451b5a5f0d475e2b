package crawl_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fwojciec/docscout"
	"github.com/fwojciec/docscout/crawl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchWithRetry(t *testing.T) {
	t.Parallel()

	delays := []time.Duration{0, 0, 0}

	t.Run("returns first success", func(t *testing.T) {
		t.Parallel()

		attempts := 0
		fetch := func(_ context.Context, url string) (*docscout.FetchResult, error) {
			attempts++
			if attempts < 3 {
				return nil, docscout.Errorf(docscout.ENETWORK, "connection reset")
			}
			return &docscout.FetchResult{HTML: "ok", FinalURL: url}, nil
		}

		res, err := crawl.FetchWithRetry(context.Background(), "https://example.com", fetch, delays, nil)

		require.NoError(t, err)
		assert.Equal(t, "ok", res.HTML)
		assert.Equal(t, 3, attempts)
	})

	t.Run("gives up after all delays", func(t *testing.T) {
		t.Parallel()

		attempts := 0
		fetch := func(_ context.Context, _ string) (*docscout.FetchResult, error) {
			attempts++
			return nil, docscout.Errorf(docscout.ETIMEOUT, "timed out")
		}

		_, err := crawl.FetchWithRetry(context.Background(), "https://example.com", fetch, delays, nil)

		assert.Equal(t, docscout.ETIMEOUT, docscout.ErrorCode(err))
		assert.Equal(t, 4, attempts)
	})

	t.Run("does not retry permanent failures", func(t *testing.T) {
		t.Parallel()

		attempts := 0
		fetch := func(_ context.Context, _ string) (*docscout.FetchResult, error) {
			attempts++
			return nil, &docscout.Error{Code: docscout.EHTTPSTATUS, Status: 404}
		}

		_, err := crawl.FetchWithRetry(context.Background(), "https://example.com", fetch, delays, nil)

		assert.Equal(t, docscout.EHTTPSTATUS, docscout.ErrorCode(err))
		assert.Equal(t, 1, attempts)
	})

	t.Run("stops when context is canceled", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		fetch := func(_ context.Context, _ string) (*docscout.FetchResult, error) {
			cancel()
			return nil, docscout.Errorf(docscout.ENETWORK, "connection reset")
		}

		_, err := crawl.FetchWithRetry(ctx, "https://example.com", fetch, []time.Duration{time.Hour}, nil)

		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestRetryable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"network", docscout.Errorf(docscout.ENETWORK, "reset"), true},
		{"timeout", docscout.Errorf(docscout.ETIMEOUT, "slow"), true},
		{"server error", &docscout.Error{Code: docscout.EHTTPSTATUS, Status: 503}, true},
		{"too many requests", &docscout.Error{Code: docscout.EHTTPSTATUS, Status: 429}, true},
		{"not found", &docscout.Error{Code: docscout.EHTTPSTATUS, Status: 404}, false},
		{"invalid URL", docscout.Errorf(docscout.EINVALID, "bad"), false},
		{"canceled", context.Canceled, false},
		{"unknown", errors.New("boom"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, crawl.Retryable(tt.err))
		})
	}
}
