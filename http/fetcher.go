// Package http provides net/http implementations of docscout.Fetcher and
// docscout.SitemapService for static pages that don't require JavaScript
// rendering.
package http

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/fwojciec/docscout"
	"golang.org/x/net/html/charset"
)

// DefaultFetchTimeout is the default timeout for a single page fetch.
const DefaultFetchTimeout = 15 * time.Second

// DefaultMaxBodySize caps the number of bytes read from a response.
const DefaultMaxBodySize = 10 << 20

// maxRedirects matches the browser-like redirect limit.
const maxRedirects = 10

// DefaultUserAgent is sent with every request so documentation sites serve
// the same markup a desktop browser receives.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"

// Ensure Fetcher implements docscout.Fetcher at compile time.
var _ docscout.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves HTML content from URLs using plain HTTP requests.
// Unlike rod.Fetcher, it does not execute JavaScript.
type Fetcher struct {
	client      *http.Client
	timeout     time.Duration
	userAgent   string
	maxBodySize int64
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the timeout for a single fetch.
// Defaults to DefaultFetchTimeout (15s) if not specified.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// WithMaxBodySize caps the number of response bytes read.
func WithMaxBodySize(n int64) Option {
	return func(f *Fetcher) {
		f.maxBodySize = n
	}
}

// WithTransport sets the round tripper used by the underlying client.
func WithTransport(rt http.RoundTripper) Option {
	return func(f *Fetcher) {
		f.client.Transport = rt
	}
}

// NewFetcher creates a new HTTP-based Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		client: &http.Client{
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= maxRedirects {
					return fmt.Errorf("stopped after %d redirects", maxRedirects)
				}
				return nil
			},
		},
		timeout:     DefaultFetchTimeout,
		userAgent:   DefaultUserAgent,
		maxBodySize: DefaultMaxBodySize,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch retrieves the HTML content of rawURL.
//
// Malformed URLs fail with EINVALID, non-2xx responses with EHTTPSTATUS,
// deadline expiry with ETIMEOUT and other transport failures with ENETWORK.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*docscout.FetchResult, error) {
	u, err := docscout.ParseURL(rawURL)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, docscout.Errorf(docscout.EINVALID, "invalid URL %q", rawURL)
	}
	SetBrowserHeaders(req, f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, classifyError(rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &docscout.Error{
			Code:    docscout.EHTTPSTATUS,
			Message: fmt.Sprintf("HTTP %d for %s", resp.StatusCode, rawURL),
			Status:  resp.StatusCode,
		}
	}

	body, err := readUTF8(io.LimitReader(resp.Body, f.maxBodySize), resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, classifyError(rawURL, err)
	}

	return &docscout.FetchResult{
		HTML:       body,
		FinalURL:   resp.Request.URL.String(),
		StatusCode: resp.StatusCode,
	}, nil
}

// readUTF8 reads an HTML body and converts it to UTF-8 using the charset
// from contentType, a byte order mark or a <meta> declaration.
func readUTF8(r io.Reader, contentType string) (string, error) {
	raw, err := io.ReadAll(r)
	if err != nil || len(raw) == 0 {
		return "", err
	}
	decoded, err := charset.NewReader(bytes.NewReader(raw), contentType)
	if err != nil {
		return "", err
	}
	body, err := io.ReadAll(decoded)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// Close releases resources. For HTTP fetcher this only drops idle
// connections.
func (f *Fetcher) Close() error {
	f.client.CloseIdleConnections()
	return nil
}

// SetBrowserHeaders sets the headers a desktop browser sends for a page
// navigation.
func SetBrowserHeaders(req *http.Request, userAgent string) {
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")
	req.Header.Set("Upgrade-Insecure-Requests", "1")
}

// classifyError maps a transport error to an application error.
func classifyError(rawURL string, err error) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return &docscout.Error{
			Code:    docscout.ETIMEOUT,
			Message: fmt.Sprintf("request to %s timed out", rawURL),
			Err:     err,
		}
	}
	return &docscout.Error{
		Code:    docscout.ENETWORK,
		Message: fmt.Sprintf("request to %s failed: %v", rawURL, err),
		Err:     err,
	}
}
