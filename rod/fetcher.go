// Package rod renders JavaScript-heavy documentation pages with headless
// Chrome.
package rod

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fwojciec/docscout"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
)

// DefaultFetchTimeout bounds a single page render.
const DefaultFetchTimeout = 30 * time.Second

// serializeJS returns the document including open shadow roots, which
// page.HTML omits. Web-component navigation menus keep their links there.
const serializeJS = `() => {
	const roots = [];
	const walk = (root) => {
		root.querySelectorAll('*').forEach((el) => {
			if (el.shadowRoot) {
				roots.push(el.shadowRoot);
				walk(el.shadowRoot);
			}
		});
	};
	walk(document);
	const el = document.documentElement;
	if (roots.length === 0 || typeof el.getHTML !== 'function') {
		return '';
	}
	return '<!DOCTYPE html><html>' + el.getHTML({serializableShadowRoots: true, shadowRoots: roots}) + '</html>';
}`

// statusJS reads the navigation status without enabling CDP network events.
const statusJS = `() => {
	try {
		const entries = performance.getEntriesByType("navigation");
		if (entries.length > 0) return entries[0].responseStatus || 0;
	} catch (e) {}
	return 0;
}`

// Ensure Fetcher implements docscout.Fetcher at compile time.
var _ docscout.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves rendered HTML using Chrome browser automation.
// Fetcher is safe for concurrent use by multiple goroutines.
type Fetcher struct {
	manager      *BrowserManager
	timeout      time.Duration
	renderDelay  time.Duration
	stealth      bool
	recycleAfter int64
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithFetchTimeout bounds each render.
// Defaults to DefaultFetchTimeout (30s) if not specified.
func WithFetchTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithRenderDelay waits an extra fixed delay after the load event so
// client-side routers can settle.
func WithRenderDelay(d time.Duration) Option {
	return func(f *Fetcher) {
		f.renderDelay = d
	}
}

// WithStealth injects the stealth script into every new page to hide the
// headless fingerprint.
func WithStealth(enabled bool) Option {
	return func(f *Fetcher) {
		f.stealth = enabled
	}
}

// WithPagesPerBrowser sets how many pages are rendered before Chrome is
// relaunched.
func WithPagesPerBrowser(n int64) Option {
	return func(f *Fetcher) {
		f.recycleAfter = n
	}
}

// NewFetcher launches a headless Chrome browser.
// Close must be called when the Fetcher is no longer needed.
//
// Returns an error if Chrome/Chromium cannot be found or launched.
func NewFetcher(opts ...Option) (*Fetcher, error) {
	f := &Fetcher{
		timeout:      DefaultFetchTimeout,
		recycleAfter: DefaultRecycleAfter,
	}
	for _, opt := range opts {
		opt(f)
	}

	m, err := NewBrowserManager(WithRecycleAfter(f.recycleAfter))
	if err != nil {
		return nil, err
	}
	f.manager = m
	return f, nil
}

// Fetch navigates to rawURL and returns the rendered HTML.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*docscout.FetchResult, error) {
	if _, err := docscout.ParseURL(rawURL); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	browser := f.manager.Browser()
	if browser == nil {
		return nil, docscout.Errorf(docscout.EINVALID, "fetcher is closed")
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, fmt.Errorf("opening page: %w", err)
	}
	defer func() {
		_ = page.Close()
		f.manager.PageDone()
	}()

	if f.stealth {
		// A page without the stealth script still renders.
		_, _ = page.EvalOnNewDocument(stealth.JS)
	}

	p := page.Context(ctx)
	if err := p.Navigate(rawURL); err != nil {
		return nil, classifyError(ctx, rawURL, err)
	}
	if err := p.WaitLoad(); err != nil {
		return nil, classifyError(ctx, rawURL, err)
	}
	if f.renderDelay > 0 {
		select {
		case <-time.After(f.renderDelay):
		case <-ctx.Done():
			return nil, classifyError(ctx, rawURL, ctx.Err())
		}
	}

	html := evalString(p, serializeJS)
	if html == "" {
		if html, err = p.HTML(); err != nil {
			return nil, classifyError(ctx, rawURL, err)
		}
	}

	status := 200
	if res, err := p.Eval(statusJS); err == nil && res.Value.Int() > 0 {
		status = res.Value.Int()
	}
	if status < 200 || status > 299 {
		return nil, &docscout.Error{
			Code:    docscout.EHTTPSTATUS,
			Message: fmt.Sprintf("HTTP %d for %s", status, rawURL),
			Status:  status,
		}
	}

	finalURL := evalString(p, `() => window.location.href`)
	if finalURL == "" {
		finalURL = rawURL
	}

	return &docscout.FetchResult{
		HTML:       html,
		FinalURL:   finalURL,
		StatusCode: status,
	}, nil
}

// Close releases browser resources. It is safe to call more than once.
func (f *Fetcher) Close() error {
	return f.manager.Close()
}

// LauncherPID returns the process ID of the Chrome launcher.
func (f *Fetcher) LauncherPID() int {
	return f.manager.LauncherPID()
}

func evalString(p *rod.Page, js string) string {
	res, err := p.Eval(js)
	if err != nil {
		return ""
	}
	return res.Value.Str()
}

// classifyError maps a browser error to an application error. Deadline
// expiry keeps context.DeadlineExceeded in the chain.
func classifyError(ctx context.Context, rawURL string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return &docscout.Error{
			Code:    docscout.ETIMEOUT,
			Message: fmt.Sprintf("rendering %s timed out", rawURL),
			Err:     context.DeadlineExceeded,
		}
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	return &docscout.Error{
		Code:    docscout.ENETWORK,
		Message: fmt.Sprintf("rendering %s failed: %v", rawURL, err),
		Err:     err,
	}
}
