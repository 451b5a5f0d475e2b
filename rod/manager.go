package rod

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
)

// DefaultRecycleAfter is the default number of rendered pages before the
// browser process is replaced.
const DefaultRecycleAfter = 75

// BrowserManager owns one headless Chrome process and replaces it after a
// fixed number of rendered pages. Chrome memory grows with every page and
// never returns to its baseline, so long crawls need a fresh process.
//
// BrowserManager is safe for concurrent use.
type BrowserManager struct {
	mu           sync.Mutex
	browser      *rod.Browser
	launcher     *launcher.Launcher
	rendered     atomic.Int64
	recycleAfter int64
	closed       atomic.Bool
}

// ManagerOption configures a BrowserManager.
type ManagerOption func(*BrowserManager)

// WithRecycleAfter sets how many pages are rendered before the browser is
// replaced. Values below 1 disable recycling.
func WithRecycleAfter(n int64) ManagerOption {
	return func(bm *BrowserManager) {
		bm.recycleAfter = n
	}
}

// NewBrowserManager launches a headless Chrome process.
// Close must be called when the manager is no longer needed.
func NewBrowserManager(opts ...ManagerOption) (*BrowserManager, error) {
	bm := &BrowserManager{recycleAfter: DefaultRecycleAfter}
	for _, opt := range opts {
		opt(bm)
	}

	b, l, err := launch()
	if err != nil {
		return nil, err
	}
	bm.browser, bm.launcher = b, l
	return bm, nil
}

// Browser returns the live browser, replacing it first when the recycle
// threshold was reached. It returns nil after Close.
func (bm *BrowserManager) Browser() *rod.Browser {
	bm.mu.Lock()
	defer bm.mu.Unlock()

	if bm.closed.Load() {
		return nil
	}
	if bm.recycleAfter > 0 && bm.rendered.Load() >= bm.recycleAfter {
		bm.recycle()
	}
	return bm.browser
}

// PageDone records one rendered page toward the recycle threshold.
func (bm *BrowserManager) PageDone() {
	bm.rendered.Add(1)
}

// Closed reports whether Close has been called.
func (bm *BrowserManager) Closed() bool {
	return bm.closed.Load()
}

// Close shuts the browser down and kills the launcher process. It is safe to
// call more than once.
func (bm *BrowserManager) Close() error {
	if !bm.closed.CompareAndSwap(false, true) {
		return nil
	}

	bm.mu.Lock()
	defer bm.mu.Unlock()

	var err error
	if bm.browser != nil {
		err = bm.browser.Close()
		bm.browser = nil
	}
	if bm.launcher != nil {
		bm.launcher.Kill()
		bm.launcher = nil
	}
	return err
}

// LauncherPID returns the process ID of the running launcher, or 0 once the
// manager is closed.
func (bm *BrowserManager) LauncherPID() int {
	bm.mu.Lock()
	defer bm.mu.Unlock()
	if bm.launcher == nil {
		return 0
	}
	return bm.launcher.PID()
}

// recycle swaps in a fresh browser. The old one is kept when the new launch
// fails. Must be called with mu held.
func (bm *BrowserManager) recycle() {
	b, l, err := launch()
	if err != nil {
		return
	}
	if bm.browser != nil {
		_ = bm.browser.Close()
	}
	if bm.launcher != nil {
		bm.launcher.Kill()
	}
	bm.browser, bm.launcher = b, l
	bm.rendered.Store(0)
}

func launch() (*rod.Browser, *launcher.Launcher, error) {
	l := launcher.New().
		Set("disable-background-timer-throttling").
		Set("disable-backgrounding-occluded-windows").
		Set("disable-renderer-backgrounding").
		Set("disable-dev-shm-usage").
		Set("disable-hang-monitor").
		Leakless(true).
		Headless(true)

	u, err := l.Launch()
	if err != nil {
		return nil, nil, fmt.Errorf("launching browser: %w", err)
	}

	b := rod.New().ControlURL(u)
	if err := b.Connect(); err != nil {
		l.Kill()
		return nil, nil, fmt.Errorf("connecting to browser: %w", err)
	}
	return b, l, nil
}
