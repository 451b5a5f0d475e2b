package crawl

import (
	"context"
	"net/url"
	"strings"
	"sync"

	"github.com/fwojciec/docscout"
)

// Frontier configuration for link walking.
const (
	// frontierExpectedURLs sizes the Bloom filter.
	frontierExpectedURLs = 10000
	// frontierFalsePositiveRate is the acceptable rate of URLs wrongly
	// treated as already seen.
	frontierFalsePositiveRate = 0.01
	// maxWalkURLs bounds the URLs dispatched by a single walk.
	maxWalkURLs = 1000
)

// walkProcessor processes one link on a worker goroutine.
type walkProcessor func(ctx context.Context, link docscout.DiscoveredLink) pageResult

// walkHandler consumes one result on the coordinator goroutine and returns
// true to stop the walk.
type walkHandler func(result pageResult) bool

// walk follows links from root breadth-first by priority, keeping to the
// root host, the filter and maxDepth hops.
func (c *Crawler) walk(ctx context.Context, root *url.URL, filter *docscout.URLFilter, limit, maxDepth int) []*docscout.CrawledPage {
	frontier := NewFrontier(frontierExpectedURLs, frontierFalsePositiveRate)
	frontier.Push(docscout.DiscoveredLink{
		URL:      root.String(),
		Priority: docscout.PriorityNavigation,
		Source:   "root",
	})

	prefix := scopePrefix(root.Path)
	seen := make(map[uint64]struct{})
	var pages []*docscout.CrawledPage

	process := func(ctx context.Context, link docscout.DiscoveredLink) pageResult {
		return c.processURL(ctx, link, link.Depth < maxDepth)
	}
	handle := func(r pageResult) bool {
		for _, l := range r.links {
			if !inScope(root, prefix, filter, l.URL) {
				continue
			}
			l.Depth = r.link.Depth + 1
			frontier.Push(l)
		}
		if c.accept(r, seen) {
			pages = append(pages, r.page)
		}
		return len(pages) >= limit
	}

	c.walkFrontier(ctx, frontier, process, handle)
	return pages
}

// walkFrontier runs a worker pool over the frontier. Handlers push new
// links, so the coordinator keeps popping until the frontier is drained
// and nothing is in flight, the handler asks to stop, or ctx is done.
func (c *Crawler) walkFrontier(ctx context.Context, frontier *Frontier, process walkProcessor, handle walkHandler) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	workCh := make(chan docscout.DiscoveredLink)
	resultCh := make(chan pageResult)

	var wg sync.WaitGroup
	for range c.concurrency() {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for link := range workCh {
				r := process(ctx, link)
				select {
				case resultCh <- r:
				case <-ctx.Done():
					return
				}
			}
		}()
	}
	go func() {
		wg.Wait()
		close(resultCh)
	}()

	dispatched, pending := 0, 0
	var next *docscout.DiscoveredLink
	refill := func() {
		if next != nil || dispatched >= maxWalkURLs {
			return
		}
		if link, ok := frontier.Pop(); ok {
			next = &link
		}
	}
	refill()

	done := false
	for !done && (next != nil || pending > 0) {
		// A nil channel blocks, disabling dispatch when nothing is ready.
		var send chan<- docscout.DiscoveredLink
		var link docscout.DiscoveredLink
		if next != nil {
			send = workCh
			link = *next
		}

		select {
		case <-ctx.Done():
			done = true
		case send <- link:
			dispatched++
			pending++
			next = nil
		case r := <-resultCh:
			pending--
			done = handle(r)
		}
		refill()
	}

	cancel()
	close(workCh)
	for range resultCh {
	}
}

// inScope reports whether a discovered link may be walked.
func inScope(root *url.URL, prefix string, filter *docscout.URLFilter, rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	if !strings.EqualFold(u.Host, root.Host) {
		return false
	}
	if filter == nil || len(filter.Include) == 0 {
		if !strings.HasPrefix(u.Path+"/", prefix) {
			return false
		}
	}
	return filter.Match(rawURL)
}
