package crawl

import (
	"container/heap"
	"strings"
	"sync"

	"github.com/fwojciec/docscout"
	"github.com/fwojciec/docscout/bloom"
)

// Frontier is an in-memory crawl queue. Links are popped by priority, then
// by depth, then in push order. A Bloom filter rejects URLs pushed before.
// It is safe for concurrent use by multiple goroutines.
type Frontier struct {
	mu    sync.Mutex
	seen  *bloom.Filter
	queue *linkHeap
	seq   int
}

// NewFrontier creates a Frontier sized for n expected URLs with the given
// false positive rate for deduplication.
func NewFrontier(n uint, fpRate float64) *Frontier {
	h := &linkHeap{}
	heap.Init(h)
	return &Frontier{
		seen:  bloom.NewFilter(n, fpRate),
		queue: h,
	}
}

// Push queues a link and returns false if its URL was seen before. URLs
// differing only by fragment are the same URL.
func (f *Frontier) Push(link docscout.DiscoveredLink) bool {
	link.URL = stripFragment(link.URL)

	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.seen.Visit(link.URL) {
		return false
	}
	heap.Push(f.queue, queuedLink{link: link, seq: f.seq})
	f.seq++
	return true
}

// Pop returns the next link. The bool result is false if the frontier is
// empty.
func (f *Frontier) Pop() (docscout.DiscoveredLink, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.queue.Len() == 0 {
		return docscout.DiscoveredLink{}, false
	}
	q, _ := heap.Pop(f.queue).(queuedLink)
	return q.link, true
}

// Len returns the number of queued links.
func (f *Frontier) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.queue.Len()
}

// Seen reports whether rawURL was pushed before.
func (f *Frontier) Seen(rawURL string) bool {
	return f.seen.Seen(stripFragment(rawURL))
}

func stripFragment(rawURL string) string {
	if idx := strings.IndexByte(rawURL, '#'); idx != -1 {
		return rawURL[:idx]
	}
	return rawURL
}

type queuedLink struct {
	link docscout.DiscoveredLink
	seq  int
}

// linkHeap is a max-heap on priority with shallow, early links first among
// equals.
type linkHeap []queuedLink

func (h linkHeap) Len() int { return len(h) }

func (h linkHeap) Less(i, j int) bool {
	a, b := h[i], h[j]
	if a.link.Priority != b.link.Priority {
		return a.link.Priority > b.link.Priority
	}
	if a.link.Depth != b.link.Depth {
		return a.link.Depth < b.link.Depth
	}
	return a.seq < b.seq
}

func (h linkHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *linkHeap) Push(x any) {
	q, _ := x.(queuedLink)
	*h = append(*h, q)
}

func (h *linkHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[0 : n-1]
	return x
}
