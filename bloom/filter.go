// Package bloom tracks visited crawl URLs with a Bloom filter.
package bloom

import (
	"sync"

	"github.com/bits-and-blooms/bloom/v3"
)

// Filter is a probabilistic set of URLs. A URL reported as new is
// guaranteed unseen; a URL reported as seen is unseen with probability
// at most the configured false positive rate.
//
// Filter is safe for concurrent use.
type Filter struct {
	mu sync.Mutex
	f  *bloom.BloomFilter
}

// NewFilter creates a filter sized for n expected URLs with the given
// false positive rate.
func NewFilter(n uint, fpRate float64) *Filter {
	return &Filter{f: bloom.NewWithEstimates(n, fpRate)}
}

// Visit records url and reports whether it was new.
func (f *Filter) Visit(url string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return !f.f.TestAndAddString(url)
}

// Seen reports whether url might have been visited.
func (f *Filter) Seen(url string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.f.TestString(url)
}

// Count returns the approximate number of distinct URLs visited.
func (f *Filter) Count() uint {
	f.mu.Lock()
	defer f.mu.Unlock()
	return uint(f.f.ApproximatedSize())
}
