package crawl

import (
	"context"
	"sync"

	"github.com/fwojciec/docscout"
	"golang.org/x/time/rate"
)

var _ docscout.DomainLimiter = (*DomainLimiter)(nil)

// DefaultRequestsPerSecond is the per-host request rate of a crawl.
const DefaultRequestsPerSecond = 5

// DomainLimiter keeps one token bucket per host, so a crawl that leaves the
// root host for a CDN or docs subdomain does not throttle either side.
type DomainLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
}

// NewDomainLimiter creates a DomainLimiter allowing rps requests per second
// per host with the given burst. A burst below 1 is raised to 1.
func NewDomainLimiter(rps float64, burst int) *DomainLimiter {
	if burst < 1 {
		burst = 1
	}
	return &DomainLimiter{
		limiters: make(map[string]*rate.Limiter),
		limit:    rate.Limit(rps),
		burst:    burst,
	}
}

// Wait blocks until a request to domain is allowed or ctx is done.
func (d *DomainLimiter) Wait(ctx context.Context, domain string) error {
	return d.limiter(domain).Wait(ctx)
}

// Domains returns the number of hosts seen so far.
func (d *DomainLimiter) Domains() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.limiters)
}

func (d *DomainLimiter) limiter(domain string) *rate.Limiter {
	d.mu.Lock()
	defer d.mu.Unlock()
	l, ok := d.limiters[domain]
	if !ok {
		l = rate.NewLimiter(d.limit, d.burst)
		d.limiters[domain] = l
	}
	return l
}
