package gin

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RateLimitConfig is a per-client token bucket.
type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
}

// DefaultRateLimit allows a short burst of browses per client.
var DefaultRateLimit = RateLimitConfig{RequestsPerSecond: 2, Burst: 5}

// limiterIdleTTL is how long an unused client bucket is kept.
const limiterIdleTTL = time.Hour

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimit returns middleware that rejects clients exceeding cfg with 429.
// Clients are identified by IP. A non-positive rate disables limiting.
func RateLimit(cfg RateLimitConfig) gin.HandlerFunc {
	if cfg.RequestsPerSecond <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	burst := max(cfg.Burst, 1)

	var mu sync.Mutex
	limiters := make(map[string]*limiterEntry)

	getLimiter := func(identity string, now time.Time) *rate.Limiter {
		mu.Lock()
		defer mu.Unlock()
		// Idle buckets are swept on access.
		for id, e := range limiters {
			if now.Sub(e.lastSeen) > limiterIdleTTL {
				delete(limiters, id)
			}
		}
		entry, ok := limiters[identity]
		if !ok {
			entry = &limiterEntry{limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)}
			limiters[identity] = entry
		}
		entry.lastSeen = now
		return entry.limiter
	}

	return func(c *gin.Context) {
		if !getLimiter(c.ClientIP(), time.Now()).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, errorResponse{
				Error: "rate limit exceeded, please slow down",
				Code:  "rate_limited",
			})
			return
		}
		c.Next()
	}
}
