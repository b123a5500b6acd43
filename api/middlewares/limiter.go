package middlewares

import (
	"sync"
	"time"

	ttlworker "github.com/FloatTech/ttl"
	"golang.org/x/time/rate"
)

const limiterTTL = 10 * time.Minute

// ClientLimiter hands out one token bucket per client address. Idle buckets expire.
type ClientLimiter struct {
	mu      sync.Mutex
	limit   rate.Limit
	burst   int
	buckets *ttlworker.Cache[string, *rate.Limiter]
}

// NewClientLimiter returns nil when perSecond <= 0, which disables throttling.
func NewClientLimiter(perSecond float64, burst int) *ClientLimiter {
	if perSecond <= 0 {
		return nil
	}
	if burst < 1 {
		burst = 1
	}
	return &ClientLimiter{
		limit:   rate.Limit(perSecond),
		burst:   burst,
		buckets: ttlworker.NewCache[string, *rate.Limiter](limiterTTL),
	}
}

// Allow reports whether client may act now. A nil limiter allows everything.
func (l *ClientLimiter) Allow(client string) bool {
	if l == nil {
		return true
	}
	l.mu.Lock()
	bucket := l.buckets.Get(client)
	if bucket == nil {
		bucket = rate.NewLimiter(l.limit, l.burst)
	}
	// Set refreshes the expiry on every use
	l.buckets.Set(client, bucket)
	l.mu.Unlock()
	return bucket.Allow()
}
