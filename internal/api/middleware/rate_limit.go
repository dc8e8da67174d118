package middleware

import (
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"qualifier/internal/pkg/errors"
)

type RateLimiter struct {
	limit int
	now   func() time.Time

	mu      sync.Mutex
	buckets map[string]*Bucket
}

type Bucket struct {
	tokens     int
	lastRefill time.Time
	// We need to know when it was last accessed to clean it up
	lastAccess time.Time
}

const bucketIdleTTL = 10 * time.Minute

// NewRateLimiter allows limit requests per minute per key. A limit of zero
// or less disables limiting.
func NewRateLimiter(limit int) *RateLimiter {
	return &RateLimiter{
		limit:   limit,
		now:     time.Now,
		buckets: make(map[string]*Bucket),
	}
}

func (rl *RateLimiter) Allow(key string) bool {
	if rl.limit <= 0 {
		return true
	}

	now := rl.now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.prune(now)

	bucket, ok := rl.buckets[key]
	if !ok {
		bucket = &Bucket{tokens: rl.limit, lastRefill: now}
		rl.buckets[key] = bucket
	}
	bucket.lastAccess = now

	// Refill bucket
	elapsed := now.Sub(bucket.lastRefill)

	// Rate is limit / 60 seconds
	refillRate := float64(rl.limit) / 60.0
	refillTokens := int(elapsed.Seconds() * refillRate)

	if refillTokens > 0 {
		if bucket.tokens+refillTokens > rl.limit {
			bucket.tokens = rl.limit
		} else {
			bucket.tokens += refillTokens
		}
		bucket.lastRefill = now
	}

	// Check availability
	if bucket.tokens > 0 {
		bucket.tokens--
		return true
	}

	return false
}

func (rl *RateLimiter) prune(now time.Time) {
	for key, bucket := range rl.buckets {
		if now.Sub(bucket.lastAccess) > bucketIdleTTL {
			delete(rl.buckets, key)
		}
	}
}

// Handle limits requests per client address and route name.
func (rl *RateLimiter) Handle(route string) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			ip, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				ip = r.RemoteAddr
			}

			if !rl.Allow(fmt.Sprintf("%s:%s", ip, route)) {
				w.Header().Set("Retry-After", "60")
				errors.WriteError(w, http.StatusTooManyRequests, errors.ErrCodeRateLimited, "Rate limit exceeded", nil)
				return
			}

			next(w, r)
		}
	}
}
