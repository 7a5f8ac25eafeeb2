package fangs

import (
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/yourusername/levin/core"
	"github.com/yourusername/levin/router"
)

// RateLimitConfig mirrors bolt/middleware/ratelimit.go's RateLimitConfig,
// with the hand-rolled tokenBucket swapped for golang.org/x/time/rate —
// see DESIGN.md.
type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
	KeyFunc           func(*core.Context) string
	CleanupInterval   time.Duration
	MaxAge            time.Duration
}

// DefaultRateLimitConfig limits to 100 req/s, burst 20, keyed by remote
// address.
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		RequestsPerSecond: 100,
		Burst:             20,
		KeyFunc:           remoteAddrKey,
		CleanupInterval:   time.Minute,
		MaxAge:            5 * time.Minute,
	}
}

func remoteAddrKey(c *core.Context) string { return c.Request.RemoteAddr }

type limiterEntry struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// RateLimit builds a FrontFang applying a per-key token bucket
// (golang.org/x/time/rate.Limiter) and a background goroutine evicting
// idle keys, grounded on bolt/middleware/ratelimit.go's limiterStore/
// cleanup shape.
func RateLimit(config RateLimitConfig) router.Fang {
	if config.RequestsPerSecond == 0 {
		config.RequestsPerSecond = 100
	}
	if config.Burst == 0 {
		config.Burst = 20
	}
	if config.KeyFunc == nil {
		config.KeyFunc = remoteAddrKey
	}
	if config.CleanupInterval == 0 {
		config.CleanupInterval = time.Minute
	}
	if config.MaxAge == 0 {
		config.MaxAge = 5 * time.Minute
	}

	rl := &rateLimit{
		keyFunc: config.KeyFunc,
		rate:    rate.Limit(config.RequestsPerSecond),
		burst:   config.Burst,
		maxAge:  config.MaxAge,
		entries: make(map[string]*limiterEntry),
	}
	go rl.cleanupLoop(config.CleanupInterval)
	return rl
}

type rateLimit struct {
	keyFunc func(*core.Context) string
	rate    rate.Limit
	burst   int
	maxAge  time.Duration

	mu      sync.Mutex
	entries map[string]*limiterEntry
}

func (*rateLimit) ID() string { return "levin.fangs.ratelimit" }

func (rl *rateLimit) Before(c *core.Context) error {
	key := rl.keyFunc(c)
	if !rl.limiterFor(key).Allow() {
		c.Response.WithHeader(core.ResRetryAfter, "1")
		return core.ErrTooManyRequests
	}
	return nil
}

func (rl *rateLimit) limiterFor(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	e, ok := rl.entries[key]
	if !ok {
		e = &limiterEntry{limiter: rate.NewLimiter(rl.rate, rl.burst)}
		rl.entries[key] = e
	}
	e.lastAccess = time.Now()
	return e.limiter
}

func (rl *rateLimit) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for now := range ticker.C {
		rl.mu.Lock()
		for key, e := range rl.entries {
			if now.Sub(e.lastAccess) > rl.maxAge {
				delete(rl.entries, key)
			}
		}
		rl.mu.Unlock()
	}
}
