package http

import (
	"sync"
	"sync/atomic"
	"time"

	applog "fintrack/internal/log"
)

// rateLimiter caps mutating requests per client IP over a one-minute
// window. Entries for idle clients are evicted by a background sweep.
type rateLimiter struct {
	mu           sync.Mutex
	windows      map[string]*requestWindow
	perMinute    int
	logger       *applog.Logger
	stopCleanup  chan struct{}
	shutdownOnce sync.Once
}

type requestWindow struct {
	start    time.Time
	requests int
}

func newRateLimiter(perMinute int, logger *applog.Logger) *rateLimiter {
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	rl := &rateLimiter{
		windows:     make(map[string]*requestWindow),
		perMinute:   perMinute,
		logger:      logger.WithComponent(applog.ComponentRateLimit),
		stopCleanup: make(chan struct{}),
	}
	go rl.startCleanup()
	return rl
}

// startCleanup periodically evicts windows for clients that went quiet.
func (rl *rateLimiter) startCleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.evictStaleWindows()
		case <-rl.stopCleanup:
			return
		}
	}
}

// evictStaleWindows drops entries whose window started more than ten
// minutes ago.
func (rl *rateLimiter) evictStaleWindows() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := time.Now().Add(-10 * time.Minute)
	evicted := 0
	for ip, window := range rl.windows {
		if window.start.Before(cutoff) {
			delete(rl.windows, ip)
			evicted++
		}
	}
	if evicted > 0 {
		rl.logger.Debug("Evicted idle rate limit entries", "evicted", evicted, "remaining", len(rl.windows))
	}
}

// stop shuts down the eviction goroutine.
func (rl *rateLimiter) stop() {
	rl.shutdownOnce.Do(func() {
		close(rl.stopCleanup)
	})
}

// allow reports whether a request from the given IP fits in the current
// window. Rejections are counted in metrics and logged.
func (rl *rateLimiter) allow(clientIP string, metrics *securityMetrics) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	window, exists := rl.windows[clientIP]

	if !exists || now.Sub(window.start) > time.Minute {
		rl.windows[clientIP] = &requestWindow{start: now, requests: 1}
		return true
	}

	window.requests++
	if window.requests > rl.perMinute {
		if metrics != nil {
			atomic.AddInt64(&metrics.rateLimitHits, 1)
		}
		rl.logger.Warn("Rate limit exceeded",
			applog.FieldClientIP, clientIP,
			"requests", window.requests,
			"limit", rl.perMinute)
		return false
	}

	return true
}
