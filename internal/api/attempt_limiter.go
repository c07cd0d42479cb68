package api

import (
	"strings"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
)

// attemptLimiter throttles repeated failures per key (client IP) within a
// sliding window. It counts failures against a window anchored at the first
// failure; the counter resets once the window expires or on success.
type attemptLimiter struct {
	mu      sync.Mutex
	entries map[string]*attemptWindow
}

type attemptWindow struct {
	failures int
	openedAt time.Time
}

func newAttemptLimiter() *attemptLimiter {
	return &attemptLimiter{
		entries: make(map[string]*attemptWindow),
	}
}

func (limiter *attemptLimiter) tooManyRecent(key string, now time.Time, limit int, window time.Duration) bool {
	limiter.mu.Lock()
	defer limiter.mu.Unlock()

	entry, ok := limiter.entries[key]
	if !ok {
		return false
	}
	if now.Sub(entry.openedAt) > window {
		delete(limiter.entries, key)
		return false
	}
	return entry.failures >= limit
}

func (limiter *attemptLimiter) addFailure(key string, now time.Time, window time.Duration) {
	limiter.mu.Lock()
	defer limiter.mu.Unlock()

	entry, ok := limiter.entries[key]
	if !ok || now.Sub(entry.openedAt) > window {
		limiter.entries[key] = &attemptWindow{failures: 1, openedAt: now}
		return
	}
	entry.failures++
}

func (limiter *attemptLimiter) reset(key string) {
	limiter.mu.Lock()
	defer limiter.mu.Unlock()
	delete(limiter.entries, key)
}

func requestLimiterKey(c *fiber.Ctx) string {
	key := strings.TrimSpace(c.IP())
	if key == "" {
		return "unknown"
	}
	return key
}
