package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// RateLimiter is an in-memory fixed-window limiter. One instance guards
// the whole API, a second stricter one guards the login endpoints; state
// is per process, which is fine for a single-server deployment.
type RateLimiter struct {
	mu          sync.Mutex
	clients     map[string]*client
	limit       int
	window      time.Duration
	cleanupTick time.Duration
}

type client struct {
	tokens    int
	lastReset time.Time
}

// NewRateLimiter allows limit requests per key per window. A background
// goroutine evicts keys idle for two windows so the map does not grow
// with every IP that ever connected.
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		clients:     make(map[string]*client),
		limit:       limit,
		window:      window,
		cleanupTick: window * 2,
	}
	go rl.cleanup()
	return rl
}

func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(rl.cleanupTick)
	defer ticker.Stop()

	for range ticker.C {
		rl.mu.Lock()
		now := time.Now()
		for key, c := range rl.clients {
			if now.Sub(c.lastReset) > rl.window*2 {
				delete(rl.clients, key)
			}
		}
		rl.mu.Unlock()
	}
}

// Allow consumes one token for key, reporting whether the request may
// proceed. The window restarts on first use and on expiry.
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	c, exists := rl.clients[key]
	if !exists {
		rl.clients[key] = &client{tokens: rl.limit - 1, lastReset: now}
		return true
	}

	if now.Sub(c.lastReset) >= rl.window {
		c.tokens = rl.limit - 1
		c.lastReset = now
		return true
	}

	if c.tokens > 0 {
		c.tokens--
		return true
	}
	return false
}

// Remaining reports how many requests key has left in the current window.
func (rl *RateLimiter) Remaining(key string) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	c, exists := rl.clients[key]
	if !exists || time.Since(c.lastReset) >= rl.window {
		return rl.limit
	}
	return c.tokens
}

func rateLimitExceeded(c *gin.Context, code, message string) {
	c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
		"success": false,
		"error":   gin.H{"code": code, "message": message},
	})
}

func setRateLimitHeaders(c *gin.Context, limiter *RateLimiter, key string) {
	c.Header("X-RateLimit-Limit", strconv.Itoa(limiter.limit))
	c.Header("X-RateLimit-Remaining", strconv.Itoa(limiter.Remaining(key)))
}

// RateLimit limits by client IP across the whole API. The proxy chain is
// constrained by trusted proxies, so ClientIP is not spoofable here.
func RateLimit(limiter *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP()

		if !limiter.Allow(key) {
			rateLimitExceeded(c, "ERR_RATE_LIMITED", "Too many requests. Please try again later.")
			return
		}

		setRateLimitHeaders(c, limiter, key)
		c.Next()
	}
}

// AuthRateLimit is the stricter limiter for the login endpoints. Keys are
// prefixed so login attempts do not consume the global per-IP budget, and
// blocked responses carry a Retry-After header.
func AuthRateLimit(limiter *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := "auth:" + c.ClientIP()

		if !limiter.Allow(key) {
			c.Header("Retry-After", strconv.Itoa(int(limiter.window.Seconds())))
			rateLimitExceeded(c, "AUTH_RATE_LIMIT_EXCEEDED", "Too many authentication attempts. Please try again later.")
			return
		}

		setRateLimitHeaders(c, limiter, key)
		c.Next()
	}
}

// RateLimitByKey limits on a caller-derived key. Useful for keying login
// attempts on the submitted email instead of the IP.
func RateLimitByKey(limiter *RateLimiter, keyFunc func(*gin.Context) string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiter.Allow(keyFunc(c)) {
			rateLimitExceeded(c, "ERR_RATE_LIMITED", "Too many requests. Please try again later.")
			return
		}
		c.Next()
	}
}
