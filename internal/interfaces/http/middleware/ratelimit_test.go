package middleware

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func limitedRouter(mw gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	router.Use(mw)
	router.GET("/quotes", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	router.POST("/login", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"success": true}) })
	return router
}

func hit(router *gin.Engine, method, target, ip string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	if ip != "" {
		req.RemoteAddr = ip + ":12345"
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRateLimiter(t *testing.T) {
	t.Run("allows requests within limit", func(t *testing.T) {
		limiter := NewRateLimiter(5, time.Minute)

		for i := 0; i < 5; i++ {
			assert.True(t, limiter.Allow("client1"), "request %d should be allowed", i+1)
		}
	})

	t.Run("blocks requests exceeding limit", func(t *testing.T) {
		limiter := NewRateLimiter(3, time.Minute)

		for i := 0; i < 3; i++ {
			assert.True(t, limiter.Allow("client2"))
		}
		assert.False(t, limiter.Allow("client2"))
	})

	t.Run("separate buckets per key", func(t *testing.T) {
		limiter := NewRateLimiter(2, time.Minute)

		assert.True(t, limiter.Allow("clientA"))
		assert.True(t, limiter.Allow("clientA"))
		assert.False(t, limiter.Allow("clientA"))

		assert.True(t, limiter.Allow("clientB"))
		assert.True(t, limiter.Allow("clientB"))
	})

	t.Run("window reset restores tokens", func(t *testing.T) {
		limiter := NewRateLimiter(2, 50*time.Millisecond)

		assert.True(t, limiter.Allow("client3"))
		assert.True(t, limiter.Allow("client3"))
		assert.False(t, limiter.Allow("client3"))

		time.Sleep(60 * time.Millisecond)

		assert.True(t, limiter.Allow("client3"))
	})

	t.Run("remaining tracks consumption", func(t *testing.T) {
		limiter := NewRateLimiter(5, time.Minute)

		assert.Equal(t, 5, limiter.Remaining("newclient"))

		limiter.Allow("newclient")
		limiter.Allow("newclient")

		assert.Equal(t, 3, limiter.Remaining("newclient"))
	})

	t.Run("concurrent access admits exactly the limit", func(t *testing.T) {
		limiter := NewRateLimiter(100, time.Minute)
		var wg sync.WaitGroup
		var mu sync.Mutex
		allowed := 0

		for i := 0; i < 150; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if limiter.Allow("concurrent-client") {
					mu.Lock()
					allowed++
					mu.Unlock()
				}
			}()
		}

		wg.Wait()
		assert.Equal(t, 100, allowed)
	})
}

func TestRateLimitMiddleware(t *testing.T) {
	t.Run("passes requests within limit", func(t *testing.T) {
		router := limitedRouter(RateLimit(NewRateLimiter(3, time.Minute)))

		for i := 0; i < 3; i++ {
			assert.Equal(t, http.StatusOK, hit(router, "GET", "/quotes", "").Code)
		}
	})

	t.Run("returns 429 when limit exceeded", func(t *testing.T) {
		router := limitedRouter(RateLimit(NewRateLimiter(2, time.Minute)))

		hit(router, "GET", "/quotes", "")
		hit(router, "GET", "/quotes", "")
		w := hit(router, "GET", "/quotes", "")

		assert.Equal(t, http.StatusTooManyRequests, w.Code)
		assert.Contains(t, w.Body.String(), "ERR_RATE_LIMITED")
	})

	t.Run("sets rate limit headers on allowed requests", func(t *testing.T) {
		router := limitedRouter(RateLimit(NewRateLimiter(10, time.Minute)))

		w := hit(router, "GET", "/quotes", "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "10", w.Header().Get("X-RateLimit-Limit"))
		assert.Equal(t, "9", w.Header().Get("X-RateLimit-Remaining"))
	})
}

func TestRateLimitByKey(t *testing.T) {
	t.Run("buckets by submitted email", func(t *testing.T) {
		limiter := NewRateLimiter(1, time.Minute)
		router := limitedRouter(RateLimitByKey(limiter, func(c *gin.Context) string {
			return c.Query("email")
		}))

		assert.Equal(t, http.StatusOK, hit(router, "GET", "/quotes?email=cliente@example.com", "").Code)
		assert.Equal(t, http.StatusTooManyRequests, hit(router, "GET", "/quotes?email=cliente@example.com", "").Code)

		// A different email has its own bucket
		assert.Equal(t, http.StatusOK, hit(router, "GET", "/quotes?email=outro@example.com", "").Code)
	})
}

func TestAuthRateLimit(t *testing.T) {
	t.Run("allows attempts within the auth budget", func(t *testing.T) {
		router := limitedRouter(AuthRateLimit(NewRateLimiter(5, time.Minute)))

		for i := 0; i < 5; i++ {
			w := hit(router, "POST", "/login", "192.168.1.100")
			assert.Equal(t, http.StatusOK, w.Code, "attempt %d should be allowed", i+1)
		}
	})

	t.Run("blocked attempts get the auth-specific code", func(t *testing.T) {
		router := limitedRouter(AuthRateLimit(NewRateLimiter(3, time.Minute)))

		for i := 0; i < 3; i++ {
			assert.Equal(t, http.StatusOK, hit(router, "POST", "/login", "192.168.1.100").Code)
		}

		w := hit(router, "POST", "/login", "192.168.1.100")
		assert.Equal(t, http.StatusTooManyRequests, w.Code)
		assert.Contains(t, w.Body.String(), "AUTH_RATE_LIMIT_EXCEEDED")
		assert.Contains(t, w.Body.String(), "Too many authentication attempts")
	})

	t.Run("sets rate limit headers", func(t *testing.T) {
		router := limitedRouter(AuthRateLimit(NewRateLimiter(5, time.Minute)))

		w := hit(router, "POST", "/login", "192.168.1.100")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "5", w.Header().Get("X-RateLimit-Limit"))
		assert.Equal(t, "4", w.Header().Get("X-RateLimit-Remaining"))
	})

	t.Run("blocked responses carry Retry-After", func(t *testing.T) {
		router := limitedRouter(AuthRateLimit(NewRateLimiter(1, time.Minute)))

		hit(router, "POST", "/login", "192.168.1.100")
		w := hit(router, "POST", "/login", "192.168.1.100")

		assert.Equal(t, http.StatusTooManyRequests, w.Code)
		assert.Equal(t, "60", w.Header().Get("Retry-After"))
	})

	t.Run("buckets per IP address", func(t *testing.T) {
		router := limitedRouter(AuthRateLimit(NewRateLimiter(2, time.Minute)))

		assert.Equal(t, http.StatusOK, hit(router, "POST", "/login", "192.168.1.1").Code)
		assert.Equal(t, http.StatusOK, hit(router, "POST", "/login", "192.168.1.1").Code)
		assert.Equal(t, http.StatusTooManyRequests, hit(router, "POST", "/login", "192.168.1.1").Code)

		assert.Equal(t, http.StatusOK, hit(router, "POST", "/login", "192.168.1.2").Code)
	})

	t.Run("auth prefix keeps login attempts out of the global bucket", func(t *testing.T) {
		globalLimiter := NewRateLimiter(100, time.Minute)
		authLimiter := NewRateLimiter(2, time.Minute)

		router := gin.New()
		authGroup := router.Group("/auth")
		authGroup.Use(AuthRateLimit(authLimiter))
		authGroup.POST("/login", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"success": true}) })
		router.Use(RateLimit(globalLimiter))
		router.GET("/api/services", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"items": []string{}}) })

		for i := 0; i < 2; i++ {
			assert.Equal(t, http.StatusOK, hit(router, "POST", "/auth/login", "192.168.1.100").Code)
		}
		assert.Equal(t, http.StatusTooManyRequests, hit(router, "POST", "/auth/login", "192.168.1.100").Code)

		// The rest of the API is unaffected by the exhausted auth budget.
		assert.Equal(t, http.StatusOK, hit(router, "GET", "/api/services", "192.168.1.100").Code)
	})
}
