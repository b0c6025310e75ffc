package middleware

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/crm/backend/internal/interfaces/http/dto"
)

func newLimiter(t *testing.T, limit int, window time.Duration) *RateLimiter {
	l := NewRateLimiter(limit, window)
	t.Cleanup(l.Stop)
	return l
}

func TestRateLimiter(t *testing.T) {
	t.Run("allows requests within limit", func(t *testing.T) {
		limiter := newLimiter(t, 5, time.Minute)
		for i := 0; i < 5; i++ {
			assert.True(t, limiter.Allow("client1"), "request %d should be allowed", i+1)
		}
	})

	t.Run("blocks requests exceeding limit", func(t *testing.T) {
		limiter := newLimiter(t, 3, time.Minute)
		for i := 0; i < 3; i++ {
			assert.True(t, limiter.Allow("client2"))
		}
		assert.False(t, limiter.Allow("client2"))
	})

	t.Run("separate limits per client", func(t *testing.T) {
		limiter := newLimiter(t, 2, time.Minute)
		assert.True(t, limiter.Allow("clientA"))
		assert.True(t, limiter.Allow("clientA"))
		assert.False(t, limiter.Allow("clientA"))
		assert.True(t, limiter.Allow("clientB"))
	})

	t.Run("resets after window", func(t *testing.T) {
		limiter := newLimiter(t, 2, 50*time.Millisecond)
		assert.True(t, limiter.Allow("client3"))
		assert.True(t, limiter.Allow("client3"))
		assert.False(t, limiter.Allow("client3"))

		time.Sleep(60 * time.Millisecond)

		assert.True(t, limiter.Allow("client3"))
	})

	t.Run("remaining returns correct count", func(t *testing.T) {
		limiter := newLimiter(t, 5, time.Minute)
		assert.Equal(t, 5, limiter.Remaining("newclient"))
		limiter.Allow("newclient")
		limiter.Allow("newclient")
		assert.Equal(t, 3, limiter.Remaining("newclient"))
	})

	t.Run("concurrent access is safe", func(t *testing.T) {
		limiter := newLimiter(t, 100, time.Minute)
		var (
			wg      sync.WaitGroup
			mu      sync.Mutex
			allowed int
		)
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

	t.Run("stop is idempotent", func(t *testing.T) {
		limiter := NewRateLimiter(1, time.Minute)
		limiter.Stop()
		assert.NotPanics(t, limiter.Stop)
	})
}

func fromIP(r http.Handler, method, path, ip string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	req.RemoteAddr = ip + ":12345"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRateLimitMiddleware(t *testing.T) {
	router := newRouter(RateLimit(newLimiter(t, 2, time.Minute)))

	for i := 0; i < 2; i++ {
		w := fromIP(router, "GET", "/test", "10.0.0.1")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))
	}

	w := fromIP(router, "GET", "/test", "10.0.0.1")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), dto.ErrCodeRateLimited)
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
	assert.Equal(t, "60", w.Header().Get("Retry-After"))

	assert.Equal(t, http.StatusOK, fromIP(router, "GET", "/test", "10.0.0.2").Code)
}

func TestRateLimitByKey(t *testing.T) {
	router := gin.New()
	router.Use(RateLimitByKey(newLimiter(t, 1, time.Minute), func(c *gin.Context) string {
		return c.GetHeader("X-Client")
	}))
	router.GET("/test", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	assert.Equal(t, http.StatusOK, do(router, "GET", "/test", map[string]string{"X-Client": "a"}).Code)
	assert.Equal(t, http.StatusTooManyRequests, do(router, "GET", "/test", map[string]string{"X-Client": "a"}).Code)
	assert.Equal(t, http.StatusOK, do(router, "GET", "/test", map[string]string{"X-Client": "b"}).Code)
}

func TestAuthRateLimit_PerRoute(t *testing.T) {
	router := gin.New()
	auth := router.Group("/auth", AuthRateLimit(newLimiter(t, 1, time.Minute)))
	auth.POST("/login", func(c *gin.Context) { c.Status(http.StatusOK) })
	auth.POST("/refresh", func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, fromIP(router, "POST", "/auth/login", "10.0.0.1").Code)
	assert.Equal(t, http.StatusTooManyRequests, fromIP(router, "POST", "/auth/login", "10.0.0.1").Code)
	assert.Equal(t, http.StatusOK, fromIP(router, "POST", "/auth/refresh", "10.0.0.1").Code)
}
