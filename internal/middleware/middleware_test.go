package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/pageza/diet-insights/backend/internal/testhelpers"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	router.Use(handlers...)
	router.GET("/ok", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/missing", func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "nope"})
	})
	router.GET("/panic", func(c *gin.Context) {
		panic("boom")
	})
	return router
}

func request(router http.Handler, method, path string, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	req.RemoteAddr = "10.0.0.1:1234"
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestErrorHandler(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	router := newRouter(ErrorHandler(zap.New(core)))

	w := request(router, http.MethodGet, "/panic", nil)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Internal Server Error"}`, w.Body.String())
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "panic recovered", logs.All()[0].Message)
}

func TestRequestLogger(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	router := newRouter(RequestLogger(zap.New(core)))

	request(router, http.MethodGet, "/ok?x=1", nil)
	request(router, http.MethodGet, "/missing", nil)

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, "/ok", entries[0].ContextMap()["path"])
	assert.Equal(t, "x=1", entries[0].ContextMap()["query"])
	assert.Equal(t, int64(200), entries[0].ContextMap()["status"])
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
}

func TestCORS(t *testing.T) {
	t.Run("all origins", func(t *testing.T) {
		router := newRouter(CORS([]string{"*"}))
		w := request(router, http.MethodGet, "/ok", map[string]string{"Origin": "http://dashboard.example"})
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("preflight", func(t *testing.T) {
		router := newRouter(CORS(nil))
		w := request(router, http.MethodOptions, "/ok", map[string]string{
			"Origin":                        "http://dashboard.example",
			"Access-Control-Request-Method": "GET",
		})
		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "GET")
	})

	t.Run("listed origins", func(t *testing.T) {
		router := newRouter(CORS([]string{"http://localhost:5173"}))
		w := request(router, http.MethodGet, "/ok", map[string]string{"Origin": "http://localhost:5173"})
		assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))

		w = request(router, http.MethodGet, "/ok", map[string]string{"Origin": "http://evil.example"})
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestRateLimiterLocal(t *testing.T) {
	limiter := NewRateLimiter(nil, RateLimitConfig{Window: time.Hour, Limit: 2}, zap.NewNop())
	router := newRouter(limiter.RateLimitMiddleware())

	w := request(router, http.MethodGet, "/ok", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "1", w.Header().Get("X-RateLimit-Remaining"))

	assert.Equal(t, http.StatusOK, request(router, http.MethodGet, "/ok", nil).Code)

	w = request(router, http.MethodGet, "/ok", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))

	// another client has its own bucket
	req := httptest.NewRequest(http.MethodGet, "/ok", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	other := httptest.NewRecorder()
	router.ServeHTTP(other, req)
	assert.Equal(t, http.StatusOK, other.Code)
}

func TestRateLimiterEvictsIdleClients(t *testing.T) {
	limiter := NewRateLimiter(nil, RateLimitConfig{Window: 50 * time.Millisecond, Limit: 5}, zap.NewNop())

	for _, client := range []string{"10.0.0.1", "10.0.0.2", "10.0.0.3"} {
		allowed, _, _ := limiter.Allow(context.Background(), client)
		require.True(t, allowed)
	}
	assert.Equal(t, 3, limiter.localClients())

	time.Sleep(60 * time.Millisecond)
	allowed, remaining, _ := limiter.Allow(context.Background(), "10.0.0.4")
	assert.True(t, allowed)
	assert.Equal(t, 4, remaining)
	assert.Equal(t, 1, limiter.localClients())
}

func TestRateLimiterDisabled(t *testing.T) {
	limiter := NewRateLimiter(nil, RateLimitConfig{Window: time.Minute}, zap.NewNop())
	router := newRouter(limiter.RateLimitMiddleware())

	for range 5 {
		w := request(router, http.MethodGet, "/ok", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Header().Get("X-RateLimit-Limit"))
	}
}

func TestRateLimiterFallsBackWhenRedisFails(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 50 * time.Millisecond, MaxRetries: -1})
	t.Cleanup(func() { client.Close() })
	limiter := NewRateLimiter(client, RateLimitConfig{Window: time.Hour, Limit: 1}, zap.NewNop())
	router := newRouter(limiter.RateLimitMiddleware())

	assert.Equal(t, http.StatusOK, request(router, http.MethodGet, "/ok", nil).Code)
	assert.Equal(t, http.StatusTooManyRequests, request(router, http.MethodGet, "/ok", nil).Code)
}

func TestRateLimiterRedis(t *testing.T) {
	client := testhelpers.SetupRedis(t)
	limiter := NewRateLimiter(client, RateLimitConfig{Window: time.Hour, Limit: 3, KeyPrefix: "test"}, zap.NewNop())
	router := newRouter(limiter.RateLimitMiddleware())

	for i := range 3 {
		w := request(router, http.MethodGet, "/ok", nil)
		require.Equal(t, http.StatusOK, w.Code, i)
	}
	w := request(router, http.MethodGet, "/ok", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	allowed, remaining, reset, err := limiter.IsAllowed(t.Context(), "10.0.0.9")
	require.NoError(t, err)
	assert.True(t, allowed)
	assert.Equal(t, 2, remaining)
	assert.True(t, reset.After(time.Now()))
}
