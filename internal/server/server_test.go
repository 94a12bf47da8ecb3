package server

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pageza/diet-insights/backend/config"
	"github.com/pageza/diet-insights/backend/internal/analytics"
	"github.com/pageza/diet-insights/backend/internal/dataset"
	"github.com/pageza/diet-insights/backend/internal/middleware"
	"github.com/pageza/diet-insights/backend/internal/service"
)

func newTestServer(t *testing.T, cfg *config.Config, limiter *middleware.RateLimiter) *Server {
	t.Helper()
	cfg.Analytics.ApplyDefaults()
	src := dataset.NewStaticSource([]analytics.Recipe{
		{Name: "Steak Salad", DietType: "keto", CuisineType: "american", Protein: 40, Carbs: 5, Fat: 30},
		{Name: "Lentil Curry", DietType: "vegan", CuisineType: "indian", Protein: 18, Carbs: 50, Fat: 6},
	})
	svc := service.NewInsightsService(src, nil, cfg.Analytics, zap.NewNop())
	return New(cfg, svc, limiter, zap.NewNop())
}

func TestNew(t *testing.T) {
	cfg := &config.Config{
		ServerHost:  "localhost",
		ServerPort:  "8080",
		CORSOrigins: []string{"*"},
	}
	server := newTestServer(t, cfg, nil)
	require.NotNil(t, server)
	assert.Equal(t, "localhost:8080", server.http.Addr)

	// Test health check endpoint
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "http://dashboard.example")
	server.Handler().ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))

	w = httptest.NewRecorder()
	server.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/pie-chart", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRateLimitAppliesToAnalyticsOnly(t *testing.T) {
	cfg := &config.Config{ServerHost: "localhost", ServerPort: "8080"}
	limiter := middleware.NewRateLimiter(nil, middleware.RateLimitConfig{Window: time.Hour, Limit: 1}, zap.NewNop())
	server := newTestServer(t, cfg, limiter)

	call := func(path string) int {
		w := httptest.NewRecorder()
		server.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		return w.Code
	}
	assert.Equal(t, http.StatusOK, call("/summary"))
	assert.Equal(t, http.StatusTooManyRequests, call("/api/v1/summary"))
	assert.Equal(t, http.StatusOK, call("/health"))
}

func TestStartAndShutdown(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := l.Addr().(*net.TCPAddr).Port
	require.NoError(t, l.Close())

	cfg := &config.Config{ServerHost: "127.0.0.1", ServerPort: strconv.Itoa(port)}
	server := newTestServer(t, cfg, nil)

	errCh := make(chan error, 1)
	go func() { errCh <- server.Start() }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + cfg.Addr() + "/health")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 20*time.Millisecond)

	require.NoError(t, server.Shutdown(context.Background()))
	assert.NoError(t, <-errCh)
}
