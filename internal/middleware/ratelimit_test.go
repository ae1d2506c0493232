package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/reelhub/reelhub/internal/cache"
)

func newRateLimitedRouter(store cache.Store, cfg RateLimitConfig) *gin.Engine {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(RateLimit(store, cfg))
	r.POST("/reset", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	return r
}

func TestRateLimitMiddleware(t *testing.T) {
	r := newRateLimitedRouter(cache.NewMemoryStore(time.Minute), RateLimitConfig{Requests: 2, Window: 100 * time.Millisecond})

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/reset", nil))
		require.Equal(t, http.StatusOK, w.Code)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/reset", nil))
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	require.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))
	require.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
	require.Contains(t, w.Body.String(), "RATE_LIMIT_EXCEEDED")

	time.Sleep(150 * time.Millisecond)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/reset", nil))
	require.Equal(t, http.StatusOK, w.Code)
}

type failingStore struct{ cache.Store }

func (failingStore) IncrementWithTTL(context.Context, string, time.Duration) (int64, time.Duration, error) {
	return 0, 0, errors.New("redis down")
}

func TestRateLimitFailsOpen(t *testing.T) {
	r := newRateLimitedRouter(failingStore{}, RateLimitConfig{Requests: 1, Window: time.Minute})

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/reset", nil))
		require.Equal(t, http.StatusOK, w.Code)
	}
}

func TestRateLimitDisabled(t *testing.T) {
	r := newRateLimitedRouter(nil, RateLimitConfig{Requests: 1, Window: time.Minute})

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/reset", nil))
		require.Equal(t, http.StatusOK, w.Code)
	}
}
