package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"

	"github.com/restspot/restspot/internal/config"
)

func rateLimitTestSetup(t *testing.T, capacity int) (echo.MiddlewareFunc, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	cfg := config.RateLimitConfig{
		Enabled:        true,
		Capacity:       capacity,
		RefillTokens:   1,
		RefillInterval: time.Hour, // effectively no refill during the test
		TTL:            10 * time.Hour,
		KeyStrategy:    "ip_route",
		Prefix:         "rl",
	}
	return NewTokenBucket(cfg, rdb), mr
}

func fireRequest(mw echo.MiddlewareFunc) *httptest.ResponseRecorder {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/complaints", nil)
	req.RemoteAddr = "203.0.113.7:1234"
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/v1/complaints")
	h := mw(func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	_ = h(c)
	return rec
}

func TestTokenBucket_Exhaustion(t *testing.T) {
	mw, _ := rateLimitTestSetup(t, 2)

	first := fireRequest(mw)
	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "2", first.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "1", first.Header().Get("X-RateLimit-Remaining"))

	second := fireRequest(mw)
	assert.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, "0", second.Header().Get("X-RateLimit-Remaining"))

	third := fireRequest(mw)
	assert.Equal(t, http.StatusTooManyRequests, third.Code)
	assert.NotEmpty(t, third.Header().Get("Retry-After"))
	assert.Contains(t, third.Body.String(), "too_many_requests")
}

func TestTokenBucket_SeparateClientsSeparateBuckets(t *testing.T) {
	mw, _ := rateLimitTestSetup(t, 1)

	e := echo.New()
	fire := func(addr string) int {
		req := httptest.NewRequest(http.MethodPost, "/v1/complaints", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetPath("/v1/complaints")
		h := mw(func(c echo.Context) error { return c.NoContent(http.StatusOK) })
		_ = h(c)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, fire("203.0.113.7:1234"))
	assert.Equal(t, http.StatusTooManyRequests, fire("203.0.113.7:5678")) // same IP, port ignored
	assert.Equal(t, http.StatusOK, fire("203.0.113.8:1234"))              // different IP, own bucket
}

func TestTokenBucket_DisabledOrNoRedis(t *testing.T) {
	cfg := config.RateLimitConfig{Enabled: false, Capacity: 1}
	mw := NewTokenBucket(cfg, nil)
	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, fireRequest(mw).Code)
	}
}

func TestTokenBucket_RedisDownPassThrough(t *testing.T) {
	mw, mr := rateLimitTestSetup(t, 1)
	mr.Close()
	// With the backend gone the limiter must not block traffic.
	assert.Equal(t, http.StatusOK, fireRequest(mw).Code)
	assert.Equal(t, http.StatusOK, fireRequest(mw).Code)
}
