package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestRateLimit_AllowsWithinBurst(t *testing.T) {
	e := echo.New()
	e.Use(RateLimit(RateLimitConfig{RequestsPerSecond: 100, BurstSize: 5}))
	e.GET("/", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	for i := 0; i < 5; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i, rec.Code)
		}
	}
}

func TestRateLimit_RejectsBeyondBurst(t *testing.T) {
	e := echo.New()
	// Near-zero refill so the bucket does not recover during the test.
	e.Use(RateLimit(RateLimitConfig{RequestsPerSecond: 0.001, BurstSize: 2}))
	e.GET("/", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	var last *httptest.ResponseRecorder
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		last = httptest.NewRecorder()
		e.ServeHTTP(last, req)
	}

	if last.Code != http.StatusTooManyRequests {
		t.Errorf("expected 429 after burst exhausted, got %d", last.Code)
	}
	if last.Header().Get("Retry-After") == "" {
		t.Error("expected Retry-After header on 429")
	}
}

func TestTokenBucket_Refill(t *testing.T) {
	b := newTokenBucket(1000, 1)
	if !b.allow() {
		t.Fatal("expected first request allowed")
	}
	// At 1000/s the single-token bucket refills almost immediately.
	deadline := 0
	for !b.allow() {
		deadline++
		if deadline > 1_000_000 {
			t.Fatal("bucket never refilled")
		}
	}
}

func TestDefaultRateLimitConfig(t *testing.T) {
	cfg := DefaultRateLimitConfig()
	if cfg.RequestsPerSecond <= 0 || cfg.BurstSize <= 0 {
		t.Errorf("defaults must be positive, got %+v", cfg)
	}
}
