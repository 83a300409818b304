package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/taskhive/taskhive/internal/log"
)

func TestRateLimiterAllow(t *testing.T) {
	t.Run("burst then deny", func(t *testing.T) {
		rl := newRateLimiter(0, 3) // no refill, 3 token burst

		for i := 0; i < 3; i++ {
			if !rl.allow("10.0.0.1") {
				t.Fatalf("request %d denied within burst", i+1)
			}
		}
		if rl.allow("10.0.0.1") {
			t.Error("request allowed after burst exhausted")
		}
	})

	t.Run("IPs are limited independently", func(t *testing.T) {
		rl := newRateLimiter(0, 1)

		if !rl.allow("10.0.0.1") {
			t.Fatal("first IP denied its first request")
		}
		if rl.allow("10.0.0.1") {
			t.Error("first IP allowed past its burst")
		}
		if !rl.allow("10.0.0.2") {
			t.Error("second IP denied despite fresh bucket")
		}
	})
}

func TestRateLimitMiddleware(t *testing.T) {
	rl := newRateLimiter(0, 2)
	handler := rateLimitMiddleware(rl, false, log.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "203.0.113.9:1234"

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d status = %d, want 200", i+1, rec.Code)
		}
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("status = %d, want 429", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Error("Retry-After header not set")
	}
}
