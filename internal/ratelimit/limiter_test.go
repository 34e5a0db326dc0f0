// internal/ratelimit/limiter_test.go
package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// fakeClock for deterministic window tests.
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestLimiter(max int) (*Limiter, *fakeClock) {
	clock := &fakeClock{now: time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)}
	l := New(&Config{Window: time.Minute, MaxPerWindow: max, Clock: clock})
	return l, clock
}

func TestCheckAllowsWithinLimit(t *testing.T) {
	l, _ := newTestLimiter(3)
	defer l.Close()

	for i := 0; i < 3; i++ {
		if result := l.Check("1.2.3.4"); !result.Allowed {
			t.Fatalf("request %d denied", i+1)
		}
	}
	result := l.Check("1.2.3.4")
	if result.Allowed {
		t.Fatal("request over limit allowed")
	}
	if result.RetryAfter <= 0 || result.RetryAfter > time.Minute {
		t.Errorf("RetryAfter = %v", result.RetryAfter)
	}
}

func TestCheckWindowResets(t *testing.T) {
	l, clock := newTestLimiter(1)
	defer l.Close()

	l.Check("1.2.3.4")
	if l.Check("1.2.3.4").Allowed {
		t.Fatal("second request in window allowed")
	}

	clock.advance(time.Minute)
	if !l.Check("1.2.3.4").Allowed {
		t.Fatal("request after window reset denied")
	}
}

func TestCheckSeparatesIPs(t *testing.T) {
	l, _ := newTestLimiter(1)
	defer l.Close()

	l.Check("1.2.3.4")
	if !l.Check("5.6.7.8").Allowed {
		t.Fatal("unrelated IP denied")
	}
}

func TestMiddlewarePassesReads(t *testing.T) {
	l, _ := newTestLimiter(0)
	defer l.Close()

	handler := l.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/sports", nil))
	if w.Code != http.StatusOK {
		t.Errorf("GET status = %d", w.Code)
	}
}

func TestMiddlewareLimitsWrites(t *testing.T) {
	l, _ := newTestLimiter(1)
	defer l.Close()

	handler := l.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/sports/add-team", nil)
	req.RemoteAddr = "1.2.3.4:555"

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("first POST status = %d", w.Code)
	}

	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("second POST status = %d, want 429", w.Code)
	}
	if w.Header().Get("Retry-After") == "" {
		t.Error("missing Retry-After header")
	}
}

func TestGetClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "9.9.9.9:1234"
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")

	if ip := GetClientIP(req, false); ip != "9.9.9.9" {
		t.Errorf("untrusted proxy ip = %q", ip)
	}
	if ip := GetClientIP(req, true); ip != "203.0.113.7" {
		t.Errorf("trusted proxy ip = %q", ip)
	}
}
