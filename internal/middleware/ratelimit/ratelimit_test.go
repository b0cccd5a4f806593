package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"go.uber.org/goleak"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func TestLimiter_Allow(t *testing.T) {
	defer goleak.VerifyNone(t)

	clock := &fakeClock{t: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
	rl := NewLimiter(Config{RequestsPerMinute: 2, Now: clock.Now})
	defer rl.Stop()

	if !rl.Allow("a") || !rl.Allow("a") {
		t.Fatal("first two requests should pass")
	}
	if rl.Allow("a") {
		t.Fatal("third request in the window should be limited")
	}
	if !rl.Allow("b") {
		t.Fatal("other clients have their own window")
	}

	clock.Advance(30 * time.Second)
	if got := rl.RetryAfter("a"); got != 30*time.Second {
		t.Fatalf("RetryAfter = %v, want 30s", got)
	}

	clock.Advance(30 * time.Second)
	if !rl.Allow("a") {
		t.Fatal("a new window should reset the count")
	}

	clock.Advance(11 * time.Minute)
	rl.cleanupStaleEntries()
	if n := rl.ActiveClients(); n != 0 {
		t.Fatalf("ActiveClients = %d after cleanup, want 0", n)
	}
}

func TestLimiter_StopIdempotent(t *testing.T) {
	defer goleak.VerifyNone(t)

	rl := NewLimiter(DefaultConfig())
	rl.Stop()
	rl.Stop()
}

func TestMiddleware(t *testing.T) {
	defer goleak.VerifyNone(t)

	clock := &fakeClock{t: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
	rl := NewLimiter(Config{RequestsPerMinute: 1, MutatingOnly: true, Now: clock.Now})
	defer rl.Stop()

	h := rl.Middleware(func(*http.Request) string { return "10.1.1.1" })(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) }))

	do := func(method string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(method, "/api/split", nil))
		return rec
	}

	for i := 0; i < 5; i++ {
		if rec := do(http.MethodGet); rec.Code != http.StatusOK {
			t.Fatalf("GET %d limited: %d", i, rec.Code)
		}
	}
	if rec := do(http.MethodPost); rec.Code != http.StatusOK {
		t.Fatalf("first POST = %d", rec.Code)
	}
	rec := do(http.MethodPost)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second POST = %d, want 429", rec.Code)
	}
	if rec.Header().Get("Retry-After") != "61" {
		t.Fatalf("Retry-After = %q, want 61", rec.Header().Get("Retry-After"))
	}
}
