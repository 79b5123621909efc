package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestLimiter_Allow(t *testing.T) {
	l := NewLimiter(Config{RequestsPerMinute: 60, Burst: 3})
	defer l.Stop()

	base := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return base }

	for i := 0; i < 3; i++ {
		if !l.Allow("1.2.3.4") {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	if l.Allow("1.2.3.4") {
		t.Fatal("fourth request within burst window should be rejected")
	}
	if !l.Allow("5.6.7.8") {
		t.Fatal("other clients have their own bucket")
	}

	l.now = func() time.Time { return base.Add(1100 * time.Millisecond) }
	if !l.Allow("1.2.3.4") {
		t.Fatal("a token should refill after one second at 60/min")
	}
}

func TestLimiter_EvictIdle(t *testing.T) {
	l := NewLimiter(Config{RequestsPerMinute: 10, IdleTimeout: time.Minute})
	defer l.Stop()

	base := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return base }
	l.Allow("a")
	l.now = func() time.Time { return base.Add(50 * time.Second) }
	l.Allow("b")

	l.now = func() time.Time { return base.Add(90 * time.Second) }
	if n := l.evictIdle(); n != 1 {
		t.Errorf("evictIdle() = %d, want 1", n)
	}
	if l.ActiveClients() != 1 {
		t.Errorf("ActiveClients() = %d, want 1", l.ActiveClients())
	}
}

func TestLimiter_Middleware(t *testing.T) {
	l := NewLimiter(Config{RequestsPerMinute: 1, Burst: 1})
	defer l.Stop()

	h := l.Middleware(func(*http.Request) string { return "k" }, WritesOnly)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) }))

	tests := []struct {
		name   string
		method string
		want   int
	}{
		{"first write passes", http.MethodPost, http.StatusNoContent},
		{"second write is limited", http.MethodPost, http.StatusTooManyRequests},
		{"reads are never limited", http.MethodGet, http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(tt.method, "/api/transactions", nil))
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
			if tt.want == http.StatusTooManyRequests && rec.Header().Get("Retry-After") == "" {
				t.Error("missing Retry-After")
			}
		})
	}
}
