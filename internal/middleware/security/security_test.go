package security

import (
	"crypto/tls"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClientIPResolver_ClientIP(t *testing.T) {
	resolver, err := NewClientIPResolver("203.0.113.0/24")
	if err != nil {
		t.Fatalf("NewClientIPResolver: %v", err)
	}

	tests := []struct {
		name       string
		remoteAddr string
		headers    map[string]string
		want       string
	}{
		{"direct public client", "198.51.100.7:5555", nil, "198.51.100.7"},
		{"untrusted peer cannot spoof", "198.51.100.7:5555", map[string]string{"X-Forwarded-For": "1.1.1.1"}, "198.51.100.7"},
		{"trusted proxy forwards first hop", "10.0.0.2:80", map[string]string{"X-Forwarded-For": "1.1.1.1, 10.0.0.9"}, "1.1.1.1"},
		{"extra trusted range", "203.0.113.5:80", map[string]string{"X-Real-IP": "8.8.8.8"}, "8.8.8.8"},
		{"garbage forwarded header falls back", "127.0.0.1:80", map[string]string{"X-Forwarded-For": "nope"}, "127.0.0.1"},
		{"remote addr without port", "192.168.1.10", nil, "192.168.1.10"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			if got := resolver.ClientIP(r); got != tt.want {
				t.Errorf("ClientIP() = %q, want %q", got, tt.want)
			}
		})
	}

	if _, err := NewClientIPResolver("not-a-cidr"); err == nil {
		t.Error("expected error for invalid CIDR")
	}
}

func TestHeaders(t *testing.T) {
	h := Headers(DefaultHeadersConfig())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/wallets", nil))
	for _, name := range []string{"X-Content-Type-Options", "X-Frame-Options", "Content-Security-Policy", "Cache-Control"} {
		if rec.Header().Get(name) == "" {
			t.Errorf("missing header %s", name)
		}
	}
	if rec.Header().Get("Strict-Transport-Security") != "" {
		t.Error("HSTS must only be sent over TLS")
	}

	req := httptest.NewRequest(http.MethodGet, "/api/wallets", nil)
	req.TLS = &tls.ConnectionState{}
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Header().Get("Strict-Transport-Security") == "" {
		t.Error("expected HSTS over TLS")
	}
}
