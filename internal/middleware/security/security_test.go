package security

import (
	"crypto/tls"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestExtractClientIP(t *testing.T) {
	d := NewDetector()
	tests := []struct {
		name       string
		remoteAddr string
		headers    map[string]string
		want       string
	}{
		{"direct public peer", "203.0.113.9:4000", map[string]string{"X-Forwarded-For": "1.2.3.4"}, "203.0.113.9"},
		{"trusted proxy with xff", "10.0.0.2:80", map[string]string{"X-Forwarded-For": "198.51.100.1, 10.0.0.2"}, "198.51.100.1"},
		{"trusted proxy with real ip", "127.0.0.1:80", map[string]string{"X-Real-IP": "198.51.100.2"}, "198.51.100.2"},
		{"trusted proxy with garbage", "192.168.1.1:80", map[string]string{"X-Forwarded-For": "not-an-ip"}, "192.168.1.1"},
		{"unparsable remote addr", "weird", nil, "weird"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			if got := d.ExtractClientIP(r); got != tt.want {
				t.Errorf("ExtractClientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDetectorMiddleware(t *testing.T) {
	d := NewDetector()
	h := d.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	tests := []struct {
		name   string
		method string
		target string
		ua     string
		want   int
	}{
		{"normal", http.MethodGet, "/api/habits", "Mozilla/5.0", http.StatusNoContent},
		{"dotenv probe", http.MethodGet, "/.env", "", http.StatusBadRequest},
		{"traversal in query", http.MethodGet, "/files?p=../../etc/passwd", "", http.StatusBadRequest},
		{"scanner agent", http.MethodGet, "/", "sqlmap/1.7", http.StatusBadRequest},
		{"trace method", "TRACE", "/", "", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(tt.method, tt.target, nil)
			r.Header.Set("User-Agent", tt.ua)
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, r)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestHeadersMiddleware(t *testing.T) {
	cfg := DefaultHeadersConfig()
	cfg.SharedPrefixes = []string{"/files/"}
	h := NewHeadersMiddleware(cfg).Middleware(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Header().Get("X-Frame-Options") != "DENY" || rec.Header().Get("Content-Security-Policy") == "" {
		t.Fatalf("missing basic headers: %v", rec.Header())
	}
	if rec.Header().Get("Cross-Origin-Resource-Policy") != "same-origin" {
		t.Fatalf("CORP = %q", rec.Header().Get("Cross-Origin-Resource-Policy"))
	}
	if rec.Header().Get("Strict-Transport-Security") != "" {
		t.Fatal("HSTS must not be sent over plain HTTP")
	}

	rec = httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/files/1-shot.png", nil)
	r.TLS = &tls.ConnectionState{}
	h.ServeHTTP(rec, r)
	if rec.Header().Get("Cross-Origin-Resource-Policy") != "cross-origin" {
		t.Fatalf("shared prefix CORP = %q", rec.Header().Get("Cross-Origin-Resource-Policy"))
	}
	if rec.Header().Get("Strict-Transport-Security") != "max-age=31536000; includeSubDomains" {
		t.Fatalf("HSTS = %q", rec.Header().Get("Strict-Transport-Security"))
	}
}
