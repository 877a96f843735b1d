package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestRateLimiterAllow(t *testing.T) {
	// 60 requests/min with a burst of 2: the first two calls pass, the
	// third is throttled.
	limiter := NewRateLimiter(60, time.Minute, 2, nil)
	defer limiter.Close()

	if !limiter.Allow("client-a") {
		t.Error("first request should be allowed")
	}
	if !limiter.Allow("client-a") {
		t.Error("second request should be allowed within burst")
	}
	if limiter.Allow("client-a") {
		t.Error("third request should exceed the burst capacity")
	}

	// A different key has its own bucket
	if !limiter.Allow("client-b") {
		t.Error("separate key should not share the exhausted bucket")
	}
}

func TestRateLimiterGetStats(t *testing.T) {
	limiter := NewRateLimiter(120, time.Minute, 5, nil)
	defer limiter.Close()

	limiter.Allow("a")
	limiter.Allow("b")

	stats := limiter.GetStats()
	if stats["active_limiters"] != 2 {
		t.Errorf("active_limiters = %v, expected 2", stats["active_limiters"])
	}
	if stats["burst_capacity"] != 5 {
		t.Errorf("burst_capacity = %v, expected 5", stats["burst_capacity"])
	}
	if stats["rate_per_minute"] != 120.0 {
		t.Errorf("rate_per_minute = %v, expected 120", stats["rate_per_minute"])
	}
}

func TestRateLimiterCleanup(t *testing.T) {
	limiter := NewRateLimiter(60, time.Minute, 1, nil)
	defer limiter.Close()

	limiter.Allow("stale")
	limiter.cleanup(0)

	stats := limiter.GetStats()
	if stats["active_limiters"] != 0 {
		t.Errorf("active_limiters = %v after cleanup, expected 0", stats["active_limiters"])
	}
}

func TestGetRateLimitKey(t *testing.T) {
	tests := []struct {
		name       string
		apiKey     string
		bearer     string
		remoteAddr string
		byAPIKey   bool
		byIP       bool
		expected   string
	}{
		{
			name:       "api key preferred",
			apiKey:     "secret",
			remoteAddr: "10.0.0.1:1234",
			byAPIKey:   true,
			byIP:       true,
			expected:   "api:secret",
		},
		{
			name:       "bearer token fallback",
			bearer:     "Bearer token123",
			remoteAddr: "10.0.0.1:1234",
			byAPIKey:   true,
			byIP:       false,
			expected:   "api:token123",
		},
		{
			name:       "ip fallback when no key",
			remoteAddr: "10.0.0.1:1234",
			byAPIKey:   true,
			byIP:       true,
			expected:   "ip:10.0.0.1",
		},
		{
			name:       "nothing enabled",
			apiKey:     "secret",
			remoteAddr: "10.0.0.1:1234",
			byAPIKey:   false,
			byIP:       false,
			expected:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/screen", nil)
			r.RemoteAddr = tt.remoteAddr
			if tt.apiKey != "" {
				r.Header.Set("X-API-Key", tt.apiKey)
			}
			if tt.bearer != "" {
				r.Header.Set("Authorization", tt.bearer)
			}

			got := getRateLimitKey(r, tt.byAPIKey, tt.byIP)
			if got != tt.expected {
				t.Errorf("getRateLimitKey() = %q, expected %q", got, tt.expected)
			}
		})
	}
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name       string
		xff        string
		xRealIP    string
		remoteAddr string
		expected   string
	}{
		{
			name:       "x-forwarded-for first valid ip",
			xff:        "203.0.113.5, 10.0.0.1",
			remoteAddr: "10.0.0.2:9999",
			expected:   "203.0.113.5",
		},
		{
			name:       "x-forwarded-for with garbage entries",
			xff:        "not-an-ip, 203.0.113.5",
			remoteAddr: "10.0.0.2:9999",
			expected:   "203.0.113.5",
		},
		{
			name:       "x-real-ip",
			xRealIP:    "198.51.100.7",
			remoteAddr: "10.0.0.2:9999",
			expected:   "198.51.100.7",
		},
		{
			name:       "remote addr fallback",
			remoteAddr: "192.0.2.4:443",
			expected:   "192.0.2.4",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/health", nil)
			r.RemoteAddr = tt.remoteAddr
			if tt.xff != "" {
				r.Header.Set("X-Forwarded-For", tt.xff)
			}
			if tt.xRealIP != "" {
				r.Header.Set("X-Real-IP", tt.xRealIP)
			}

			if got := getClientIP(r); got != tt.expected {
				t.Errorf("getClientIP() = %q, expected %q", got, tt.expected)
			}
		})
	}
}
