package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func passthrough() (http.Handler, *bool) {
	called := false
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}), &called
}

func TestIdentityExtraction(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/query", nil)
	if got := Identity(r); got != "" {
		t.Fatalf("identity without header = %q, want empty", got)
	}
	r.Header.Set(IdentityHeader, "  alice  ")
	if got := Identity(r); got != "alice" {
		t.Fatalf("identity = %q, want trimmed value", got)
	}
}

func TestIdentityContextRoundTrip(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/query", nil)
	ctx := ContextWithIdentity(r.Context(), "bob")
	if got := IdentityFromContext(ctx); got != "bob" {
		t.Fatalf("got %q, want bob", got)
	}
	if got := IdentityFromContext(r.Context()); got != "" {
		t.Fatalf("got %q from bare context, want empty", got)
	}
}

func TestGatewayStashesIdentity(t *testing.T) {
	var seen string
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = IdentityFromContext(r.Context())
	})
	h := GatewayMiddleware(SecConfig{})(inner)

	r := httptest.NewRequest(http.MethodPost, "/query", nil)
	r.Header.Set(IdentityHeader, "carol")
	h.ServeHTTP(httptest.NewRecorder(), r)
	if seen != "carol" {
		t.Fatalf("handler saw identity %q, want carol", seen)
	}
}

func TestGatewayIPWhitelist(t *testing.T) {
	inner, called := passthrough()
	h := GatewayMiddleware(SecConfig{IPWhitelist: []string{"10.1.1.1"}})(inner)

	r := httptest.NewRequest(http.MethodPost, "/query", nil)
	r.RemoteAddr = "192.0.2.9:4444"
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, r)
	if rr.Code != http.StatusForbidden || *called {
		t.Fatalf("non-whitelisted ip passed: status=%d called=%v", rr.Code, *called)
	}

	r = httptest.NewRequest(http.MethodPost, "/query", nil)
	r.RemoteAddr = "10.1.1.1:4444"
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, r)
	if rr.Code != http.StatusOK || !*called {
		t.Fatalf("whitelisted ip blocked: status=%d called=%v", rr.Code, *called)
	}
}

func TestGatewayCORSPreflight(t *testing.T) {
	inner, called := passthrough()
	h := GatewayMiddleware(SecConfig{AllowedOrigins: []string{"https://app.example"}})(inner)

	r := httptest.NewRequest(http.MethodOptions, "/config", nil)
	r.Header.Set("Origin", "https://app.example")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, r)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("preflight status = %d, want 204", rr.Code)
	}
	if *called {
		t.Fatalf("preflight reached the handler")
	}
	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "https://app.example" {
		t.Fatalf("allow-origin = %q", got)
	}

	// disallowed origin gets no CORS headers
	r = httptest.NewRequest(http.MethodOptions, "/config", nil)
	r.Header.Set("Origin", "https://evil.example")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, r)
	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("disallowed origin got allow-origin %q", got)
	}
}

func TestGatewayRateLimit(t *testing.T) {
	inner, _ := passthrough()
	h := GatewayMiddleware(SecConfig{RPS: 1, Burst: 1})(inner)

	limited := false
	for i := 0; i < 5; i++ {
		r := httptest.NewRequest(http.MethodPost, "/query", nil)
		r.Header.Set(IdentityHeader, "dave")
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, r)
		if rr.Code == http.StatusTooManyRequests {
			limited = true
		}
	}
	if !limited {
		t.Fatalf("burst of requests was never rate limited")
	}
}

func TestGatewayHealthBypass(t *testing.T) {
	inner, called := passthrough()
	h := GatewayMiddleware(SecConfig{IPWhitelist: []string{"10.1.1.1"}})(inner)

	r := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	r.RemoteAddr = "192.0.2.9:4444"
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, r)
	if *called {
		t.Fatalf("ip whitelist should still apply before the health bypass")
	}
	_ = rr
}
