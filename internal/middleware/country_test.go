package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestResolveCountryPrefersProxyHeaders(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("CF-IPCountry", "de")
	lookup := func(ip string) (string, error) { return "US", nil }
	if got := ResolveCountry(req, lookup); got != "DE" {
		t.Fatalf("country = %q, want DE", got)
	}
}

func TestResolveCountryFallsBackToLookup(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "203.0.113.1:1234"
	lookup := func(ip string) (string, error) {
		if ip != "203.0.113.1" {
			return "", fmt.Errorf("unexpected ip %s", ip)
		}
		return "fr", nil
	}
	if got := ResolveCountry(req, lookup); got != "FR" {
		t.Fatalf("country = %q, want FR", got)
	}
	if got := ResolveCountry(req, nil); got != "" {
		t.Fatalf("country without lookup = %q, want empty", got)
	}
}

func TestCountryMiddlewareTagsContext(t *testing.T) {
	var got string
	handler := Country(func(ip string) (string, error) { return "JP", nil })(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got = CountryFromContext(r.Context())
		}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "203.0.113.9:443"
	handler.ServeHTTP(httptest.NewRecorder(), req)
	if got != "JP" {
		t.Fatalf("context country = %q, want JP", got)
	}
}
