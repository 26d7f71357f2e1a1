package api_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/edgepulse/edgepulse/server/internal/api"
	"github.com/edgepulse/edgepulse/server/internal/config"
	"github.com/edgepulse/edgepulse/server/internal/metrics"
	"github.com/edgepulse/edgepulse/server/internal/store"
)

func corsHandler(cors config.CORSConfig) http.Handler {
	cfg := config.Default().Server
	cfg.CORS = cors
	return api.New(store.New(store.Default(), store.SourceBuiltin), metrics.New(), cfg)
}

func preflight(h http.Handler, origin, method, headers string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodOptions, "/analytics", nil)
	req.Header.Set("Origin", origin)
	req.Header.Set("Access-Control-Request-Method", method)
	if headers != "" {
		req.Header.Set("Access-Control-Request-Headers", headers)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestCORS_DefaultPreflight(t *testing.T) {
	h := corsHandler(config.Default().Server.CORS)
	rr := preflight(h, "https://dash.example.com", "POST", "content-type, x-trace")

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rr.Code)
	}
	hdr := rr.Header()
	if got := hdr.Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Allow-Origin: got %q, want *", got)
	}
	if got := hdr.Get("Access-Control-Allow-Methods"); got != "POST" {
		t.Errorf("Allow-Methods: got %q, want POST", got)
	}
	if got := hdr.Get("Access-Control-Allow-Headers"); got != "content-type, x-trace" {
		t.Errorf("Allow-Headers: got %q, want requested headers echoed", got)
	}
	if got := hdr.Get("Access-Control-Max-Age"); got != "600" {
		t.Errorf("Max-Age: got %q, want 600", got)
	}
}

func TestCORS_PreflightDisallowedMethod(t *testing.T) {
	h := corsHandler(config.Default().Server.CORS)
	rr := preflight(h, "https://dash.example.com", "DELETE", "")

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want 400", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "method") {
		t.Errorf("body: got %q, want reason naming method", rr.Body.String())
	}
	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("Allow-Origin: got %q, want none", got)
	}
}

func TestCORS_PreflightDisallowedOrigin(t *testing.T) {
	h := corsHandler(config.CORSConfig{
		AllowOrigins: []string{"https://dash.example.com"},
		AllowMethods: []string{"POST"},
		AllowHeaders: []string{"Content-Type"},
	})
	rr := preflight(h, "https://evil.example.com", "POST", "")

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want 400", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "origin") {
		t.Errorf("body: got %q, want reason naming origin", rr.Body.String())
	}
}

func TestCORS_ExplicitOriginEchoed(t *testing.T) {
	h := corsHandler(config.CORSConfig{
		AllowOrigins: []string{"https://dash.example.com"},
		AllowMethods: []string{"POST"},
		AllowHeaders: []string{"Content-Type"},
	})

	rr := preflight(h, "https://dash.example.com", "POST", "x-other")
	if rr.Code != http.StatusOK {
		t.Fatalf("preflight status: got %d, want 200", rr.Code)
	}
	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "https://dash.example.com" {
		t.Errorf("Allow-Origin: got %q, want echoed origin", got)
	}
	if got := rr.Header().Get("Access-Control-Allow-Headers"); got != "Content-Type" {
		t.Errorf("Allow-Headers: got %q, want configured list", got)
	}

	req := httptest.NewRequest(http.MethodPost, "/analytics", strings.NewReader(`{"regions":["apac"],"threshold_ms":180}`))
	req.Header.Set("Origin", "https://dash.example.com")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rr.Code)
	}
	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "https://dash.example.com" {
		t.Errorf("Allow-Origin: got %q, want echoed origin", got)
	}
	if got := rr.Header().Get("Vary"); got != "Origin" {
		t.Errorf("Vary: got %q, want Origin", got)
	}
}

func TestCORS_SimpleRequest(t *testing.T) {
	h := corsHandler(config.CORSConfig{
		AllowOrigins: []string{"https://dash.example.com"},
		AllowMethods: []string{"POST"},
		AllowHeaders: []string{"*"},
	})
	tests := []struct {
		origin     string
		wantOrigin string
	}{
		{"https://dash.example.com", "https://dash.example.com"},
		{"https://evil.example.com", ""},
		{"", ""},
	}
	for _, tc := range tests {
		req := httptest.NewRequest(http.MethodPost, "/analytics", strings.NewReader(`{"regions":[],"threshold_ms":1}`))
		if tc.origin != "" {
			req.Header.Set("Origin", tc.origin)
		}
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)

		// The request is served either way; only the CORS headers differ.
		if rr.Code != http.StatusOK {
			t.Errorf("origin %q: status %d, want 200", tc.origin, rr.Code)
		}
		if got := rr.Header().Get("Access-Control-Allow-Origin"); got != tc.wantOrigin {
			t.Errorf("origin %q: Allow-Origin %q, want %q", tc.origin, got, tc.wantOrigin)
		}
	}
}

func TestCORS_PlainOptionsReachesMux(t *testing.T) {
	h := corsHandler(config.Default().Server.CORS)
	req := httptest.NewRequest(http.MethodOptions, "/analytics", nil)
	req.Header.Set("Origin", "https://dash.example.com")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status: got %d, want 405", rr.Code)
	}
}

func TestCORS_PreflightIsCounted(t *testing.T) {
	m := metrics.New()
	cfg := config.Default().Server
	h := api.New(store.New(store.Default(), store.SourceBuiltin), m, cfg)

	preflight(h, "https://dash.example.com", "POST", "")
	preflight(h, "https://dash.example.com", "DELETE", "")

	rr := httptest.NewRecorder()
	m.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := rr.Body.String()
	for _, want := range []string{
		`edgepulse_http_requests_total{code="200",path="/analytics"} 1`,
		`edgepulse_http_requests_total{code="400",path="/analytics"} 1`,
		`edgepulse_http_request_duration_seconds_count{path="/analytics"} 2`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics output missing %q\n%s", want, body)
		}
	}
}
