package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSetMaxBodyBytes_DefaultWhenNonPositive(t *testing.T) {
	SetMaxBodyBytes(-1)
	if maxBodyBytes != 1<<20 {
		t.Fatalf("expected default 1MiB, got %d", maxBodyBytes)
	}
	SetMaxBodyBytes(0)
	if maxBodyBytes != 1<<20 {
		t.Fatalf("expected default 1MiB on zero, got %d", maxBodyBytes)
	}
}

func TestSetMaxBodyBytes_PositiveSetsValue(t *testing.T) {
	defer SetMaxBodyBytes(0)
	SetMaxBodyBytes(1234)
	if maxBodyBytes != 1234 {
		t.Fatalf("expected 1234, got %d", maxBodyBytes)
	}
}

func TestCORS_DisabledByDefault(t *testing.T) {
	SetCORSOptions(false, nil, nil, nil)
	if corsMiddleware() != nil {
		t.Fatalf("expected no CORS middleware when disabled")
	}
	r := NewMux(&mockService{})
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("Origin", "http://example.com")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("unexpected CORS header %q", got)
	}
}

func TestCORS_EnabledAllowsOrigin(t *testing.T) {
	SetCORSOptions(true, []string{"http://example.com"}, nil, nil)
	defer SetCORSOptions(false, nil, nil, nil)
	r := NewMux(&mockService{})
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("Origin", "http://example.com")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://example.com" {
		t.Fatalf("Access-Control-Allow-Origin=%q", got)
	}
}
