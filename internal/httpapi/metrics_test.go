package httpapi

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func scrape(t *testing.T) []byte {
	t.Helper()
	mrr := httptest.NewRecorder()
	promhttp.Handler().ServeHTTP(mrr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if mrr.Code != http.StatusOK {
		t.Fatalf("/metrics status=%d", mrr.Code)
	}
	return mrr.Body.Bytes()
}

// TestMetricsMiddleware_EmitsRequestCounters verifies that wrapping a handler
// with MetricsMiddleware results in request metrics being exposed via the
// Prometheus /metrics handler.
func TestMetricsMiddleware_EmitsRequestCounters(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	rr := httptest.NewRecorder()
	MetricsMiddleware(next).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/test", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	body := scrape(t)
	if !bytes.Contains(body, []byte("composegen_http_requests_total")) {
		previewLen := len(body)
		if previewLen > 200 {
			previewLen = 200
		}
		t.Fatalf("expected composegen_http_requests_total in metrics; got: %q", string(body[:previewLen]))
	}
}

func TestMetricsMiddleware_UsesRoutePattern(t *testing.T) {
	r := NewMux(&mockService{})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	if got := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("/healthz", http.MethodGet, "200")); got < 1 {
		t.Fatalf("expected /healthz counter, got %v", got)
	}
}

func TestMetricsMiddleware_UnknownPathsShareOneLabel(t *testing.T) {
	r := NewMux(&mockService{})
	for _, p := range []string{"/no-such-route-a", "/no-such-route-b"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, p, nil))
		if w.Code != http.StatusNotFound {
			t.Fatalf("%s: status=%d", p, w.Code)
		}
	}
	if got := testutil.ToFloat64(httpRequestsTotal.WithLabelValues(unmatchedRoute, http.MethodGet, "404")); got < 2 {
		t.Fatalf("expected unmatched counter >= 2, got %v", got)
	}
	if got := testutil.ToFloat64(httpInflight.WithLabelValues(unmatchedRoute)); got != 0 {
		t.Fatalf("unmatched inflight gauge should settle at 0, got %v", got)
	}
	body := string(scrape(t))
	if strings.Contains(body, "no-such-route") {
		t.Fatalf("raw path leaked into metric labels")
	}
}

func TestMatchRoute(t *testing.T) {
	var seen string
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			seen = matchRoute(req)
			next.ServeHTTP(w, req)
		})
	})
	r.Get("/items/{id}", func(w http.ResponseWriter, req *http.Request) {})
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/items/42", nil))
	if seen != "/items/{id}" {
		t.Fatalf("matched %q", seen)
	}
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/other/42", nil))
	if seen != unmatchedRoute {
		t.Fatalf("unmatched path gave %q", seen)
	}
	if got := matchRoute(httptest.NewRequest(http.MethodGet, "/x", nil)); got != unmatchedRoute {
		t.Fatalf("no router gave %q", got)
	}
}

func TestMetricsEndpoint_Served(t *testing.T) {
	r := NewMux(&mockService{})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "composegen_http_inflight_requests") {
		t.Fatalf("metrics body missing inflight gauge")
	}
}

func TestItoa(t *testing.T) {
	for in, want := range map[int]string{0: "0", 7: "7", 200: "200", 404: "404"} {
		if got := itoa(in); got != want {
			t.Fatalf("itoa(%d)=%q want %q", in, got, want)
		}
	}
}
