package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "composegen",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"path", "method", "status"},
	)

	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "composegen",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"path", "method", "status"},
	)

	httpInflight = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "composegen",
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "In-flight HTTP requests",
		},
		[]string{"path"},
	)

	renderRejectedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "composegen",
			Subsystem: "http",
			Name:      "render_rejected_total",
			Help:      "Render requests rejected before generation",
		},
		[]string{"reason"},
	)
)

func init() {
	prometheus.MustRegister(httpRequestsTotal, httpRequestDuration, httpInflight, renderRejectedTotal)
}

// statusRecorder wraps http.ResponseWriter to capture status code
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.status = code
	sr.ResponseWriter.WriteHeader(code)
}

// unmatchedRoute labels requests that match no route, keeping label
// cardinality bounded.
const unmatchedRoute = "unmatched"

// MetricsMiddleware instruments requests for Prometheus
func MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sr := &statusRecorder{ResponseWriter: w, status: 200}
		start := time.Now()
		inflight := matchRoute(r)
		httpInflight.WithLabelValues(inflight).Inc()
		defer httpInflight.WithLabelValues(inflight).Dec()

		next.ServeHTTP(sr, r)
		// chi fills the route pattern while routing, so read it afterwards.
		path := routePattern(r)
		statusLabel := itoa(sr.status)
		dur := time.Since(start).Seconds()
		httpRequestsTotal.WithLabelValues(path, r.Method, statusLabel).Inc()
		httpRequestDuration.WithLabelValues(path, r.Method, statusLabel).Observe(dur)
	})
}

// matchRoute resolves the route pattern before the router runs.
func matchRoute(r *http.Request) string {
	rc := chi.RouteContext(r.Context())
	if rc == nil || rc.Routes == nil {
		return unmatchedRoute
	}
	tctx := chi.NewRouteContext()
	if !rc.Routes.Match(tctx, r.Method, r.URL.Path) {
		return unmatchedRoute
	}
	if p := tctx.RoutePattern(); p != "" {
		return p
	}
	return unmatchedRoute
}

// routePattern returns the chi route pattern the request was served by, or
// unmatchedRoute. Raw URL paths never become label values.
func routePattern(r *http.Request) string {
	if rc := chi.RouteContext(r.Context()); rc != nil {
		if p := rc.RoutePattern(); p != "" {
			return p
		}
	}
	return unmatchedRoute
}

// incRejected counts a render request refused with a 4xx status.
func incRejected(reason string) {
	if reason == "" {
		reason = "unspecified"
	}
	renderRejectedTotal.WithLabelValues(reason).Inc()
}

// fast integer to ascii for small set of status codes
func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var buf [4]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}
