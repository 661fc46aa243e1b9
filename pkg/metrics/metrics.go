// Package metrics provides Prometheus instrumentation for the storefront.
//
// Wire it up once when building the HTTP surface:
//
//	r.Use(metrics.Middleware())
//	r.Get("/metrics", "metrics", metrics.Handler())
package metrics

import (
	"bufio"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// RequestDuration tracks HTTP request latency by method, path, status.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "storefront",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// RequestTotal counts all HTTP requests.
	RequestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "storefront",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	// BackendRetries counts retried backend record-store calls.
	BackendRetries = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "storefront",
		Subsystem: "backend",
		Name:      "retries_total",
		Help:      "Total backend call attempts that were retried.",
	})

	// BackendFallbacks counts reads that exhausted retries and served
	// their static fallback instead.
	BackendFallbacks = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "storefront",
		Subsystem: "backend",
		Name:      "fallbacks_total",
		Help:      "Total backend calls that degraded to fallback data.",
	})

	// CartSyncs counts remote cart pushes by result.
	CartSyncs = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "storefront",
			Subsystem: "cart",
			Name:      "syncs_total",
			Help:      "Total remote cart sync pushes.",
		},
		[]string{"status"}, // "ok" | "failed" | "dropped"
	)

	// SessionsExpired counts idle-expired sessions.
	SessionsExpired = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "storefront",
		Subsystem: "session",
		Name:      "idle_expired_total",
		Help:      "Total sessions force-expired after the inactivity window.",
	})
)

// DefaultRegistry is the registry everything above is registered against.
var DefaultRegistry = prometheus.NewRegistry()

func init() {
	DefaultRegistry.MustRegister(collectors.NewGoCollector())
	DefaultRegistry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	DefaultRegistry.MustRegister(
		RequestDuration,
		RequestTotal,
		BackendRetries,
		BackendFallbacks,
		CartSyncs,
		SessionsExpired,
	)
}

// MustRegister adds custom collectors to the storefront registry.
func MustRegister(c ...prometheus.Collector) {
	DefaultRegistry.MustRegister(c...)
}

type responseRecorder struct {
	http.ResponseWriter
	status int
}

func (r *responseRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Hijack forwards to the underlying writer so WebSocket upgrades work
// behind the middleware.
func (r *responseRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hj, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, http.ErrNotSupported
	}
	conn, rw, err := hj.Hijack()
	if err == nil {
		r.status = http.StatusSwitchingProtocols
	}
	return conn, rw, err
}

func (r *responseRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (r *responseRecorder) Unwrap() http.ResponseWriter { return r.ResponseWriter }

// Middleware records duration and count for every request. Requests that
// matched a chi route are labeled with the route pattern, not the raw
// path, keeping label cardinality bounded.
func Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			rr := &responseRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rr, r)

			path := r.URL.Path
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				if pattern := rctx.RoutePattern(); pattern != "" {
					path = pattern
				}
			}

			status := strconv.Itoa(rr.status)
			RequestDuration.WithLabelValues(r.Method, path, status).
				Observe(time.Since(start).Seconds())
			RequestTotal.WithLabelValues(r.Method, path, status).Inc()
		})
	}
}

// Handler exposes the metrics page; mount it on GET /metrics.
func Handler() http.HandlerFunc {
	h := promhttp.HandlerFor(DefaultRegistry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
	return h.ServeHTTP
}
