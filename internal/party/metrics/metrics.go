// Package metrics holds the Prometheus collectors partyd exports on /metrics.
package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "partyd"

// Metrics owns a private registry so tests can build as many as they like.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	Registry *prometheus.Registry

	httpInFlight   prometheus.Gauge
	httpRequests   *prometheus.CounterVec
	httpDuration   *prometheus.HistogramVec
	membershipOps  *prometheus.CounterVec
	indexFallbacks *prometheus.CounterVec
	housekeeping   *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		httpInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		}, []string{"method", "path", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
		}, []string{"method", "path"}),
		membershipOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "membership_operations_total",
			Help:      "Join and leave attempts by outcome.",
		}, []string{"op", "result"}),
		indexFallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "index_fallbacks_total",
			Help:      "Listing queries that fell back to a bounded scan because their index was missing.",
		}, []string{"query"}),
		housekeeping: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "housekeeping",
			Name:      "rows_total",
			Help:      "Rows changed by housekeeping, by task.",
		}, []string{"task"}),
	}

	m.Registry.MustRegister(
		m.httpInFlight,
		m.httpRequests,
		m.httpDuration,
		m.membershipOps,
		m.indexFallbacks,
		m.housekeeping,
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
	)
	return m
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}

// MembershipOp counts a join or leave outcome.
func (m *Metrics) MembershipOp(op, result string) {
	if m == nil {
		return
	}
	m.membershipOps.WithLabelValues(op, result).Inc()
}

// IndexFallback counts a listing that had to scan.
func (m *Metrics) IndexFallback(query string) {
	if m == nil {
		return
	}
	m.indexFallbacks.WithLabelValues(query).Inc()
}

// HousekeepingRows adds n rows changed by task.
func (m *Metrics) HousekeepingRows(task string, n int64) {
	if m == nil || n <= 0 {
		return
	}
	m.housekeeping.WithLabelValues(task).Add(float64(n))
}

// UnmatchedRoute labels requests no route pattern claimed.
const UnmatchedRoute = "unmatched"

// RouteFunc names the route pattern that will serve r, or "" when none does.
type RouteFunc func(r *http.Request) string

// MuxRoute resolves routes through mux's registered patterns, without the
// method prefix.
func MuxRoute(mux *http.ServeMux) RouteFunc {
	return func(r *http.Request) string {
		_, pattern := mux.Handler(r)
		if _, path, ok := strings.Cut(pattern, " "); ok {
			return path
		}
		return pattern
	}
}

// InstrumentHandler records request count, latency and in-flight gauge. The
// path label is the route pattern, never the raw URL.
func (m *Metrics) InstrumentHandler(route RouteFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if m == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/metrics" {
				next.ServeHTTP(w, r)
				return
			}

			path := UnmatchedRoute
			if route != nil {
				if p := route(r); p != "" {
					path = p
				}
			}

			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			start := time.Now()

			m.httpInFlight.Inc()
			defer m.httpInFlight.Dec()

			next.ServeHTTP(rec, r)

			method := strings.ToUpper(r.Method)
			m.httpRequests.WithLabelValues(method, path, strconv.Itoa(rec.status)).Inc()
			m.httpDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (r *statusRecorder) WriteHeader(code int) {
	if !r.wroteHeader {
		r.status = code
		r.wroteHeader = true
	}
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	r.wroteHeader = true
	return r.ResponseWriter.Write(b)
}
