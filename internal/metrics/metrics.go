// Package metrics provides Prometheus metrics for the review service.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "rmj"

// Manager owns every collector and the registry they live on.
type Manager struct {
	registry *prometheus.Registry

	JudgesCreated   prometheus.Counter
	ReviewsCreated  prometheus.Counter
	Rejected        *prometheus.CounterVec
	LiveSubscribers prometheus.Gauge
	StoreErrors     *prometheus.CounterVec

	httpDuration *prometheus.HistogramVec
}

// NewManager registers all collectors on a fresh registry, so tests can build
// as many managers as they like.
func NewManager() *Manager {
	reg := prometheus.NewRegistry()
	auto := promauto.With(reg)

	return &Manager{
		registry: reg,
		JudgesCreated: auto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "directory",
			Name:      "judges_created_total",
			Help:      "Judges added to the directory.",
		}),
		ReviewsCreated: auto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "reviews_created_total",
			Help:      "Reviews appended to the ledger.",
		}),
		Rejected: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "validation_rejections_total",
			Help:      "Writes rejected before reaching the store.",
		}, []string{"reason"}),
		LiveSubscribers: auto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "live",
			Name:      "subscribers",
			Help:      "Open live review subscriptions.",
		}),
		StoreErrors: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_errors_total",
			Help:      "Failed store calls by operation.",
		}, []string{"op"}),
		httpDuration: auto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by route pattern.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}
}

// Handler serves the registry in the Prometheus text format.
func (m *Manager) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry exposes the underlying registry.
func (m *Manager) Registry() *prometheus.Registry { return m.registry }

// Middleware records request latency labelled by chi route pattern, which
// keeps judge slugs out of the label set.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}
		m.httpDuration.
			WithLabelValues(r.Method, route, strconv.Itoa(ww.Status())).
			Observe(time.Since(start).Seconds())
	})
}
