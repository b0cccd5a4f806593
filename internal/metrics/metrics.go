// Package metrics declares the Prometheus collectors exported on /metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ─── HTTP ───────────────────────────────────────────────────────────────────

var HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "nexus",
	Subsystem: "http",
	Name:      "requests_total",
	Help:      "Total HTTP requests by method, route pattern and status code.",
}, []string{"method", "route", "status"})

var HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: "nexus",
	Subsystem: "http",
	Name:      "request_duration_seconds",
	Help:      "HTTP request latency by method and route pattern.",
	Buckets:   prometheus.DefBuckets,
}, []string{"method", "route"})

var RateLimited = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "nexus",
	Subsystem: "http",
	Name:      "rate_limited_total",
	Help:      "Total requests rejected by the per-client rate limiter.",
})

var SuspiciousRequests = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "nexus",
	Subsystem: "http",
	Name:      "suspicious_requests_total",
	Help:      "Requests rejected because they match a known probe pattern.",
})

// ─── Ledger sync ────────────────────────────────────────────────────────────

var SyncMessagesPublished = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "nexus",
	Subsystem: "ledger",
	Name:      "sync_messages_published_total",
	Help:      "Ledger sync messages published, by result (ok, error).",
}, []string{"result"})

var LedgerExports = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "nexus",
	Subsystem: "ledger",
	Name:      "exports_total",
	Help:      "Split expenses exported to the external ledger, by result (ok, error, skipped).",
}, []string{"result"})

var PendingExports = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: "nexus",
	Subsystem: "ledger",
	Name:      "pending_exports",
	Help:      "Pending split expenses seen by the last sync sweep.",
})

// Middleware records request counts and latency per chi route pattern.
func Middleware(next http.Handler) http.Handler {
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
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		HTTPRequests.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		HTTPDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}
