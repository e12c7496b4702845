/*
Package metrics exposes Prometheus instrumentation for the server.

PURPOSE:
  Request counters/latency via chi middleware, plus domain counters for
  the recurrence engine (windows expanded, instances produced). Scraped
  at /metrics.
*/
package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hearth_http_requests_total",
		Help: "Total number of HTTP requests processed.",
	}, []string{"method", "route", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "hearth_http_request_duration_seconds",
		Help:    "Histogram of latencies for HTTP requests.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	expansionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hearth_recurrence_expansions_total",
		Help: "Calendar/chore windows expanded by the recurrence engine.",
	}, []string{"kind"})

	instancesProduced = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hearth_recurrence_instances_total",
		Help: "Occurrence instances produced by window expansion.",
	}, []string{"kind"})
)

// Middleware records per-request counters and latency.
func Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			route := routePattern(r)
			httpRequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(ww.Status())).Inc()
			httpRequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
		})
	}
}

// Handler exposes the Prometheus scrape endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveExpansion records one engine expansion and how many instances
// it produced. kind is "events" or "chores".
func ObserveExpansion(kind string, instances int) {
	expansionsTotal.WithLabelValues(kind).Inc()
	instancesProduced.WithLabelValues(kind).Add(float64(instances))
}

func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := strings.TrimSpace(rctx.RoutePattern()); pattern != "" {
			return pattern
		}
	}
	return r.URL.Path
}
