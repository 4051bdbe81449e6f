// Package metrics holds the Prometheus instruments for the service.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	RequestCounter    *prometheus.CounterVec
	RequestDuration   *prometheus.HistogramVec
	SubmissionsScored prometheus.Counter
	RoleChanges       *prometheus.CounterVec
}

func New(serviceName string) *Metrics {
	return &Metrics{
		RequestCounter: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "trainhub",
				Subsystem: serviceName,
				Name:      "requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "status"},
		),
		RequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "trainhub",
				Subsystem: serviceName,
				Name:      "request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method"},
		),
		SubmissionsScored: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: "trainhub",
				Subsystem: serviceName,
				Name:      "submissions_scored_total",
				Help:      "Total number of quiz submissions scored",
			},
		),
		RoleChanges: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "trainhub",
				Subsystem: serviceName,
				Name:      "role_changes_total",
				Help:      "Role change attempts by outcome",
			},
			[]string{"outcome"},
		),
	}
}

// Middleware records the request counter and duration for every request.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		m.RequestCounter.WithLabelValues(r.Method, strconv.Itoa(ww.Status())).Inc()
		m.RequestDuration.WithLabelValues(r.Method).Observe(time.Since(start).Seconds())
	})
}

// Handler exposes the default registry for scraping.
func Handler() http.Handler { return promhttp.Handler() }
