// Package metrics registers and records the service's Prometheus metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector methods are nil-safe so handlers and middleware can run
// without metrics in tests.
type Collector struct {
	httpRequests    *prometheus.CounterVec
	requestDuration prometheus.Histogram
	firesReported   prometheus.Counter
	transitions     *prometheus.CounterVec
	commentsAdded   prometheus.Counter
}

func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "firewatch_http_requests_total",
			Help: "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "code"}),
		requestDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "firewatch_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}),
		firesReported: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "firewatch_fires_reported_total",
			Help: "Fire incidents created.",
		}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "firewatch_status_transitions_total",
			Help: "Status transition attempts by target status and outcome.",
		}, []string{"status", "outcome"}),
		commentsAdded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "firewatch_comments_total",
			Help: "Comments appended to incidents.",
		}),
	}
	reg.MustRegister(
		c.httpRequests,
		c.requestDuration,
		c.firesReported,
		c.transitions,
		c.commentsAdded,
	)
	return c
}

func (c *Collector) RecordRequest(method, route string, code int, dur time.Duration) {
	if c == nil {
		return
	}
	c.httpRequests.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	c.requestDuration.Observe(dur.Seconds())
}

func (c *Collector) RecordFireReported() {
	if c == nil {
		return
	}
	c.firesReported.Inc()
}

func (c *Collector) RecordTransition(status, outcome string) {
	if c == nil {
		return
	}
	c.transitions.WithLabelValues(status, outcome).Inc()
}

func (c *Collector) RecordComment() {
	if c == nil {
		return
	}
	c.commentsAdded.Inc()
}

// Handler exposes the registry for GET /metrics.
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}
