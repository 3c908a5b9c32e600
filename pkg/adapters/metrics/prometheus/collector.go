package prometheus

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds the proxy's Prometheus metrics on a private registry
type Collector struct {
	registry *prometheus.Registry

	httpRequests    *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
	lookups         *prometheus.CounterVec
	upstreamStatus  *prometheus.CounterVec
	upstreamLatency prometheus.Histogram
	gistsReturned   prometheus.Histogram
}

// NewCollector creates a new Prometheus metrics collector
func NewCollector() *Collector {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Collector{
		registry: reg,
		httpRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gistproxy_http_requests_total",
				Help: "Total number of HTTP requests served",
			},
			[]string{"method", "route", "status"},
		),
		httpDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "gistproxy_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
			},
			[]string{"route"},
		),
		lookups: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gistproxy_lookups_total",
				Help: "Total number of gist lookups by outcome",
			},
			[]string{"outcome"},
		),
		upstreamStatus: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gistproxy_upstream_responses_total",
				Help: "Total number of upstream responses by status code",
			},
			[]string{"code"},
		),
		upstreamLatency: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "gistproxy_upstream_latency_seconds",
				Help:    "GitHub API call latency in seconds",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
			},
		),
		gistsReturned: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "gistproxy_gists_returned",
				Help:    "Number of gist URLs returned per successful lookup",
				Buckets: []float64{0, 1, 5, 10, 20, 30},
			},
		),
	}
}

// Registry exposes the underlying registry, mainly for tests
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler returns the /metrics handler for this collector's registry
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}

// ObserveHTTPRequest records a served HTTP request
func (c *Collector) ObserveHTTPRequest(method, route string, status int, duration time.Duration) {
	c.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.httpDuration.WithLabelValues(route).Observe(duration.Seconds())
}

// IncLookups increments the lookup counter for outcome
func (c *Collector) IncLookups(outcome string) {
	c.lookups.WithLabelValues(outcome).Inc()
}

// RecordUpstreamResponse records the status code and latency of one GitHub call
func (c *Collector) RecordUpstreamResponse(code int, latency time.Duration) {
	c.upstreamStatus.WithLabelValues(strconv.Itoa(code)).Inc()
	c.upstreamLatency.Observe(latency.Seconds())
}

// ObserveUpstreamLatency records latency for calls that produced no status code
func (c *Collector) ObserveUpstreamLatency(latency time.Duration) {
	c.upstreamLatency.Observe(latency.Seconds())
}

// ObserveGistsReturned records how many URLs a successful lookup produced
func (c *Collector) ObserveGistsReturned(n int) {
	c.gistsReturned.Observe(float64(n))
}
