package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/agbru/omnisum/internal/endpoint"
	"github.com/agbru/omnisum/internal/orchestration"
)

// Collector implements orchestration.Observer with Prometheus metrics.
type Collector struct {
	registry   *prometheus.Registry
	runs       prometheus.Counter
	active     prometheus.Gauge
	dispatches *prometheus.CounterVec
	duration   *prometheus.HistogramVec
}

// NewCollector creates the collectors and registers them, along with the Go
// runtime and process collectors, on a fresh registry.
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		runs: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "omnisum_runs_total",
			Help: "Number of fan-out runs started.",
		}),
		active: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "omnisum_dispatch_active",
			Help: "Number of endpoint requests currently in flight.",
		}),
		dispatches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "omnisum_dispatch_total",
			Help: "Number of finished endpoint requests by outcome.",
		}, []string{"endpoint", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "omnisum_dispatch_duration_seconds",
			Help:    "Time from dispatch to outcome per endpoint.",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		}, []string{"endpoint"}),
	}
	c.registry.MustRegister(
		c.runs, c.active, c.dispatches, c.duration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return c
}

// Registry returns the registry holding every omnisum collector.
func (c *Collector) Registry() *prometheus.Registry { return c.registry }

// Handler serves the registry in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// RunStarted implements orchestration.Observer.
func (c *Collector) RunStarted(orchestration.RunID, int) {
	c.runs.Inc()
}

// DispatchStarted implements orchestration.Observer.
func (c *Collector) DispatchStarted(endpoint.Endpoint) {
	c.active.Inc()
}

// DispatchFinished implements orchestration.Observer.
func (c *Collector) DispatchFinished(ep endpoint.Endpoint, status orchestration.Status, elapsed time.Duration) {
	c.active.Dec()
	c.dispatches.WithLabelValues(ep.Key(), status.String()).Inc()
	c.duration.WithLabelValues(ep.Key()).Observe(elapsed.Seconds())
}
