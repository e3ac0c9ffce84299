package server

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/agbru/omnisum/internal/metrics"
)

// Metrics tracks the metrics server's own traffic and serves the registry
// it shares with the dispatch collectors.
type Metrics struct {
	handler        http.Handler
	activeRequests prometheus.Gauge
	requestsTotal  *prometheus.CounterVec
}

// NewMetrics registers the HTTP collectors next to the dispatch collectors
// of c. A nil c gets a fresh collector.
func NewMetrics(c *metrics.Collector) *Metrics {
	if c == nil {
		c = metrics.NewCollector()
	}
	m := &Metrics{
		handler: c.Handler(),
		activeRequests: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "omnisum_http_active_requests",
			Help: "Number of metrics-server requests being served.",
		}),
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "omnisum_http_requests_total",
			Help: "Number of metrics-server requests by path and status code.",
		}, []string{"path", "code"}),
	}
	c.Registry().MustRegister(m.activeRequests, m.requestsTotal)
	return m
}

// IncrementActiveRequests marks a request as started.
func (m *Metrics) IncrementActiveRequests() { m.activeRequests.Inc() }

// DecrementActiveRequests marks a request as finished.
func (m *Metrics) DecrementActiveRequests() { m.activeRequests.Dec() }

func (m *Metrics) observe(path string, code int) {
	m.requestsTotal.WithLabelValues(path, strconv.Itoa(code)).Inc()
}

// WritePrometheus writes the registry in the text exposition format.
func (m *Metrics) WritePrometheus(w http.ResponseWriter, r *http.Request) {
	m.handler.ServeHTTP(w, r)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func (s *Server) metricsMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.metrics.IncrementActiveRequests()
		defer s.metrics.DecrementActiveRequests()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next(rec, r)
		s.metrics.observe(r.URL.Path, rec.status)
	}
}
