package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/agbru/omnisum/internal/logging"
	"github.com/agbru/omnisum/internal/metrics"
)

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.WritePrometheus(rec, httptest.NewRequest(http.MethodGet, "/metrics", http.NoBody))
	if rec.Code != http.StatusOK {
		t.Fatalf("scrape status = %d", rec.Code)
	}
	return rec.Body.String()
}

func TestMetrics_SharesCollectorRegistry(t *testing.T) {
	t.Parallel()
	c := metrics.NewCollector()
	m := NewMetrics(c)
	c.RunStarted(1, 3)

	body := scrape(t, m)
	for _, want := range []string{"omnisum_runs_total 1", "omnisum_http_active_requests 0", "go_goroutines"} {
		if !strings.Contains(body, want) {
			t.Errorf("scrape missing %q", want)
		}
	}
}

func TestMetrics_NilCollector(t *testing.T) {
	t.Parallel()
	m := NewMetrics(nil)
	m.IncrementActiveRequests()
	if got := testutil.ToFloat64(m.activeRequests); got != 1 {
		t.Errorf("active = %v, want 1", got)
	}
	m.DecrementActiveRequests()
	if got := testutil.ToFloat64(m.activeRequests); got != 0 {
		t.Errorf("active = %v, want 0", got)
	}
}

func TestServer_metricsMiddleware(t *testing.T) {
	t.Parallel()
	s := New("127.0.0.1:0", nil, newTestLogger())

	var during float64
	h := s.metricsMiddleware(func(w http.ResponseWriter, _ *http.Request) {
		during = testutil.ToFloat64(s.metrics.activeRequests)
		w.WriteHeader(http.StatusTeapot)
	})
	h(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/healthz", http.NoBody))
	h(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/healthz", http.NoBody))

	if during != 1 {
		t.Errorf("active during request = %v, want 1", during)
	}
	if got := testutil.ToFloat64(s.metrics.activeRequests); got != 0 {
		t.Errorf("active after requests = %v, want 0", got)
	}
	if got := testutil.ToFloat64(s.metrics.requestsTotal.WithLabelValues("/healthz", "418")); got != 2 {
		t.Errorf("requests{/healthz,418} = %v, want 2", got)
	}
}

func TestServer_handleMetricsRejectsWrites(t *testing.T) {
	t.Parallel()
	s := New("127.0.0.1:0", nil, newTestLogger())
	for _, method := range []string{http.MethodPost, http.MethodPut, http.MethodDelete} {
		rec := httptest.NewRecorder()
		s.handleMetrics(rec, httptest.NewRequest(method, "/metrics", http.NoBody))
		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("%s: status = %d, want %d", method, rec.Code, http.StatusMethodNotAllowed)
		}
		if rec.Header().Get("Allow") != http.MethodGet {
			t.Errorf("%s: Allow = %q", method, rec.Header().Get("Allow"))
		}
	}
}

// testLogger is a minimal logger for testing that implements logging.Logger.
type testLogger struct{}

func newTestLogger() *testLogger                                  { return &testLogger{} }
func (l *testLogger) Info(_ string, _ ...logging.Field)           {}
func (l *testLogger) Error(_ string, _ error, _ ...logging.Field) {}
func (l *testLogger) Debug(_ string, _ ...logging.Field)          {}
func (l *testLogger) Printf(_ string, _ ...any)                   {}
func (l *testLogger) Println(_ ...any)                            {}
