package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/agbru/omnisum/internal/logging"
	"github.com/agbru/omnisum/internal/metrics"
)

const shutdownTimeout = 5 * time.Second

// Server is the metrics HTTP server.
type Server struct {
	addr     string
	metrics  *Metrics
	logger   logging.Logger
	security SecurityConfig
}

// New returns a server for addr exposing the collectors of c.
func New(addr string, c *metrics.Collector, logger logging.Logger) *Server {
	if logger == nil {
		logger = logging.Discard
	}
	return &Server{
		addr:     addr,
		metrics:  NewMetrics(c),
		logger:   logger,
		security: DefaultSecurityConfig(),
	}
}

// Handler returns the routes: /metrics and /healthz.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/metrics", SecurityMiddleware(s.security, s.metricsMiddleware(s.handleMetrics)))
	mux.HandleFunc("/healthz", SecurityMiddleware(s.security, s.metricsMiddleware(s.handleHealth)))
	return mux
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.logger.Debug("metrics: method not allowed", logging.String("method", r.Method))
		w.Header().Set("Allow", http.MethodGet)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.metrics.WritePrometheus(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = fmt.Fprintln(w, "ok")
}

// ListenAndServe serves until ctx is done, then shuts down gracefully.
// ready, when non-nil, receives the bound address once listening.
func (s *Server) ListenAndServe(ctx context.Context, ready chan<- string) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("metrics server: %w", err)
	}
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	s.logger.Info("metrics server listening", logging.String("addr", ln.Addr().String()))
	if ready != nil {
		ready <- ln.Addr().String()
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("metrics server shutdown: %w", err)
		}
		s.logger.Debug("metrics server stopped")
		return nil
	}
}
