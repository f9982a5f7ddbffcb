package health

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jonwraymond/datadog-mcp/observe"
)

// Response is the body of the /health endpoint.
type Response struct {
	Status    string                   `json:"status"`
	Timestamp string                   `json:"timestamp"`
	Checks    map[string]CheckResponse `json:"checks,omitempty"`
}

// CheckResponse is one check within a Response.
type CheckResponse struct {
	Status   string         `json:"status"`
	Message  string         `json:"message,omitempty"`
	Duration string         `json:"duration,omitempty"`
	Details  map[string]any `json:"details,omitempty"`
	Error    string         `json:"error,omitempty"`
}

func httpStatus(s Status) int {
	if s == StatusUnhealthy {
		return http.StatusServiceUnavailable
	}
	return http.StatusOK
}

func liveness(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

func readiness(agg *Aggregator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := Overall(agg.CheckAll(r.Context()))

		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(httpStatus(status))
		switch status {
		case StatusHealthy:
			_, _ = w.Write([]byte("OK"))
		case StatusDegraded:
			_, _ = w.Write([]byte("DEGRADED"))
		default:
			_, _ = w.Write([]byte("UNHEALTHY"))
		}
	}
}

func detailed(agg *Aggregator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		results := agg.CheckAll(r.Context())
		status := Overall(results)

		resp := Response{
			Status:    status.String(),
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Checks:    make(map[string]CheckResponse, len(results)),
		}
		for name, res := range results {
			check := CheckResponse{
				Status:   res.Status.String(),
				Message:  res.Message,
				Duration: res.Duration.String(),
				Details:  res.Details,
			}
			if res.Error != nil {
				check.Error = res.Error.Error()
			}
			resp.Checks[name] = check
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(httpStatus(status))
		_ = json.NewEncoder(w).Encode(resp)
	}
}

// Handler returns the health endpoints, with /metrics served from g.
// A nil g serves the default Prometheus registry.
func Handler(agg *Aggregator, g prometheus.Gatherer) http.Handler {
	if g == nil {
		g = prometheus.DefaultGatherer
	}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", liveness)
	mux.HandleFunc("GET /readyz", readiness(agg))
	mux.HandleFunc("GET /health", detailed(agg))
	mux.Handle("GET /metrics", promhttp.HandlerFor(g, promhttp.HandlerOpts{}))
	return mux
}

// DefaultShutdownTimeout bounds graceful shutdown of the listener.
const DefaultShutdownTimeout = 5 * time.Second

// Server serves the health endpoints until its context is cancelled.
type Server struct {
	srv    *http.Server
	logger observe.Logger
}

// NewServer creates a server for h on addr.
func NewServer(addr string, h http.Handler, logger observe.Logger) *Server {
	if logger == nil {
		logger = observe.NopLogger()
	}
	return &Server{
		srv: &http.Server{
			Addr:              addr,
			Handler:           h,
			ReadHeaderTimeout: 5 * time.Second,
		},
		logger: logger,
	}
}

// Serve accepts connections on ln until ctx is cancelled, then shuts down.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.srv.Serve(ln)
	}()
	s.logger.Info(ctx, "health listener started", observe.F("addr", ln.Addr().String()))

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), DefaultShutdownTimeout)
	defer cancel()
	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	s.logger.Info(ctx, "health listener stopped")
	return nil
}

// ListenAndServe listens on the configured address and calls Serve.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}
