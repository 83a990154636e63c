package telemetry

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"
)

// MetricsServer serves a metrics handler on its own listener.
type MetricsServer struct {
	srv *http.Server
}

// NewMetricsServer builds a server exposing h at /metrics.
func NewMetricsServer(addr string, h http.Handler) *MetricsServer {
	mux := http.NewServeMux()
	mux.Handle("GET /metrics", h)
	return &MetricsServer{srv: &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}}
}

// Serve listens until ctx is cancelled, then shuts down gracefully.
func (m *MetricsServer) Serve(ctx context.Context) error {
	ln, err := net.Listen("tcp", m.srv.Addr)
	if err != nil {
		return err
	}
	return m.serve(ctx, ln)
}

func (m *MetricsServer) serve(ctx context.Context, ln net.Listener) error {
	errc := make(chan error, 1)
	go func() {
		LogInfo("Starting metrics server", "addr", ln.Addr().String())
		errc <- m.srv.Serve(ln)
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := m.srv.Shutdown(shutdownCtx); err != nil {
			slog.Warn("metrics server shutdown", "error", err)
			return err
		}
		return nil
	}
}
