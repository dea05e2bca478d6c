package metrics

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"inkfeed/internal/config"
	"inkfeed/internal/core"
)

// Server exposes /metrics and /health on the diag address, separate from
// the API listener.
type Server struct {
	Logger *slog.Logger
	Config *config.Config
	DB     core.DB

	server *http.Server
}

func (s *Server) Init(_ context.Context) error {
	s.Logger = s.Logger.With("component", "metrics.Server")

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if err := s.DB.HealthCheck(r.Context()); err != nil {
			s.Logger.Error("health check failed", "error", err)
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	s.server = &http.Server{
		Handler:           mux,
		Addr:              s.Config.DiagAddr,
		ReadHeaderTimeout: time.Second,
	}

	return nil
}

func (s *Server) Run(ctx context.Context) error {
	s.Logger.Info("Starting diag server", "addr", s.server.Addr)

	go func() {
		<-ctx.Done()
		s.server.Shutdown(context.TODO()) //nolint:errcheck
	}()

	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
