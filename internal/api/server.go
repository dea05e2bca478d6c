package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/zhulik/pal"

	"inkfeed/internal/config"
)

type contextKey string

const loggerContextKey = contextKey("logger")

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inkfeed_http_requests_total",
		Help: "The total number of handled HTTP requests",
	}, []string{"method", "path", "status"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name: "inkfeed_http_request_duration_seconds",
		Help: "HTTP request handling duration",
	}, []string{"method", "path"})
)

type Server struct {
	server *http.Server

	Logger *slog.Logger
	Config *config.Config
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func (s *Server) Run(ctx context.Context) error {
	s.Logger.Info("Starting API server", "addr", s.server.Addr)

	go func() {
		<-ctx.Done()
		// TODO: figure out a good context here, Run's ctx is cancelled.
		s.server.Shutdown(context.TODO()) //nolint:errcheck
	}()

	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Init(ctx context.Context) error {
	s.Logger = s.Logger.With("component", "api.Server")

	r := chi.NewMux()

	logger := func(ctx context.Context) *slog.Logger {
		return ctx.Value(loggerContextKey).(*slog.Logger)
	}

	r.Use(
		// json content type
		func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				next.ServeHTTP(w, r)
			})
		},

		// Logging
		func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				logger := s.Logger.With("method", r.Method, "path", r.URL.Path)
				ctx := context.WithValue(r.Context(), loggerContextKey, logger)
				next.ServeHTTP(w, r.WithContext(ctx))
			})
		},

		// Request log + metrics
		func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				start := time.Now()
				sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

				next.ServeHTTP(sw, r)

				duration := time.Since(start)
				pattern := chi.RouteContext(r.Context()).RoutePattern()
				requestsTotal.WithLabelValues(r.Method, pattern, http.StatusText(sw.status)).Inc()
				requestDuration.WithLabelValues(r.Method, pattern).Observe(duration.Seconds())
				logger(r.Context()).Info("request", "duration", duration, "status", sw.status)
			})
		},

		// Recovering panics and logging
		func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				defer func() {
					if err := recover(); err != nil {
						logger(r.Context()).Error("panic recovered", "error", err)
						http.Error(w, `{"message": "Internal Server Error"}`, http.StatusInternalServerError)
					}
				}()
				next.ServeHTTP(w, r)
			})
		},
	)

	p := pal.FromContext(ctx)

	backend, err := pal.Build[Backend](ctx, p)
	if err != nil {
		return err
	}

	backend.Routes(r)

	s.server = &http.Server{
		Handler:           r,
		Addr:              s.Config.APIAddr,
		ReadHeaderTimeout: time.Second,
		WriteTimeout:      5 * time.Second,
		ReadTimeout:       5 * time.Second,
		IdleTimeout:       30 * time.Second,
	}
	return nil
}
