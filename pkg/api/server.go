package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"runtime"
	"strconv"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "ladder_http_requests_total",
	Help: "HTTP requests by route and status code",
}, []string{"route", "code"})

// ServerConfig holds server configuration.
type ServerConfig struct {
	Addr           string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	RequestTimeout time.Duration // 0 leaves requests bounded only by the search
	MaxConcurrent  int
	CORSOrigin     string
}

// DefaultConfig returns sensible defaults.
func DefaultConfig(addr string) ServerConfig {
	return ServerConfig{
		Addr:           addr,
		ReadTimeout:    5 * time.Second,
		WriteTimeout:   3 * time.Minute,
		RequestTimeout: 2*time.Minute + 5*time.Second,
		MaxConcurrent:  runtime.NumCPU() * 2,
	}
}

// NewServer creates an HTTP server with all routes and middleware.
func NewServer(cfg ServerConfig, handlers *Handlers, logger *slog.Logger) *http.Server {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.MaxConcurrent < 1 {
		cfg.MaxConcurrent = 1
	}
	mux := http.NewServeMux()

	// Concurrency limiter, shared by the API routes.
	sem := make(chan struct{}, cfg.MaxConcurrent)
	mw := middleware{cfg: cfg, sem: sem, logger: logger}

	mux.HandleFunc("POST /api/v1/ladder", mw.wrap("ladder", handlers.HandleLadder))
	mux.HandleFunc("GET /api/v1/health", mw.wrap("health", handlers.HandleHealth))
	mux.HandleFunc("GET /api/v1/stats", mw.wrap("stats", handlers.HandleStats))
	mux.Handle("GET /metrics", promhttp.Handler())

	return &http.Server{
		Addr:         cfg.Addr,
		Handler:      mux,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
}

// ListenAndServe starts the server and blocks until ctx is done or a
// shutdown signal arrives.
func ListenAndServe(ctx context.Context, srv *http.Server, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

type middleware struct {
	cfg    ServerConfig
	sem    chan struct{}
	logger *slog.Logger
}

// wrap adds security headers, CORS, concurrency limiting, recovery, a
// request timeout, a request id and an access log line.
func (m middleware) wrap(route string, handler http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", requestID)

		// Security headers.
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Cache-Control", "no-store")

		if m.cfg.CORSOrigin != "" {
			w.Header().Set("Access-Control-Allow-Origin", m.cfg.CORSOrigin)
		}

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		defer func() {
			httpRequests.WithLabelValues(route, strconv.Itoa(rec.status)).Inc()
		}()

		select {
		case m.sem <- struct{}{}:
			defer func() { <-m.sem }()
		default:
			rec.Header().Set("Retry-After", "1")
			writeError(rec, http.StatusServiceUnavailable, ErrorResponse{Error: "service_unavailable"})
			return
		}

		logger := m.logger.With("request_id", requestID)
		defer func() {
			if p := recover(); p != nil {
				logger.Error("panic", "route", route, "panic", p)
				writeError(rec, http.StatusInternalServerError, ErrorResponse{Error: "internal_error"})
			}
		}()

		ctx := r.Context()
		if m.cfg.RequestTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, m.cfg.RequestTimeout)
			defer cancel()
		}

		start := time.Now()
		handler(rec, r.WithContext(ctx))
		logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"elapsed", time.Since(start).Round(time.Microsecond))
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}
