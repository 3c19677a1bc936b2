package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// RouterConfig holds the pieces the HTTP surface is built from.
type RouterConfig struct {
	Dispatcher   MessageHandler
	Status       http.Handler
	Metrics      http.Handler // mounted at /metrics when non-nil
	Timeout      time.Duration
	MaxBodyBytes int64
	AllowOrigin  string
	Logger       *slog.Logger
}

// NewRouter builds the chi router serving JSON-RPC on POST / and POST /mcp.
func NewRouter(cfg RouterConfig) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(LoggingMiddleware(logger))
	r.Use(TimeoutMiddleware(cfg.Timeout, logger))
	r.Use(CORSMiddleware(cfg.AllowOrigin))

	invoke := NewMCPInvokeHandler(cfg.Dispatcher, cfg.MaxBodyBytes, logger)
	r.Post("/", invoke.ServeHTTP)
	r.Post("/mcp", invoke.ServeHTTP)

	// Health check endpoint (for docker healthcheck)
	r.Get("/health", HealthCheckHandler(logger))
	if cfg.Status != nil {
		r.Method(http.MethodGet, "/", cfg.Status)
	}
	if cfg.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", cfg.Metrics)
	}

	return r
}
