package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/s18id/jurnapod-sub001/internal/adapter/http/handler"
	"github.com/s18id/jurnapod-sub001/internal/adapter/http/middleware"
)

// RouterConfig holds dependencies for the ops router.
type RouterConfig struct {
	HealthHandler         *handler.HealthHandler
	ReconciliationHandler *handler.ReconciliationHandler
	Registry              *prometheus.Registry
	Logger                zerolog.Logger
}

// NewRouter creates the ops HTTP router. This surface is operator-facing
// only; business posting never goes through HTTP.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(chimiddleware.Recoverer)

	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(cfg.Registry, promhttp.HandlerOpts{}))

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/reconciliation", cfg.ReconciliationHandler.Report)
	})

	return r
}
