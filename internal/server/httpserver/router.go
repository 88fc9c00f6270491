package httpserver

import (
	"log/slog"
	"net/http"

	"github.com/yndnr/linkdrop-go/internal/core/service"
	"github.com/yndnr/linkdrop-go/internal/server/httpserver/handler"
	"github.com/yndnr/linkdrop-go/internal/telemetry/metric"
)

// Route labels used for metrics.
const (
	routeDownload = "download"
	routeHealth   = "health"
	routeOther    = "other"
)

// RouterConfig holds configuration for the HTTP router.
type RouterConfig struct {
	// Downloads redeems download links.
	Downloads *service.DownloadService

	// Logger for request logging.
	Logger *slog.Logger

	// Metrics records request metrics. May be nil.
	Metrics *metric.Registry

	// MetricsEnabled exposes GET /metrics.
	MetricsEnabled bool

	// RateLimit limits requests per client IP. Zero RPS disables it.
	RateLimit RateLimitConfig

	// EnableAudit enables audit logging for all requests.
	EnableAudit bool
}

// DefaultRouterConfig returns default router configuration.
func DefaultRouterConfig() *RouterConfig {
	return &RouterConfig{
		Logger:         slog.Default(),
		MetricsEnabled: true,
		EnableAudit:    true,
	}
}

// NewRouter creates and configures the HTTP router with all routes and middleware.
func NewRouter(cfg *RouterConfig) http.Handler {
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}

	h := handler.New(cfg.Downloads, log)
	mux := http.NewServeMux()

	route := func(name string, fn http.HandlerFunc) http.Handler {
		return Metrics(cfg.Metrics, name)(fn)
	}

	// "GET" patterns also match HEAD; Download rejects HEAD itself.
	mux.Handle("GET /download/{token}", route(routeDownload, h.Download))
	mux.Handle("/download/{token}", route(routeDownload, h.MethodNotAllowed))

	mux.Handle("GET /health", route(routeHealth, h.Health))
	mux.Handle("/health", route(routeHealth, h.MethodNotAllowed))

	if cfg.MetricsEnabled && cfg.Metrics != nil {
		mux.Handle("GET /metrics", cfg.Metrics.Handler())
	}

	mux.Handle("/", route(routeOther, h.NotFound))

	// Order: RequestID -> Recover -> Audit -> RateLimit -> mux
	middlewares := []Middleware{RequestID(), Recover(log)}
	if cfg.EnableAudit {
		middlewares = append(middlewares, Audit(log, cfg.RateLimit.TrustProxy))
	}
	middlewares = append(middlewares, RateLimit(cfg.RateLimit))

	return Chain(mux, middlewares...)
}
