package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	authhandler "wardstock/internal/auth/handler"
	inventoryhandler "wardstock/internal/inventory/handler"
	logshandler "wardstock/internal/logs/handler"
	"wardstock/internal/platform/metrics"
	"wardstock/internal/platform/middleware"
)

const (
	serviceName    = "wardstock"
	requestTimeout = 30 * time.Second
)

// Deps is everything the router needs. Metrics and Gatherer may be nil, in
// which case latency is not observed and /metrics is not mounted.
type Deps struct {
	Logger      *slog.Logger
	Metrics     *metrics.Metrics
	Gatherer    prometheus.Gatherer
	Validator   middleware.JWTValidator
	Revocations middleware.TokenRevocationChecker
	Auth        *authhandler.Handler
	Inventory   *inventoryhandler.Handler
	Logs        *logshandler.Handler
}

// NewRouter wires the global middleware, the public routes and the routes
// behind a verified session token.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(deps.Logger))
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(middleware.Tracing(serviceName))
	if deps.Metrics != nil {
		r.Use(middleware.LatencyMiddleware(deps.Metrics))
	}

	r.Get("/health", handleHealth)
	if deps.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}
	r.Group(func(r chi.Router) {
		r.Use(middleware.ContentTypeJSON)
		deps.Auth.Register(r)
	})

	// Authentication runs before the body checks so anonymous callers get 401.
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(deps.Validator, deps.Revocations, deps.Logger))
		r.Use(middleware.ContentTypeJSON)
		deps.Auth.RegisterProtected(r)
		deps.Inventory.Register(r)
		deps.Logs.Register(r)
	})

	return r
}
