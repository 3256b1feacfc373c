package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	adminhandler "regdesk/internal/admin/handler"
	"regdesk/internal/platform/health"
	"regdesk/internal/platform/metrics"
	"regdesk/internal/platform/middleware"
	registrationhandler "regdesk/internal/registration/handler"
)

// Deps carries everything the router mounts.
type Deps struct {
	Registration *registrationhandler.Handler
	Admin        *adminhandler.Handler
	Health       *health.Handler
	Auth         middleware.TokenValidator
	Logger       *slog.Logger
	Metrics      *metrics.Metrics

	// MetricsHandler serves /metrics; nil disables the endpoint.
	MetricsHandler http.Handler

	// StaticDir serves uploaded media under /uploads when set. Used in disk
	// media mode so returned URLs resolve against this server.
	StaticDir string
}

// NewRouter wires all endpoints with the shared middleware stack. The
// dashboard routes require a valid admin session token; the submission
// endpoints stay public.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(deps.Logger))
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(endpointLatency(deps.Metrics))

	deps.Health.Register(r)
	deps.Admin.Register(r)
	deps.Registration.RegisterPublic(r)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(deps.Auth, deps.Logger))
		deps.Registration.RegisterDashboard(r)
	})

	if deps.MetricsHandler != nil {
		r.Handle("/metrics", deps.MetricsHandler)
	}

	if deps.StaticDir != "" {
		fileServer := http.StripPrefix("/uploads/", http.FileServer(http.Dir(deps.StaticDir)))
		r.Get("/uploads/*", fileServer.ServeHTTP)
	}

	return r
}

// DefaultMetricsHandler exposes the default Prometheus registry.
func DefaultMetricsHandler() http.Handler {
	return promhttp.Handler()
}

// endpointLatency records per-route handler durations labelled by the chi
// route pattern so path parameters don't explode the label cardinality.
func endpointLatency(m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)

			pattern := chi.RouteContext(r.Context()).RoutePattern()
			if pattern == "" {
				pattern = r.URL.Path
			}
			m.ObserveEndpointLatency(pattern, time.Since(start).Seconds())
		})
	}
}
