/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. RequestID:  Unique ID per request for tracing
  2. Logger:     Request logging
  3. Recoverer:  Panic recovery (500 instead of crash)
  4. CORS:       Cross-origin requests for frontend

ROUTE GROUPS:
  /api/employees/*   Employee management, vacation, projects, payments
  /api/payroll/*     Payroll runs and schedule
  /api/audit         Audit log queries
  /api/config        Payroll configuration
  /api/scenarios/*   Demo scenarios
  /metrics           Prometheus metrics (when a gatherer is configured)

SECURITY NOTE:
  No authentication middleware. All endpoints are public.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RouterOption customizes NewRouter.
type RouterOption func(*routerConfig)

type routerConfig struct {
	gatherer       prometheus.Gatherer
	allowedOrigins []string
	requestLogging bool
}

// WithMetricsEndpoint serves gatherer on /metrics.
func WithMetricsEndpoint(gatherer prometheus.Gatherer) RouterOption {
	return func(c *routerConfig) { c.gatherer = gatherer }
}

// WithAllowedOrigins replaces the default CORS origins.
func WithAllowedOrigins(origins ...string) RouterOption {
	return func(c *routerConfig) { c.allowedOrigins = origins }
}

// WithoutRequestLogging disables the request logger (tests).
func WithoutRequestLogging() RouterOption {
	return func(c *routerConfig) { c.requestLogging = false }
}

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler, opts ...RouterOption) *chi.Mux {
	cfg := routerConfig{
		allowedOrigins: []string{"http://localhost:5173", "http://localhost:8080"},
		requestLogging: true,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	if cfg.requestLogging {
		r.Use(middleware.Logger)
	}
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Employee routes
		r.Route("/employees", func(r chi.Router) {
			r.Get("/", h.ListEmployees)
			r.Post("/", h.CreateEmployee)
			r.Get("/{name}", h.GetEmployee)
			r.Get("/{name}/history", h.GetHistory)
			r.Post("/{name}/vacation", h.RequestVacation)
			r.Post("/{name}/projects", h.AddProject)
			r.Post("/{name}/projects/{project}/deliver", h.DeliverProject)
			r.Post("/{name}/pay", h.PayEmployee)
		})

		// Payroll routes
		r.Route("/payroll", func(r chi.Router) {
			r.Post("/run", h.RunPayroll)
			r.Get("/schedule", h.GetSchedule)
		})

		r.Get("/audit", h.QueryAudit)

		r.Get("/config", h.GetConfig)
		r.Put("/config", h.UpdateConfig)

		// Scenario routes
		r.Route("/scenarios", func(r chi.Router) {
			r.Get("/", h.ListScenarios)
			r.Get("/current", h.GetCurrentScenario)
			r.Post("/load", h.LoadScenario)
			r.Post("/reset", h.ResetCompany)
		})
	})

	if cfg.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(cfg.gatherer, promhttp.HandlerOpts{}))
	}

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<!DOCTYPE html>
<html>
<head><title>Payroll Engine</title></head>
<body style="font-family: system-ui; max-width: 800px; margin: 50px auto; padding: 20px;">
<h1>Payroll Engine API</h1>
<h2>API Endpoints</h2>
<ul>
<li><a href="/api/employees">/api/employees</a> - List employees</li>
<li><a href="/api/audit">/api/audit</a> - Audit log</li>
<li><a href="/api/config">/api/config</a> - Payroll configuration</li>
<li><a href="/api/scenarios">/api/scenarios</a> - List scenarios</li>
</ul>
</body>
</html>`))
	})

	return r
}
