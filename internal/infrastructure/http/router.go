package http

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/upslab/labportal/internal/infrastructure/http/handlers"
)

// OpsConfig selects the operational routes to expose.
type OpsConfig struct {
	// Checks are the readiness probes, keyed by dependency name.
	Checks map[string]handlers.Check
	// Gatherer serves /metrics when set.
	Gatherer prometheus.Gatherer
	Swagger  bool
}

// RegisterOps mounts the health probes, the metrics endpoint and the API docs.
// None of them require a session.
func RegisterOps(e *echo.Echo, cfg OpsConfig) {
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(cfg.Checks)

	e.GET("/health", healthHandler.Liveness)            // liveness: is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness: are dependencies up?

	if cfg.Gatherer != nil {
		e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: cfg.Gatherer}))
	}
	if cfg.Swagger {
		e.GET("/swagger/*", echoSwagger.WrapHandler)
	}
}
