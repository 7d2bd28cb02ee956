// Package http is the agent's loopback HTTP surface: health probes,
// Prometheus metrics, and the OAuth return callback. It serves the local
// machine only and carries no backend credentials of its own.
package http

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/JBcollo2/pulse-sub002/internal/infrastructure/http/handlers"
)

// RouterDeps carries everything the agent surface serves.
type RouterDeps struct {
	API   handlers.AdminChecker
	Flow  handlers.GoogleFlow
	Redis *redis.Client // nil when signals stay in-process
	Log   zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps RouterDeps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(echoprometheus.NewMiddleware("pulse_agent"))

	// --- Health probes ---
	healthHandler := handlers.NewHealthHandler()
	readinessHandler := handlers.NewReadinessHandler(deps.API, deps.Redis)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness)  // readiness – are the backend and Redis up?

	// --- Metrics ---
	e.GET("/metrics", echoprometheus.NewHandler())

	// --- OAuth return leg ---
	oauthHandler := handlers.NewOAuthHandler(deps.Flow)
	e.GET("/oauth/google/callback", oauthHandler.GoogleCallback)

	return e
}
