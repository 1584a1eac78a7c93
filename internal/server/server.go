package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/vzahanych/weather-lookup/internal/config"
	"github.com/vzahanych/weather-lookup/internal/present"
	"github.com/vzahanych/weather-lookup/internal/server/handlers"
	"github.com/vzahanych/weather-lookup/internal/server/middlewares"
	"github.com/vzahanych/weather-lookup/pkg/telemetry"
	"go.uber.org/zap"
)

// Deps is what the HTTP surface is built from.
type Deps struct {
	Session     handlers.Session
	State       *present.State
	Store       handlers.Pinger
	Metrics     *handlers.MetricsHandler
	HTTPMetrics *middlewares.HTTPMetrics
	Logger      *zap.Logger
	Telemetry   *telemetry.Telemetry
}

type Server struct {
	cfg    config.ServerConfig
	engine *gin.Engine
	server *http.Server
	logger *zap.Logger
}

func New(cfg config.ServerConfig, deps Deps) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	httpMetrics := deps.HTTPMetrics
	if httpMetrics == nil {
		httpMetrics = middlewares.NewHTTPMetrics()
	}
	metrics := deps.Metrics
	if metrics == nil {
		metrics = handlers.NewMetricsHandler(httpMetrics, deps.Logger)
	}

	engine.Use(middlewares.RequestIDMiddleware())
	engine.Use(middlewares.LoggingMiddleware(deps.Logger))
	engine.Use(middlewares.RecoveryMiddleware(deps.Logger))
	engine.Use(middlewares.TelemetryMiddleware(deps.Telemetry))
	engine.Use(httpMetrics.Handler())

	s := &Server{
		cfg:    cfg,
		engine: engine,
		logger: deps.Logger,
	}
	s.setupRoutes(deps, metrics)

	s.server = &http.Server{
		Addr:         s.Addr(),
		Handler:      engine,
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.IdleTimeout) * time.Second,
	}
	return s
}

func (s *Server) setupRoutes(deps Deps, metrics *handlers.MetricsHandler) {
	lookup := handlers.NewLookupHandler(deps.Session, deps.State, deps.Logger)

	api := s.engine.Group("/api")
	api.POST("/search", lookup.Search)
	api.POST("/locate", lookup.Locate)
	api.POST("/units/toggle", lookup.ToggleUnits)
	api.GET("/recents", lookup.Recents)
	api.POST("/recents/select", lookup.SelectRecent)
	api.DELETE("/recents", lookup.ClearRecents)
	api.GET("/view", lookup.View)

	health := handlers.NewHealthHandler(deps.Store, deps.Logger)
	s.engine.GET("/health", health.Health)
	s.engine.GET("/health/live", health.Liveness)
	s.engine.GET("/health/ready", health.Readiness)

	s.engine.GET("/metrics", metrics.ServeMetrics)
}

// Handler exposes the router, mostly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) Addr() string {
	return fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
}

// Start serves until Shutdown is called. It returns nil after a clean
// shutdown.
func (s *Server) Start() error {
	s.logger.Info("Starting server", zap.String("addr", s.server.Addr))
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	return s.server.Shutdown(ctx)
}
