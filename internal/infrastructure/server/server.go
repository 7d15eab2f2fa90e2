package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	httpHandlers "github.com/agent-trust-protocol/atp-core/internal/adapters/http"
	"github.com/agent-trust-protocol/atp-core/internal/application/services"
	"github.com/agent-trust-protocol/atp-core/internal/domain/entities"
	"github.com/agent-trust-protocol/atp-core/internal/infrastructure/config"
	"github.com/agent-trust-protocol/atp-core/internal/infrastructure/logger"
)

// Server represents the HTTP documentation server
type Server struct {
	echo     *echo.Echo
	config   *config.Config
	logger   *logger.Logger
	registry *prometheus.Registry
}

// New creates a new server instance
func New(cfg *config.Config, appLogger *logger.Logger) (*Server, error) {
	e := echo.New()

	// Configure Echo
	e.HideBanner = true
	e.HidePort = true
	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout
	e.Server.IdleTimeout = cfg.Server.IdleTimeout

	// Custom error handler
	e.HTTPErrorHandler = customErrorHandler(appLogger)

	registry := prometheus.NewRegistry()

	// Initialize services
	renderService := services.NewRenderService(cfg.Docs.SiteName, entities.DefaultNav(), appLogger)

	// Initialize handlers
	docsMetrics := httpHandlers.NewDocsMetrics(registry)
	docsHandler := httpHandlers.NewDocsHandler(cfg.Docs.Root, cfg.Docs.Index, renderService, appLogger, docsMetrics)

	server := &Server{
		echo:     e,
		config:   cfg,
		logger:   appLogger,
		registry: registry,
	}

	server.setupMiddleware()
	server.setupRoutes()

	if cfg.Metrics.Enabled {
		server.setupMetrics()
	}

	// Markdown interception runs last in the chain before static
	// serving; everything the handler declines falls through to the
	// static file middleware.
	e.Use(docsHandler.Middleware())
	e.Use(middleware.StaticWithConfig(middleware.StaticConfig{
		Root:   cfg.Docs.Root,
		Index:  cfg.Docs.Index,
		Browse: cfg.Docs.Browse,
	}))

	return server, nil
}

// setupMiddleware configures middleware
func (s *Server) setupMiddleware() {
	// Recovery middleware
	s.echo.Use(middleware.Recover())

	// Request ID middleware
	s.echo.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))

	// Logger middleware
	s.echo.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:      true,
		LogStatus:   true,
		LogMethod:   true,
		LogLatency:  true,
		LogError:    true,
		LogRemoteIP: true,
		LogValuesFunc: func(c echo.Context, values middleware.RequestLoggerValues) error {
			fields := []interface{}{
				"method", values.Method,
				"uri", values.URI,
				"status", values.Status,
				"latency_ms", float64(values.Latency.Nanoseconds()) / 1000000,
				"remote_ip", values.RemoteIP,
			}

			if values.Error != nil {
				fields = append(fields, "error", values.Error.Error())
				s.logger.Errorw("HTTP request failed", fields...)
			} else {
				s.logger.Infow("HTTP request", fields...)
			}

			return nil
		},
	}))

	// Gzip responses; rendered pages compress well
	s.echo.Use(middleware.Gzip())

	// Rate limiting middleware
	s.echo.Use(middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(
			middleware.RateLimiterMemoryStoreConfig{Rate: rate.Limit(s.config.Security.RateLimitRequests), Burst: s.config.Security.RateLimitRequests, ExpiresIn: s.config.Security.RateLimitWindow},
		),
		IdentifierExtractor: func(ctx echo.Context) (string, error) {
			return ctx.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return c.String(http.StatusForbidden, "rate limit exceeded")
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			return c.String(http.StatusTooManyRequests, "rate limit exceeded")
		},
	}))
}

// setupRoutes configures all routes
func (s *Server) setupRoutes() {
	s.echo.GET("/health", s.healthCheck)
}

// setupMetrics configures Prometheus metrics
func (s *Server) setupMetrics() {
	requestsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "status"},
	)

	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method"},
	)

	s.registry.MustRegister(requestsTotal, requestDuration)

	// Custom metrics middleware
	s.echo.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)

			duration := time.Since(start)
			status := c.Response().Status
			if err != nil {
				var he *echo.HTTPError
				if errors.As(err, &he) {
					status = he.Code
				}
			}

			requestsTotal.WithLabelValues(
				c.Request().Method,
				fmt.Sprintf("%d", status),
			).Inc()

			requestDuration.WithLabelValues(
				c.Request().Method,
			).Observe(duration.Seconds())

			return err
		}
	})

	// Metrics endpoint
	metricsHandler := promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})
	s.echo.GET("/metrics", echo.WrapHandler(metricsHandler))
}

// healthCheck reports liveness; the server has no dependencies to probe.
func (s *Server) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// Handler exposes the composed handler chain, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start starts the HTTP server
func (s *Server) Start(address string) error {
	s.logger.Info("Starting server", "address", address)
	return s.echo.Start(address)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down server")
	return s.echo.Shutdown(ctx)
}

// customErrorHandler renders errors as plain text; a file server has
// no JSON surface to keep consistent with.
func customErrorHandler(appLogger *logger.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		code := http.StatusInternalServerError

		var he *echo.HTTPError
		if errors.As(err, &he) {
			code = he.Code
		}
		msg := http.StatusText(code)

		if code == http.StatusInternalServerError {
			appLogger.Error("Internal server error", "error", err, "path", c.Request().URL.Path)
		}

		if !c.Response().Committed {
			if c.Request().Method == http.MethodHead {
				err = c.NoContent(code)
			} else {
				err = c.String(code, msg)
			}
			if err != nil {
				appLogger.Error("Error sending response", "error", err)
			}
		}
	}
}
