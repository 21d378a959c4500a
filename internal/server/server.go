// Package server exposes extraction, eligibility and the stored licitaciones
// over HTTP.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/joseph-ayodele/licitaciones/internal/common"
	"github.com/joseph-ayodele/licitaciones/internal/core"
	"github.com/joseph-ayodele/licitaciones/internal/eligibility"
	"github.com/joseph-ayodele/licitaciones/internal/export"
	"github.com/joseph-ayodele/licitaciones/internal/repository"
)

// Deps are the collaborators behind the routes. Store and Export may be nil,
// in which case the storage routes answer 503.
type Deps struct {
	Extractor   core.Extractor
	Store       repository.Store
	Export      *export.Service
	Eligibility eligibility.Evaluator
	// Metrics serves /metrics; defaults to the Prometheus default registry.
	Metrics http.Handler
}

// HTTP is the echo server.
type HTTP struct {
	echo   *echo.Echo
	deps   Deps
	logger *slog.Logger
}

func NewHTTP(deps Deps, logger *slog.Logger) *HTTP {
	if logger == nil {
		logger = slog.Default()
	}
	if deps.Metrics == nil {
		deps.Metrics = promhttp.Handler()
	}
	if deps.Eligibility.Logger == nil {
		deps.Eligibility.Logger = logger
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			reqID := c.Response().Header().Get(echo.HeaderXRequestID)
			reqLogger := logger.With("req_id", reqID)
			ctx := common.WithLogger(common.WithRequestID(c.Request().Context(), reqID), reqLogger)
			c.SetRequest(c.Request().WithContext(ctx))

			err := next(c)
			if err != nil {
				c.Error(err)
			}
			reqLogger.Info("http.request",
				"method", c.Request().Method,
				"uri", c.Request().RequestURI,
				"status", c.Response().Status,
				"elapsed_ms", time.Since(start).Milliseconds(),
			)
			return nil
		}
	})

	s := &HTTP{echo: e, deps: deps, logger: logger}
	s.registerRoutes()
	return s
}

func (s *HTTP) registerRoutes() {
	s.echo.GET("/health", s.handleHealth)
	s.echo.GET("/metrics", echo.WrapHandler(s.deps.Metrics))

	v1 := s.echo.Group("/api/v1")
	v1.POST("/extract", s.handleExtract)
	v1.POST("/eligibility", s.handleEligibility)
	v1.GET("/licitaciones", s.handleList)
	v1.GET("/licitaciones/export.xlsx", s.handleExport)
	v1.PATCH("/licitaciones/:emailId/approval", s.handleApproval)
}

// ServeHTTP lets tests and embedding servers drive the router directly.
func (s *HTTP) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}

// Start blocks serving addr until Shutdown.
func (s *HTTP) Start(addr string) error {
	s.logger.Info("http.start", "addr", addr)
	if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *HTTP) Shutdown(ctx context.Context) error {
	s.logger.Info("http.shutdown")
	return s.echo.Shutdown(ctx)
}

// httpError maps application errors onto status codes. Server-side failures
// keep their detail in the log only.
func httpError(c echo.Context, op string, err error) error {
	var code int
	switch {
	case errors.Is(err, common.ErrInvalidInput), errors.Is(err, common.ErrValidation):
		code = http.StatusBadRequest
	case errors.Is(err, common.ErrNotFound):
		code = http.StatusNotFound
	case errors.Is(err, common.ErrUpstream), errors.Is(err, common.ErrDatabase):
		code = http.StatusServiceUnavailable
	default:
		code = http.StatusInternalServerError
	}
	if code >= 500 {
		common.LoggerFromContext(c.Request().Context()).Error("http."+op+".failed", "error", err)
		return echo.NewHTTPError(code, http.StatusText(code))
	}
	return echo.NewHTTPError(code, err.Error())
}
