// Package server provides the HTTP API for newsmatch.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/meridianads/newsmatch/internal/corpus"
	"github.com/meridianads/newsmatch/internal/index"
	"github.com/meridianads/newsmatch/internal/retrieval"
)

// Config holds HTTP server configuration.
type Config struct {
	Host string
	Port int
}

// Server exposes the retrieval engine over HTTP.
type Server struct {
	echo   *echo.Echo
	engine *retrieval.Engine
	logger *zap.Logger
	config *Config
}

// NewServer creates a new HTTP server over a built engine.
func NewServer(engine *retrieval.Engine, logger *zap.Logger, cfg *Config) (*Server, error) {
	if engine == nil {
		return nil, fmt.Errorf("engine cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required for request tracking and debugging")
	}
	if cfg == nil {
		cfg = &Config{
			Host: "localhost",
			Port: 9090,
		}
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Middleware
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			duration := time.Since(start)

			logger.Info("http request",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Int("status", c.Response().Status),
				zap.Duration("duration", duration),
				zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
			)

			return err
		}
	})

	s := &Server{
		echo:   e,
		engine: engine,
		logger: logger,
		config: cfg,
	}

	s.registerRoutes()

	return s, nil
}

// registerRoutes sets up the HTTP endpoints.
func (s *Server) registerRoutes() {
	s.echo.GET("/health", s.handleHealth)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	v1 := s.echo.Group("/api/v1")
	v1.POST("/search", s.handleSearch)
	v1.GET("/stats", s.handleStats)
	v1.GET("/clients/:name/news", s.handleClientNews)
	v1.GET("/clients/:name/context", s.handleClientContext)
}

// SearchRequest is the request body for POST /api/v1/search.
type SearchRequest struct {
	Query string `json:"query"`
	K     int    `json:"k"`
	Kind  string `json:"kind"`
}

// SearchResponse is the response body for POST /api/v1/search.
type SearchResponse struct {
	Results []corpus.SearchResult `json:"results"`
}

// HealthResponse is the response body for GET /health.
type HealthResponse struct {
	Status  string `json:"status"`
	Records int    `json:"records"`
}

// handleHealth returns a simple health check response.
func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{
		Status:  "ok",
		Records: s.engine.Stats().Records,
	})
}

// handleSearch runs a general semantic search.
func (s *Server) handleSearch(c echo.Context) error {
	var req SearchRequest
	if err := c.Bind(&req); err != nil {
		s.logger.Warn("invalid search request", zap.Error(err))
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Query == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "query field is required")
	}

	kind, err := corpus.ParseKind(req.Kind)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	results, err := s.engine.Search(c.Request().Context(), req.Query, req.K, kind)
	if err != nil {
		return s.mapEngineError(err)
	}

	return c.JSON(http.StatusOK, SearchResponse{Results: results})
}

// handleStats reports the index contents.
func (s *Server) handleStats(c echo.Context) error {
	return c.JSON(http.StatusOK, s.engine.Stats())
}

// handleClientNews returns news relevant to a client's landing page.
func (s *Server) handleClientNews(c echo.Context) error {
	name := c.Param("name")
	k := queryInt(c, "k", 10)

	results, err := s.engine.FindRelevantNewsForClient(c.Request().Context(), name, k)
	if err != nil {
		if errors.Is(err, retrieval.ErrNoLandingPage) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return s.mapEngineError(err)
	}

	return c.JSON(http.StatusOK, SearchResponse{Results: results})
}

// handleClientContext returns combined landing-page and news context
// for a topic.
func (s *Server) handleClientContext(c echo.Context) error {
	name := c.Param("name")
	topic := c.QueryParam("topic")
	if topic == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "topic query parameter is required")
	}
	k := queryInt(c, "k", 5)

	result, err := s.engine.ContextFor(c.Request().Context(), name, topic, k)
	if err != nil {
		return s.mapEngineError(err)
	}

	return c.JSON(http.StatusOK, result)
}

// mapEngineError translates engine failures into HTTP errors.
func (s *Server) mapEngineError(err error) error {
	if errors.Is(err, index.ErrNotBuilt) {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "index not built")
	}
	s.logger.Error("engine error", zap.Error(err))
	return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
}

// queryInt reads an integer query parameter with a default.
func queryInt(c echo.Context, name string, def int) int {
	raw := c.QueryParam(name)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return def
	}
	return n
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.logger.Info("starting http server", zap.String("addr", addr))
	return s.echo.Start(addr)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.echo.Shutdown(ctx)
}

// Handler exposes the echo handler for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}
