package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/aescanero/gistproxy/internal/application/lookup"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Looker resolves a username to its gist URLs
type Looker interface {
	Lookup(ctx context.Context, username string) (*lookup.Result, error)
}

// MetricsCollector records HTTP metrics and serves the scrape endpoint
type MetricsCollector interface {
	ObserveHTTPRequest(method, route string, status int, duration time.Duration)
	Handler() http.Handler
}

// Server represents the HTTP API server.
// The public router only carries the gist route; health and metrics live on
// a separate ops listener so no username is shadowed.
type Server struct {
	router    *gin.Engine
	opsRouter *gin.Engine
	server    *http.Server
	opsServer *http.Server
	lookup    Looker
	metrics   MetricsCollector
	logger    *zap.Logger
	startedAt time.Time
}

// Config holds HTTP server configuration
type Config struct {
	Port              int
	OpsPort           int
	ReadHeaderTimeout time.Duration
	Lookup            Looker
	Metrics           MetricsCollector
	Logger            *zap.Logger
}

// NewServer creates a new HTTP server
func NewServer(cfg *Config) *Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestID())
	router.Use(requestLogger(cfg.Logger))
	router.Use(requestMetrics(cfg.Metrics))
	router.Use(corsMiddleware())

	opsRouter := gin.New()
	opsRouter.Use(gin.Recovery())

	s := &Server{
		router:    router,
		opsRouter: opsRouter,
		lookup:    cfg.Lookup,
		metrics:   cfg.Metrics,
		logger:    cfg.Logger,
		startedAt: time.Now(),
	}

	s.setupRoutes()

	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
	s.opsServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.OpsPort),
		Handler:           opsRouter,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}

	return s
}

// setupRoutes configures API routes
func (s *Server) setupRoutes() {
	s.router.GET("/:username", s.handleGetGists)

	s.opsRouter.GET("/health", s.handleHealth)
	s.opsRouter.GET("/metrics", gin.WrapH(s.metrics.Handler()))
}

// Handler returns the public router
func (s *Server) Handler() http.Handler {
	return s.router
}

// OpsHandler returns the health and metrics router
func (s *Server) OpsHandler() http.Handler {
	return s.opsRouter
}

// Start starts the public and ops listeners and blocks until either fails
// or both are shut down.
func (s *Server) Start() error {
	errCh := make(chan error, 2)

	go func() {
		s.logger.Info("starting ops server", zap.String("addr", s.opsServer.Addr))
		errCh <- serve(s.opsServer, "ops")
	}()

	go func() {
		s.logger.Info("starting HTTP server", zap.String("addr", s.server.Addr))
		errCh <- serve(s.server, "HTTP")
	}()

	for i := 0; i < 2; i++ {
		if err := <-errCh; err != nil {
			return err
		}
	}
	return nil
}

func serve(srv *http.Server, name string) error {
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start %s server: %w", name, err)
	}
	return nil
}

// Shutdown gracefully shuts down both listeners
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")

	var errs []error
	if err := s.server.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("failed to shutdown HTTP server: %w", err))
	}
	if err := s.opsServer.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("failed to shutdown ops server: %w", err))
	}
	if err := errors.Join(errs...); err != nil {
		return err
	}

	s.logger.Info("HTTP server shut down complete")
	return nil
}
