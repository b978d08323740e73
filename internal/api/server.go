// Package api is the HTTP transport for briefing requests.
package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dusk-indust/briefly/internal/logging"
	"github.com/dusk-indust/briefly/internal/orchestrator"
)

// Classifier answers the routing question on its own.
type Classifier interface {
	Classify(ctx context.Context, transcript string) orchestrator.Classification
}

// Server is the briefing HTTP server.
type Server struct {
	orch       orchestrator.Orchestrator
	classifier Classifier
	gatherer   prometheus.Gatherer
	logger     *slog.Logger
	router     *gin.Engine
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the access and error logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) { s.logger = logging.OrDefault(l) }
}

// WithClassifier mounts POST /api/classify.
func WithClassifier(c Classifier) Option {
	return func(s *Server) { s.classifier = c }
}

// WithMetrics mounts GET /metrics over g.
func WithMetrics(g prometheus.Gatherer) Option {
	return func(s *Server) { s.gatherer = g }
}

// NewServer creates the server and registers its routes.
func NewServer(orch orchestrator.Orchestrator, opts ...Option) *Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	s := &Server{
		orch:   orch,
		logger: slog.Default(),
		router: router,
	}
	for _, opt := range opts {
		opt(s)
	}

	router.Use(gin.Recovery(), requestID(), accessLog(s.logger), cors())

	router.GET("/health", s.handleHealth)
	router.POST("/summarize", s.handlePrep)
	if s.gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})))
	}

	// API routes
	api := router.Group("/api")
	{
		api.POST("/prep", s.handlePrep)
		if s.classifier != nil {
			api.POST("/classify", s.handleClassify)
		}
	}

	return s
}

// Handler returns the underlying http.Handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = httpServer.Shutdown(shutdownCtx)
	}()

	s.logger.Info("http server listening", "addr", addr)
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
