// Package server exposes model generation over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/skillian/logging"

	"github.com/tordrt/sdbgen/internal/config"
)

var logger = logging.GetLogger("sdbgen")

const shutdownTimeout = 5 * time.Second

// Server serves the generation API
type Server struct {
	cfg    config.ServerConfig
	router *gin.Engine
	ids    *idSource
}

// New builds the router for cfg
func New(cfg config.ServerConfig) *Server {
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = config.DefaultConfig().Server.MaxBodyBytes
	}

	s := &Server{
		cfg:    cfg,
		router: gin.New(),
		ids:    newIDSource(),
	}
	s.router.Use(gin.Recovery(), RequestID(s.ids), accessLog())

	s.router.GET("/healthz", HealthHandler())

	v1 := s.router.Group("/v1")
	{
		v1.GET("/formats", FormatsHandler())
		v1.POST("/generate", GenerateHandler(cfg.MaxBodyBytes))
		v1.POST("/model", ModelHandler(cfg.MaxBodyBytes))
	}

	return s
}

// Handler returns the HTTP handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on cfg.Addr until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info("listening on %s", s.cfg.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	logger.Info("shutting down")
	return srv.Shutdown(shutdownCtx)
}

func accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("%s %s %d %s id=%s",
			c.Request.Method, c.Request.URL.Path, c.Writer.Status(),
			time.Since(start), c.GetString(requestIDKey))
	}
}
