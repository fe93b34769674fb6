// Package server exposes the split pipeline over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/ukaji3/scope2-go/internal/metrics"
	"github.com/ukaji3/scope2-go/pkg/scope2"
)

// Server serves uploads to a Pipeline.
type Server struct {
	pipeline  *scope2.Pipeline
	metrics   *metrics.Metrics
	log       zerolog.Logger
	maxUpload int64
	engine    *gin.Engine
}

// New builds the router. Metrics are registered on a fresh registry and
// exposed at /metrics.
func New(p *scope2.Pipeline, log zerolog.Logger) *Server {
	reg := prometheus.NewRegistry()
	s := &Server{
		pipeline:  p,
		metrics:   metrics.New(reg),
		log:       log,
		maxUpload: p.Config().Server.MaxUploadSize,
	}

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(log))
	r.GET("/healthz", s.health)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	v1 := r.Group("/api/v1")
	{
		v1.POST("/columns", s.columns)
		v1.POST("/split", s.split)
		v1.POST("/split/:bucket", s.splitBucket)
	}
	s.engine = r
	return s
}

// Handler returns the HTTP handler of the server.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run listens on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", addr).Msg("HTTP server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.log.Info().Msg("HTTP server shutting down")
	return srv.Shutdown(shutdownCtx)
}

func requestLogger(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		ev := log.Info()
		if c.Writer.Status() >= http.StatusInternalServerError {
			ev = log.Error()
		}
		ev.Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	}
}
