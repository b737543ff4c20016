// Package api exposes the task timer over HTTP.
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

	"github.com/sadopc/taskday/internal/auth"
	"github.com/sadopc/taskday/internal/config"
	"github.com/sadopc/taskday/internal/session"
)

// Server routes HTTP requests to per-user views of a session.
type Server struct {
	sess   *session.Session
	logger *slog.Logger
	router *gin.Engine
}

// NewServer builds the router. gatherer backs /metrics and may be nil.
func NewServer(sess *session.Session, authCfg auth.Config, gatherer prometheus.Gatherer) *Server {
	router := gin.New()
	s := &Server{
		sess:   sess,
		logger: sess.Logger(),
		router: router,
	}

	router.Use(gin.Recovery(), s.logRequests())

	router.GET("/healthz", s.healthz)
	if gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}

	read := auth.RequireScope(auth.ScopeRead, auth.ScopeWrite)
	write := auth.RequireScope(auth.ScopeWrite)

	v1 := router.Group("/v1")
	v1.Use(auth.NewMiddleware(authCfg, nil).Handler())
	{
		v1.GET("/tasks", read, s.listTasks)
		v1.POST("/tasks", write, s.createTask)
		v1.GET("/tasks/:id", read, s.getTask)
		v1.PATCH("/tasks/:id", write, s.updateTask)
		v1.DELETE("/tasks/:id", write, s.deleteTask)

		v1.GET("/tasks/:id/timer", read, s.timerStatus)
		v1.POST("/tasks/:id/timer/start", write, s.startTimer)
		v1.POST("/entries/:id/stop", write, s.stopEntry)

		v1.PUT("/tasks/:id/target", write, s.setTarget)
		v1.DELETE("/tasks/:id/target", write, s.clearTarget)

		v1.GET("/diary/:day", read, s.getDiary)
		v1.PUT("/diary/:day", write, s.saveDiary)

		v1.GET("/teams", read, s.listTeams)
		v1.POST("/teams", write, s.createTeam)

		v1.GET("/reports/daily", read, s.dailyReport)
	}
	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// logRequests logs each request and records it in the metrics, labelled by
// route template rather than raw path.
func (s *Server) logRequests() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		elapsed := time.Since(start)
		status := c.Writer.Status()

		if m := s.sess.Metrics(); m != nil {
			m.RecordRequest(c.Request.Method, c.FullPath(), status, elapsed)
		}
		level := slog.LevelInfo
		if status >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		s.logger.Log(c.Request.Context(), level, "http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"elapsed", elapsed,
		)
	}
}

func (s *Server) healthz(c *gin.Context) {
	if err := s.sess.Ping(c.Request.Context()); err != nil {
		c.String(http.StatusServiceUnavailable, "unavailable")
		return
	}
	c.String(http.StatusOK, "ok")
}

// user returns the session acting for the authenticated subject.
func (s *Server) user(c *gin.Context) *session.Session {
	claims, _ := auth.FromContext(c.Request.Context())
	return s.sess.As(claims.Subject)
}

// NewHTTPServer wraps handler with the configured timeouts.
func NewHTTPServer(cfg config.HTTPConfig, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:         cfg.Address,
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}
}

// Serve runs srv until ctx is cancelled, then shuts it down within
// shutdownTimeout.
func Serve(ctx context.Context, srv *http.Server, shutdownTimeout time.Duration, logger *slog.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
		return err
	}
	return <-errCh
}
