// ABOUTME: HTTP server wiring the relay behind a gin router
// ABOUTME: Runs until the context is cancelled, then drains gracefully
package httpserver

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/harper/chat-relay/internal/relay"
)

// Server serves the relay's HTTP API.
type Server struct {
	relay           *relay.Relay
	addr            string
	shutdownTimeout time.Duration
	log             zerolog.Logger
	engine          *gin.Engine
}

// New creates a server for the given relay listening on addr.
func New(r *relay.Relay, addr string, shutdownTimeout time.Duration, log zerolog.Logger) *Server {
	s := &Server{
		relay:           r,
		addr:            addr,
		shutdownTimeout: shutdownTimeout,
		log:             log,
	}
	s.engine = s.buildRouter()
	return s
}

func (s *Server) buildRouter() *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(s.requestLogger())

	engine.GET("/", s.handleRoot)
	engine.GET("/healthz", s.handleHealth)
	engine.POST("/chat", s.handleChat)
	engine.GET("/conversations", s.handleListConversations)
	engine.GET("/conversations/:id/history", s.handleHistory)

	return engine
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("duration", time.Since(start)).
			Msg("request")
	}
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is cancelled, then shuts down within the configured
// timeout so in-flight turns can finish.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.addr,
		Handler: s.engine,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", s.addr).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.log.Info().Msg("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
