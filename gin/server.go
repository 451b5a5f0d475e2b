// Package gin serves the browse pipeline over HTTP using the Gin framework.
package gin

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/fwojciec/docscout"
	"github.com/gin-gonic/gin"
)

// DefaultShutdownTimeout bounds how long in-flight requests may drain.
const DefaultShutdownTimeout = 5 * time.Second

// Server exposes a docscout.BrowseService as a JSON API.
type Server struct {
	service docscout.BrowseService
	store   docscout.ReportStore
	logger  *slog.Logger
	limit   RateLimitConfig
	started time.Time
	engine  *gin.Engine
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		s.logger = l
	}
}

// WithRateLimit sets the per-client token bucket.
func WithRateLimit(cfg RateLimitConfig) Option {
	return func(s *Server) {
		s.limit = cfg
	}
}

// NewServer builds the router. store backs GET /api/documentation and may
// be nil, in which case no documentation is ever reported.
func NewServer(service docscout.BrowseService, store docscout.ReportStore, opts ...Option) *Server {
	s := &Server{
		service: service,
		store:   store,
		logger:  slog.New(slog.DiscardHandler),
		limit:   DefaultRateLimit,
		started: time.Now(),
	}
	for _, opt := range opts {
		opt(s)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogger(s.logger))

	api := r.Group("/api")
	api.GET("/health", s.health)

	limited := api.Group("")
	limited.Use(RateLimit(s.limit))
	limited.POST("/documentation", s.postDocumentation)
	limited.GET("/documentation", s.getDocumentation)
	limited.POST("/scrape", s.scrape)

	s.engine = r
	return s
}

// Handler returns the HTTP handler serving all routes.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Serve accepts connections on ln until ctx is canceled, then drains
// in-flight requests.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server listening", "addr", ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), DefaultShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	s.logger.Info("HTTP server drained")
	return nil
}

// ListenAndServe listens on addr and serves until ctx is canceled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		begin := time.Now()
		c.Next()
		logger.Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"client", c.ClientIP(),
			"duration", time.Since(begin),
		)
	}
}
