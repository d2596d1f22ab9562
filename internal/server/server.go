// Package server exposes the hashtag feeds over HTTP.
package server

import (
	"context"
	stderrors "errors"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"

	"hashfeed/pkg/config"
	"hashfeed/pkg/feed"
	"hashfeed/pkg/logger"
	"hashfeed/pkg/ratelimit"
)

// Server is the feed gateway HTTP server
type Server struct {
	cfg    config.ServerConfig
	router chi.Router
	logger logger.Logger
}

// New builds the router for service
func New(cfg config.ServerConfig, service FeedService, log logger.Logger) *Server {
	if log == nil {
		log = logger.GetLogger()
	}
	log = log.WithField("component", "http")

	h := &handlers{
		service:  service,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   log,
	}
	if cfg.RateLimit > 0 && cfg.RateWindow > 0 {
		h.limits = ratelimit.NewKeyed(func() ratelimit.Limiter {
			return ratelimit.NewSlidingWindow(cfg.RateLimit, cfg.RateWindow)
		})
	}

	origins := cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(accessLog(log))
	r.Use(recoverJSON(log))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", RequestIDHeader},
		ExposedHeaders: []string{RequestIDHeader, "Retry-After"},
		MaxAge:         300,
	}))

	r.NotFound(h.notFound)
	r.MethodNotAllowed(h.methodNotAllowed)

	r.Get("/healthz", h.health)
	for _, p := range feed.Platforms {
		r.Get("/"+p.String(), h.platformFeed(p))
	}
	r.Get("/feeds/{platform}", h.namedFeed)

	return &Server{cfg: cfg, router: r, logger: log}
}

// Handler returns the root handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run listens on the configured address until ctx is cancelled
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled, then shuts down gracefully
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	readHeader := s.cfg.ReadHeaderTimeout
	if readHeader <= 0 {
		readHeader = 10 * time.Second
	}
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: readHeader,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()
	logger.LogComponentStart("http", map[string]interface{}{"addr": ln.Addr().String()})

	select {
	case err := <-errCh:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	timeout := s.cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	err := srv.Shutdown(shutdownCtx)
	logger.LogComponentStop("http", "context cancelled")
	if err != nil {
		return err
	}
	if err := <-errCh; err != nil && !stderrors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
