// Package httpserver wires the recipefeed handlers onto a single HTTP listener.
package httpserver

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"git.home.luguber.info/inful/recipefeed/internal/config"
	"git.home.luguber.info/inful/recipefeed/internal/foundation/errors"
	"git.home.luguber.info/inful/recipefeed/internal/logfields"
	"git.home.luguber.info/inful/recipefeed/internal/server/handlers"
	smw "git.home.luguber.info/inful/recipefeed/internal/server/middleware"
)

// Service is everything the HTTP surface needs from the application.
type Service interface {
	handlers.FeedService
	handlers.FavoritesService
	handlers.PreferencesService
	handlers.NetworkService
}

// Options carries optional collaborators.
type Options struct {
	// MetricsHandler is mounted at /metrics when set.
	MetricsHandler http.Handler
	StartTime      time.Time
	Logger         *slog.Logger
}

// Server manages the API listener.
type Server struct {
	cfg    config.ServerConfig
	logger *slog.Logger

	monitoringHandlers  *handlers.MonitoringHandlers
	feedHandlers        *handlers.FeedHandlers
	favoritesHandlers   *handlers.FavoritesHandlers
	preferencesHandlers *handlers.PreferencesHandlers
	metricsHandler      http.Handler

	// middleware chain
	mchain func(http.Handler) http.Handler

	mu   sync.Mutex
	srv  *http.Server
	addr net.Addr
}

// New constructs a new HTTP server wiring instance.
func New(cfg config.ServerConfig, svc Service, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.StartTime.IsZero() {
		opts.StartTime = time.Now()
	}
	return &Server{
		cfg:                 cfg,
		logger:              opts.Logger,
		monitoringHandlers:  handlers.NewMonitoringHandlers(svc, opts.StartTime),
		feedHandlers:        handlers.NewFeedHandlers(svc),
		favoritesHandlers:   handlers.NewFavoritesHandlers(svc),
		preferencesHandlers: handlers.NewPreferencesHandlers(svc),
		metricsHandler:      opts.MetricsHandler,
		mchain:              smw.Chain(opts.Logger, errors.NewHTTPErrorAdapter(opts.Logger)),
	}
}

// Handler returns the routed handler wrapped in the middleware chain.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", s.monitoringHandlers.HandleHealthCheck)
	mux.HandleFunc("GET /api/network", s.monitoringHandlers.HandleNetwork)

	mux.HandleFunc("GET /api/recipes", s.feedHandlers.HandleRecipes)
	mux.HandleFunc("GET /api/search", s.feedHandlers.HandleSearch)
	mux.HandleFunc("GET /api/joke", s.feedHandlers.HandleJoke)

	mux.HandleFunc("GET /api/favorites", s.favoritesHandlers.HandleList)
	mux.HandleFunc("POST /api/favorites", s.favoritesHandlers.HandleAdd)
	mux.HandleFunc("DELETE /api/favorites", s.favoritesHandlers.HandleClear)
	mux.HandleFunc("DELETE /api/favorites/{id}", s.favoritesHandlers.HandleRemove)

	mux.HandleFunc("GET /api/preferences", s.preferencesHandlers.HandleGet)
	mux.HandleFunc("PUT /api/preferences", s.preferencesHandlers.HandleUpdate)

	if s.metricsHandler != nil {
		mux.Handle("GET /metrics", s.metricsHandler)
	}
	return s.mchain(mux)
}

// Start binds the configured address and serves in the background. Binding
// happens before Start returns so an address in use fails fast.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.srv != nil {
		return errors.DaemonError("http server already started").Build()
	}

	lc := net.ListenConfig{}
	ln, err := lc.Listen(ctx, "tcp", s.cfg.Addr)
	if err != nil {
		return errors.WrapError(err, errors.CategoryDaemon, "http startup failed").
			WithContext("addr", s.cfg.Addr).
			Build()
	}

	s.srv = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	s.addr = ln.Addr()

	srv := s.srv
	go func() {
		if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			s.logger.Error("API server error", logfields.Error(err))
		}
	}()
	s.logger.Info("HTTP server started", slog.String("addr", s.addr.String()))
	return nil
}

// Addr is the bound listener address, or "" before Start.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.addr == nil {
		return ""
	}
	return s.addr.String()
}

// Stop gracefully shuts the server down. Stopping a server that never
// started is a no-op.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	srv := s.srv
	s.srv = nil
	s.mu.Unlock()
	if srv == nil {
		return nil
	}
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("api server shutdown: %w", err)
	}
	s.logger.Info("HTTP server stopped")
	return nil
}
