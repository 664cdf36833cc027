// Package server exposes the REST API over the comparison services.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/bobmcallan/yardstick/internal/app"
	"github.com/bobmcallan/yardstick/internal/common"
)

// Server wraps the HTTP server and application reference. It owns the
// shutdown channel signalled by the dev-only shutdown endpoint.
type Server struct {
	app          *app.App
	server       *http.Server
	logger       *common.Logger
	shutdownChan chan struct{}
}

// NewServer builds the HTTP REST API server from the application's config:
// bind address and timeouts come from cfg.Server, the middleware chain from
// cfg.Auth and cfg.Logging.
func NewServer(a *app.App) *Server {
	s := &Server{
		app:          a,
		logger:       a.Logger,
		shutdownChan: make(chan struct{}, 1),
	}

	mux := http.NewServeMux()
	s.registerRoutes(mux)

	cfg := a.Config.Server
	s.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      applyMiddleware(mux, a.Logger, a.Config),
		ReadTimeout:  cfg.GetReadTimeout(),
		WriteTimeout: cfg.GetWriteTimeout(),
		IdleTimeout:  time.Minute,
	}

	return s
}

// Handler returns the HTTP handler for testing.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// ShutdownRequested is signalled once when a client calls the shutdown
// endpoint.
func (s *Server) ShutdownRequested() <-chan struct{} {
	return s.shutdownChan
}

// Start starts the HTTP server (blocking).
func (s *Server) Start() error {
	s.logger.Info().
		Str("addr", s.server.Addr).
		Msg("Starting REST API server")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
