// Package server runs the page builder API over net/http.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/AtRiskMedia/pagebuilder/internal/application/container"
	"github.com/AtRiskMedia/pagebuilder/internal/presentation/http/routes"
	"github.com/AtRiskMedia/pagebuilder/pkg/config"
)

// Options holds the listener address and connection timeouts
type Options struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// OptionsFromConfig reads the server settings from pkg/config
func OptionsFromConfig() Options {
	return Options{
		Port:         config.Port,
		ReadTimeout:  config.ServerReadTimeout,
		WriteTimeout: config.ServerWriteTimeout,
		IdleTimeout:  config.ServerIdleTimeout,
	}
}

// Server serves the builder routes for one container
type Server struct {
	httpServer *http.Server
	container  *container.Container
}

// New builds the router and the http.Server around it
func New(opts Options, container *container.Container) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:         ":" + opts.Port,
			Handler:      routes.SetupRoutes(container),
			ReadTimeout:  opts.ReadTimeout,
			WriteTimeout: opts.WriteTimeout,
			IdleTimeout:  opts.IdleTimeout,
		},
		container: container,
	}
}

// Addr returns the listen address
func (s *Server) Addr() string { return s.httpServer.Addr }

// Handler returns the routed handler
func (s *Server) Handler() http.Handler { return s.httpServer.Handler }

// Start listens until Stop is called
func (s *Server) Start() error {
	s.container.Logger.System().Info("Starting page builder API",
		"address", s.httpServer.Addr,
		"readTimeout", s.httpServer.ReadTimeout,
		"writeTimeout", s.httpServer.WriteTimeout)

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}
	return nil
}

// Stop drains in-flight requests. Open workspaces are in memory only and are
// dropped with the process, so their count is logged.
func (s *Server) Stop(ctx context.Context) error {
	s.container.Logger.Shutdown().Info("Shutting down page builder API",
		"openWorkspaces", s.container.Workspaces.Len())
	return s.httpServer.Shutdown(ctx)
}
