//-------------------------------------------------------------------------
//
// Cascade Search
//
// Copyright (c) 2025 - 2026, Cascade Search contributors
// This software is released under the MIT License
//
//-------------------------------------------------------------------------

// Package server provides the HTTP server for the retrieval cascade.
package server

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/cascadesearch/retrieval-cascade/internal/cascade"
	"github.com/cascadesearch/retrieval-cascade/internal/config"
	"github.com/cascadesearch/retrieval-cascade/internal/metrics"
)

// Server is the HTTP server for the retrieval cascade.
type Server struct {
	config  *config.Config
	cascade *cascade.Service
	metrics *metrics.Manager
	logger  *slog.Logger
	server  *http.Server
	mux     *http.ServeMux
}

// New creates a new HTTP server around svc.
func New(cfg *config.Config, svc *cascade.Service, metricsManager *metrics.Manager, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if metricsManager == nil {
		metricsManager = metrics.NoOpManager()
	}

	s := &Server{
		config:  cfg,
		cascade: svc,
		metrics: metricsManager,
		logger:  logger,
		mux:     http.NewServeMux(),
	}

	s.setupRoutes()
	return s
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe() error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.ListenAddress, s.config.Server.Port)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.applyMiddleware(s.mux),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	s.logger.Info("starting server",
		"address", addr,
		"tls", s.config.Server.TLS.Enabled)

	if s.config.Server.TLS.Enabled {
		return s.serveTLS()
	}

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}

	return s.server.Serve(listener)
}

func (s *Server) serveTLS() error {
	tlsCfg := &tls.Config{
		MinVersion: tls.VersionTLS12,
	}
	s.server.TLSConfig = tlsCfg

	return s.server.ListenAndServeTLS(
		s.config.Server.TLS.CertFile,
		s.config.Server.TLS.KeyFile,
	)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down server")

	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}

// Addr returns the server's address. Returns empty string if not started.
func (s *Server) Addr() string {
	if s.server != nil {
		return s.server.Addr
	}
	return ""
}

// Handler returns the fully wrapped HTTP handler, for use in tests
// that don't want to bind a socket.
func (s *Server) Handler() http.Handler {
	return s.applyMiddleware(s.mux)
}
