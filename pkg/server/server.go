// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/NVIDIA/microarch/pkg/detector"
	"github.com/NVIDIA/microarch/pkg/errors"
	"github.com/NVIDIA/microarch/pkg/march"
	"github.com/NVIDIA/microarch/pkg/probe"
)

// Server serves the microarchitecture registry, host detection, and
// compiler flag resolution over HTTP.
type Server struct {
	config      *Config
	httpServer  *http.Server
	rateLimiter *rate.Limiter
	detector    *detector.Detector
	logger      *slog.Logger

	mu    sync.RWMutex
	ready bool
}

// Option customizes a Server.
type Option func(*Server)

// WithDetector overrides the host detector, used by tests to serve
// fixture-backed hosts.
func WithDetector(d *detector.Detector) Option {
	return func(s *Server) {
		s.detector = d
	}
}

// WithLogger overrides the server logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a server from the given config.
func NewServer(config *Config, opts ...Option) (*Server, error) {
	if config == nil {
		return nil, errors.New(errors.ErrCodeInvalidRequest, "server config is required")
	}

	s := &Server{
		config:      config,
		rateLimiter: rate.NewLimiter(config.RateLimit, config.RateLimitBurst),
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.detector == nil {
		s.detector = detector.New(probe.New(), detector.WithLogger(s.logger))
	}

	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", config.Address, config.Port),
		Handler:           s.routes(),
		ReadTimeout:       config.ReadTimeout,
		ReadHeaderTimeout: config.ReadTimeout,
		WriteTimeout:      config.WriteTimeout,
		IdleTimeout:       config.IdleTimeout,
	}

	return s, nil
}

// Handler exposes the wired routes, used by tests with httptest.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// SetReady flips the readiness state reported by /ready.
func (s *Server) SetReady(ready bool) {
	s.mu.Lock()
	s.ready = ready
	s.mu.Unlock()
}

// Start runs the HTTP listener until the context is canceled, then shuts
// down gracefully within the configured shutdown timeout.
func (s *Server) Start(ctx context.Context) error {
	// Fail fast when the embedded registry cannot load.
	if _, err := march.Targets(); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, "microarchitecture registry failed to load", err)
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.Info("server starting",
			"name", s.config.Name,
			"version", s.config.Version,
			"addr", s.httpServer.Addr)
		s.SetReady(true)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return errors.Wrap(errors.ErrCodeInternal, "http server failed", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		s.SetReady(false)
		s.logger.Info("server shutting down", "timeout", s.config.ShutdownTimeout)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return errors.Wrap(errors.ErrCodeInternal, "graceful shutdown failed", err)
		}
		return nil
	})

	return g.Wait()
}

// Run starts the server with config from the environment and blocks until
// SIGINT or SIGTERM.
func Run(version string) error {
	config := NewConfig()
	config.Version = version
	return RunWithConfig(config)
}

// RunWithConfig starts the server with the given config and blocks until
// SIGINT or SIGTERM.
func RunWithConfig(config *Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s, err := NewServer(config)
	if err != nil {
		return err
	}
	return s.Start(ctx)
}
