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
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/NVIDIA/microarch/pkg/errors"
	"github.com/NVIDIA/microarch/pkg/serializer"
)

// routes returns the fully wired handler for the server.
func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/", s.handleDefault)
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/ready", s.handleReady)
	mux.Handle("/metrics", promhttp.Handler())

	mux.Handle("/v1/host", s.withMiddleware(http.HandlerFunc(s.handleHost)))
	mux.Handle("/v1/targets", s.withMiddleware(http.HandlerFunc(s.handleTargets)))
	mux.Handle("/v1/target", s.withMiddleware(http.HandlerFunc(s.handleTarget)))
	mux.Handle("/v1/flags", s.withMiddleware(http.HandlerFunc(s.handleFlags)))

	return mux
}

// handleDefault serves basic service metadata at the root path.
func (s *Server) handleDefault(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		writeError(w, r, http.StatusNotFound,
			errors.ErrCodeNotFound, "resource not found", false,
			map[string]any{"path": r.URL.Path})
		return
	}

	s.mu.RLock()
	ready := s.ready
	s.mu.RUnlock()

	info := map[string]any{
		"name":    s.config.Name,
		"version": s.config.Version,
		"ready":   ready,
		"routes": []string{
			"GET /v1/host",
			"GET /v1/targets",
			"GET /v1/target?name=",
			"GET /v1/flags?target=&compiler=&version=",
			"GET /health",
			"GET /ready",
			"GET /metrics",
		},
	}
	serializer.RespondJSON(w, http.StatusOK, info)
}
