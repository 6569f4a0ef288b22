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
	"net/http"
	"sort"
	"time"

	"github.com/NVIDIA/microarch/pkg/defaults"
	"github.com/NVIDIA/microarch/pkg/errors"
	"github.com/NVIDIA/microarch/pkg/march"
	"github.com/NVIDIA/microarch/pkg/serializer"
)

// writeFlagsError maps flag resolution failures onto HTTP statuses: bad
// versions are client errors, targets no supported compiler release can
// produce become 422s.
func writeFlagsError(w http.ResponseWriter, r *http.Request, target, compiler, version string, err error) {
	switch {
	case errors.HasCode(err, errors.ErrCodeInvalidRequest):
		writeError(w, r, http.StatusBadRequest,
			errors.ErrCodeInvalidRequest,
			fmt.Sprintf("invalid compiler version: %s", version), false,
			map[string]any{"version": version})
	case errors.HasCode(err, errors.ErrCodeUnsupportedMicroarchitecture):
		flagResolutionsTotal.WithLabelValues("unsupported").Inc()
		writeError(w, r, http.StatusUnprocessableEntity,
			errors.ErrCodeUnsupportedMicroarchitecture, err.Error(), false,
			map[string]any{
				"target":   target,
				"compiler": compiler,
				"version":  version,
			})
	default:
		writeError(w, r, http.StatusInternalServerError,
			errors.ErrCodeInternal, "failed to resolve optimization flags", true, nil)
	}
}

// requireGet rejects non-GET methods with a 405. Returns true when the
// request may proceed.
func requireGet(w http.ResponseWriter, r *http.Request) bool {
	if r.Method == http.MethodGet {
		return true
	}
	w.Header().Set("Allow", http.MethodGet)
	writeError(w, r, http.StatusMethodNotAllowed,
		errors.ErrCodeMethodNotAllowed,
		fmt.Sprintf("method %s not allowed", r.Method), false, nil)
	return false
}

// handleHost serves GET /v1/host: the detected microarchitecture of the
// machine running the server. Detection degrades to the generic family
// target rather than failing.
func (s *Server) handleHost(w http.ResponseWriter, r *http.Request) {
	if !requireGet(w, r) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), defaults.DetectHandlerTimeout)
	defer cancel()

	host := s.detector.Detect(ctx)
	if host.IsGeneric() {
		detectionsTotal.WithLabelValues("generic").Inc()
	} else {
		detectionsTotal.WithLabelValues("matched").Inc()
	}

	resp := HostResponse{
		Host:      host.Summary(),
		Generic:   host.IsGeneric(),
		Timestamp: time.Now().UTC(),
	}

	// Optionally resolve flags for the detected host in the same call.
	compiler := r.URL.Query().Get("compiler")
	version := r.URL.Query().Get("version")
	if compiler != "" || version != "" {
		if compiler == "" || version == "" {
			writeError(w, r, http.StatusBadRequest,
				errors.ErrCodeInvalidRequest,
				"compiler and version query parameters must be given together", false, nil)
			return
		}
		flags, err := host.OptimizationFlags(compiler, version)
		if err != nil {
			writeFlagsError(w, r, host.Name(), compiler, version, err)
			return
		}
		resp.Flags = &FlagsResponse{
			Target:   host.Name(),
			Compiler: compiler,
			Version:  version,
			Flags:    flags,
		}
	}

	serializer.RespondJSON(w, http.StatusOK, resp)
}

// handleTargets serves GET /v1/targets: all known target names, optionally
// filtered by ?family=. Registry content is immutable, so responses carry
// a public cache header.
func (s *Server) handleTargets(w http.ResponseWriter, r *http.Request) {
	if !requireGet(w, r) {
		return
	}

	targets, err := march.Targets()
	if err != nil {
		writeError(w, r, http.StatusInternalServerError,
			errors.ErrCodeInternal, "failed to load microarchitecture registry", true, nil)
		return
	}

	family := r.URL.Query().Get("family")
	names := make([]string, 0, len(targets))
	for name, t := range targets {
		if family != "" && t.Family() != family {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	w.Header().Set("Cache-Control", fmt.Sprintf("public, max-age=%d", s.config.CacheMaxAge))
	resp := TargetsResponse{
		Count:   len(names),
		Family:  family,
		Targets: names,
	}
	serializer.RespondJSON(w, http.StatusOK, resp)
}

// handleTarget serves GET /v1/target?name=: the full summary of a single
// target, including features, ancestors, and compiler support.
func (s *Server) handleTarget(w http.ResponseWriter, r *http.Request) {
	if !requireGet(w, r) {
		return
	}

	name := r.URL.Query().Get("name")
	if name == "" {
		writeError(w, r, http.StatusBadRequest,
			errors.ErrCodeInvalidRequest, "missing required query parameter: name", false, nil)
		return
	}

	target, err := march.Target(name)
	if err != nil {
		if errors.HasCode(err, errors.ErrCodeNotFound) {
			writeError(w, r, http.StatusNotFound,
				errors.ErrCodeNotFound,
				fmt.Sprintf("unknown microarchitecture: %s", name), false,
				map[string]any{"name": name})
			return
		}
		writeError(w, r, http.StatusInternalServerError,
			errors.ErrCodeInternal, "failed to load microarchitecture registry", true, nil)
		return
	}

	w.Header().Set("Cache-Control", fmt.Sprintf("public, max-age=%d", s.config.CacheMaxAge))
	resp := TargetResponse{Target: target.Summary()}
	serializer.RespondJSON(w, http.StatusOK, resp)
}

// handleFlags serves GET /v1/flags?target=&compiler=&version=: the
// optimization flags for building on the named target with the given
// compiler release. An unknown compiler yields empty flags; a target too
// new for every supported compiler release yields a 422.
func (s *Server) handleFlags(w http.ResponseWriter, r *http.Request) {
	if !requireGet(w, r) {
		return
	}

	q := r.URL.Query()
	targetName := q.Get("target")
	compiler := q.Get("compiler")
	version := q.Get("version")

	for name, val := range map[string]string{
		"target":   targetName,
		"compiler": compiler,
		"version":  version,
	} {
		if val == "" {
			writeError(w, r, http.StatusBadRequest,
				errors.ErrCodeInvalidRequest,
				fmt.Sprintf("missing required query parameter: %s", name), false, nil)
			return
		}
	}

	target, err := march.Target(targetName)
	if err != nil {
		if errors.HasCode(err, errors.ErrCodeNotFound) {
			writeError(w, r, http.StatusNotFound,
				errors.ErrCodeNotFound,
				fmt.Sprintf("unknown microarchitecture: %s", targetName), false,
				map[string]any{"target": targetName})
			return
		}
		writeError(w, r, http.StatusInternalServerError,
			errors.ErrCodeInternal, "failed to load microarchitecture registry", true, nil)
		return
	}

	flags, err := target.OptimizationFlags(compiler, version)
	if err != nil {
		writeFlagsError(w, r, targetName, compiler, version, err)
		return
	}

	if flags == "" {
		flagResolutionsTotal.WithLabelValues("empty").Inc()
	} else {
		flagResolutionsTotal.WithLabelValues("resolved").Inc()
	}

	resp := FlagsResponse{
		Target:   targetName,
		Compiler: compiler,
		Version:  version,
		Flags:    flags,
	}
	serializer.RespondJSON(w, http.StatusOK, resp)
}
