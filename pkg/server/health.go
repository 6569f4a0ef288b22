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
	"time"

	"github.com/NVIDIA/microarch/pkg/serializer"
)

// handleHealth reports liveness. The process is healthy whenever it can
// serve this request.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
	}
	serializer.RespondJSON(w, http.StatusOK, resp)
}

// handleReady reports readiness. The server becomes ready once the
// microarchitecture registry has loaded and the listener is up.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	ready := s.ready
	s.mu.RUnlock()

	resp := HealthResponse{
		Status:    "ready",
		Timestamp: time.Now().UTC(),
	}
	status := http.StatusOK
	if !ready {
		resp.Status = "not_ready"
		resp.Reason = "server is not ready to accept traffic"
		status = http.StatusServiceUnavailable
	}
	serializer.RespondJSON(w, status, resp)
}
