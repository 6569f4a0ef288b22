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
	"time"

	"github.com/google/uuid"

	"github.com/NVIDIA/microarch/pkg/errors"
)

const requestIDHeader = "X-Request-ID"

// withMiddleware wraps a handler with the standard middleware chain.
// Outermost to innermost: metrics, API version negotiation, request ID,
// panic recovery, rate limiting, request logging.
func (s *Server) withMiddleware(next http.Handler) http.Handler {
	handler := s.loggingMiddleware(next)
	handler = s.rateLimitMiddleware(handler)
	handler = s.panicRecoveryMiddleware(handler)
	handler = requestIDMiddleware(handler)
	handler = apiVersionMiddleware(handler)
	handler = metricsMiddleware(handler)
	return handler
}

// requestIDMiddleware ensures every request carries a valid request ID.
// A client-supplied X-Request-ID is honored when it parses as a UUID;
// anything else is replaced with a fresh one.
func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(requestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		} else if _, err := uuid.Parse(requestID); err != nil {
			requestID = uuid.New().String()
		}

		w.Header().Set(requestIDHeader, requestID)
		ctx := context.WithValue(r.Context(), contextKeyRequestID, requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// apiVersionMiddleware negotiates the API version from the Accept header
// and stamps it on the response.
func apiVersionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		version := negotiateAPIVersion(r)
		setAPIVersionHeader(w, version)
		ctx := context.WithValue(r.Context(), contextKeyAPIVersion, version)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// panicRecoveryMiddleware converts handler panics into 500 responses
// instead of tearing down the connection.
func (s *Server) panicRecoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				panicRecoveries.Inc()
				requestID, _ := r.Context().Value(contextKeyRequestID).(string)
				slog.Error("panic recovered in handler",
					"panic", fmt.Sprintf("%v", rec),
					"method", r.Method,
					"path", r.URL.Path,
					"request_id", requestID)
				writeError(w, r, http.StatusInternalServerError,
					errors.ErrCodeInternal, "internal server error", true, nil)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// rateLimitMiddleware enforces the configured token-bucket limit and
// advertises the limit through X-RateLimit headers.
func (s *Server) rateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%.0f", float64(s.config.RateLimit)))
		w.Header().Set("X-RateLimit-Burst", fmt.Sprintf("%d", s.config.RateLimitBurst))

		if !s.rateLimiter.Allow() {
			rateLimitRejects.Inc()
			w.Header().Set("Retry-After", "1")
			writeError(w, r, http.StatusTooManyRequests,
				errors.ErrCodeRateLimitExceeded, "rate limit exceeded", true, nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// loggingMiddleware emits a structured log line for every request.
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := newResponseWriter(w)
		next.ServeHTTP(rw, r)

		requestID, _ := r.Context().Value(contextKeyRequestID).(string)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rw.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
			"remote_addr", r.RemoteAddr,
			"request_id", requestID)
	})
}
