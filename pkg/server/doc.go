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

// Package server exposes the microarchitecture registry and host
// detection over HTTP.
//
// # Endpoints
//
//	GET /v1/host     detect the microarchitecture of the serving host;
//	                 optional ?compiler=&version= also resolves flags
//	GET /v1/targets  list registry members, optionally ?family= filtered
//	GET /v1/target   describe one member, ?name= required
//	GET /v1/flags    resolve optimization flags, ?target=&compiler=&version=
//	GET /health      liveness
//	GET /ready       readiness
//	GET /metrics     Prometheus metrics
//
// API requests pass through a middleware chain providing metrics,
// version negotiation, request IDs, panic recovery, rate limiting and
// request logging. Error responses carry a stable machine-readable code,
// a request ID and a retryable hint.
//
// The registry is immutable for the life of the process, so registry
// reads are served with public cache headers; host detection is not
// cached.
package server
