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

// Package api is the entry point for the marchd HTTP service.
//
// It is a thin wrapper around pkg/server: it configures structured
// logging with the application name and version, loads server config
// from the environment, and blocks until shutdown.
//
// # Usage
//
//	package main
//
//	import (
//	    "log"
//	    "github.com/NVIDIA/microarch/pkg/api"
//	)
//
//	func main() {
//	    if err := api.Serve(); err != nil {
//	        log.Fatalf("server error: %v", err)
//	    }
//	}
//
// # Endpoints
//
// Application endpoints (rate limited, request ID, metrics):
//   - GET /v1/host    - Detected microarchitecture of the serving host
//   - GET /v1/targets - Known microarchitecture names, optionally by family
//   - GET /v1/target  - Full details for one microarchitecture
//   - GET /v1/flags   - Compiler optimization flags for a target
//
// System endpoints (no rate limiting):
//   - GET /health  - Liveness probe
//   - GET /ready   - Readiness probe
//   - GET /metrics - Prometheus metrics
package api
