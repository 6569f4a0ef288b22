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
	"time"

	"github.com/NVIDIA/microarch/pkg/march"
)

// ErrorResponse is the standard error payload for all API errors.
type ErrorResponse struct {
	Code      string         `json:"code"`
	Message   string         `json:"message"`
	Details   map[string]any `json:"details,omitempty"`
	RequestID string         `json:"request_id,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
	Retryable bool           `json:"retryable"`
}

// HostResponse is the payload for GET /v1/host. Flags is present only
// when the request asked for compiler flag resolution.
type HostResponse struct {
	Host      march.Summary  `json:"host"`
	Generic   bool           `json:"generic"`
	Flags     *FlagsResponse `json:"flags,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

// TargetsResponse is the payload for GET /v1/targets.
type TargetsResponse struct {
	Count   int      `json:"count"`
	Family  string   `json:"family,omitempty"`
	Targets []string `json:"targets"`
}

// TargetResponse is the payload for GET /v1/target.
type TargetResponse struct {
	Target march.Summary `json:"target"`
}

// FlagsResponse is the payload for GET /v1/flags.
type FlagsResponse struct {
	Target   string `json:"target"`
	Compiler string `json:"compiler"`
	Version  string `json:"version"`
	Flags    string `json:"flags"`
}

// HealthResponse is the payload for /health and /ready.
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Reason    string    `json:"reason,omitempty"`
}
