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

package defaults

import "time"

// Probe timeouts for host inspection operations.
const (
	// ProbeTimeout is the default timeout for host probe operations.
	// Probes read short local kernel interfaces; anything slower than this
	// indicates a stuck system call and should degrade to the generic path.
	ProbeTimeout = 5 * time.Second

	// ProbeQueryTimeout is the timeout for a single external query
	// invocation (e.g. sysctl on Darwin).
	ProbeQueryTimeout = 3 * time.Second
)

// Handler timeouts for HTTP request processing.
const (
	// DetectHandlerTimeout is the timeout for host detection requests.
	DetectHandlerTimeout = 10 * time.Second

	// FlagsHandlerTimeout is the timeout for flag resolution requests.
	// Flag resolution is pure registry traversal and should never approach
	// this bound; it exists to keep the handler contract uniform.
	FlagsHandlerTimeout = 5 * time.Second
)

// Server timeouts for HTTP server configuration.
const (
	// ServerReadTimeout is the maximum duration for reading request headers.
	ServerReadTimeout = 10 * time.Second

	// ServerReadHeaderTimeout prevents slow header attacks.
	ServerReadHeaderTimeout = 5 * time.Second

	// ServerWriteTimeout is the maximum duration for writing a response.
	ServerWriteTimeout = 30 * time.Second

	// ServerIdleTimeout is the maximum duration to wait for the next request.
	ServerIdleTimeout = 120 * time.Second

	// ServerShutdownTimeout is the maximum duration for graceful shutdown.
	ServerShutdownTimeout = 30 * time.Second
)

// CLI timeouts for command-line operations.
const (
	// CLIDetectTimeout is the default timeout for the detect command.
	CLIDetectTimeout = 30 * time.Second
)

// HTTP client settings for the remote-query reader.
const (
	// HTTPClientTimeout bounds an entire remote request.
	HTTPClientTimeout = 30 * time.Second

	// HTTPConnectTimeout bounds connection establishment.
	HTTPConnectTimeout = 10 * time.Second

	// HTTPKeepAlive is the keep-alive probe interval for pooled
	// connections.
	HTTPKeepAlive = 30 * time.Second

	// HTTPTLSHandshakeTimeout bounds the TLS handshake.
	HTTPTLSHandshakeTimeout = 10 * time.Second

	// HTTPResponseHeaderTimeout bounds the wait for response headers.
	HTTPResponseHeaderTimeout = 10 * time.Second

	// HTTPIdleConnTimeout closes idle pooled connections.
	HTTPIdleConnTimeout = 90 * time.Second
)
