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
	"strings"
)

const (
	// APIVersionV1 is the current API version
	APIVersionV1 = "v1"

	// DefaultAPIVersion is used when the client does not request one
	DefaultAPIVersion = APIVersionV1

	// APIVersionHeader carries the negotiated version back to the client
	APIVersionHeader = "X-API-Version"

	// vendorMediaTypePrefix is the prefix for versioned media types,
	// e.g. application/vnd.nvidia.microarch.v1+json
	vendorMediaTypePrefix = "application/vnd.nvidia.microarch."
)

// negotiateAPIVersion determines the API version for a request from its
// Accept header. A vendor media type of the form
// application/vnd.nvidia.microarch.v1+json selects the named version;
// anything else falls back to the default.
func negotiateAPIVersion(r *http.Request) string {
	accept := r.Header.Get("Accept")
	if accept == "" {
		return DefaultAPIVersion
	}

	for _, part := range strings.Split(accept, ",") {
		mediaType := strings.TrimSpace(part)
		if i := strings.Index(mediaType, ";"); i >= 0 {
			mediaType = strings.TrimSpace(mediaType[:i])
		}
		if !strings.HasPrefix(mediaType, vendorMediaTypePrefix) {
			continue
		}
		rest := strings.TrimPrefix(mediaType, vendorMediaTypePrefix)
		version := strings.TrimSuffix(rest, "+json")
		if isValidAPIVersion(version) {
			return version
		}
	}

	return DefaultAPIVersion
}

// isValidAPIVersion reports whether the server supports the given version.
func isValidAPIVersion(version string) bool {
	return version == APIVersionV1
}

// setAPIVersionHeader stamps the negotiated version on the response.
func setAPIVersionHeader(w http.ResponseWriter, version string) {
	w.Header().Set(APIVersionHeader, version)
}
