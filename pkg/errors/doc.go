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

// Package errors provides structured error types for better observability
// and programmatic error handling across the application.
//
// Registry load failures carry ErrCodeSchemaValidation or
// ErrCodeUnknownAncestor and are terminal for the process registry.
// Query-time failures (ErrCodeTypeMismatch, ErrCodeIncomparableArchitectures,
// ErrCodeUnsupportedMicroarchitecture) are per-call and surfaced to callers.
//
// Example usage:
//
//	err := errors.WrapWithContext(
//	    errors.ErrCodeSchemaValidation,
//	    "malformed microarchitecture record",
//	    cause,
//	    map[string]interface{}{
//	        "target": name,
//	    },
//	)
package errors
