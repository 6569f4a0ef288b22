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

// Package march models CPU microarchitectures: a registry of named
// targets loaded from an embedded YAML database, a capability partial
// order over each architecture family's ancestry graph, feature queries
// with alias resolution, and per-compiler optimization flag lookup with
// ancestor fallback.
//
// The registry loads lazily on first use and is immutable afterwards;
// everything in this package is safe for concurrent use.
package march
