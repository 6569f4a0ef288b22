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

// Package cli implements the command-line interface for the march tool.
//
// # Overview
//
// The march CLI exposes the microarchitecture registry, host CPU
// detection, and compiler optimization flag resolution for use in build
// scripts and cluster tooling.
//
// # Commands
//
// detect - Identify the host microarchitecture:
//
//	march detect [--fixture FILE] [--format yaml|json|table]
//
// Reads the host CPU information and reports the best matching known
// microarchitecture. Detection never fails: when the host cannot be
// matched the generic target for the machine family is reported.
//
// list - List known microarchitectures:
//
//	march list [--family x86_64] [--server http://marchd:8080]
//
// Lists target names from the embedded registry, or from a running
// marchd server when --server is given.
//
// info - Show one microarchitecture in full:
//
//	march info skylake
//
// flags - Resolve compiler optimization flags:
//
//	march flags --target broadwell --compiler gcc --compiler-version 9.3.0
//
// compare - Order two microarchitectures:
//
//	march compare broadwell skylake
//
// serve - Run the marchd HTTP server in the foreground.
//
// # Global Flags
//
//	--log-level    Log verbosity: debug, info, warn, error (default: info)
//	--output, -o   Output file path (default: stdout)
//	--format, -t   Output format: yaml, json, table (default: yaml)
package cli
