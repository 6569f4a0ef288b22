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

// Package file provides utilities for parsing line-oriented system files.
//
// Host probes use this package to read kernel text interfaces such as
// /proc/cpuinfo, which expose "key : value" lines repeated once per core.
//
// # Usage
//
// Parse /proc/cpuinfo into a single key-value map:
//
//	parser := file.NewParser(
//	    file.WithKVDelimiter(":"),
//	    file.WithFirstWins(true),
//	)
//	info, err := parser.GetMap("/proc/cpuinfo")
//	if err != nil {
//	    // Handle error
//	}
//	fmt.Println(info["vendor_id"])
//
// # Error Handling
//
// Errors are wrapped with descriptive context:
//
//	lines, err := parser.GetLines("/nonexistent")
//	// Error: failed to read file "/nonexistent": no such file or directory
//
// # Thread Safety
//
// A Parser is immutable after construction and safe for concurrent use.
package file
