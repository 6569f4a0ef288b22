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

// Package probe abstracts the host CPU information sources so that
// detection can run against the live machine or against recorded
// fixtures. Linux hosts expose a line-oriented source (/proc/cpuinfo),
// Darwin hosts a keyed query (sysctl); the detector dispatches on the
// reported system name.
package probe

import (
	"context"
	"runtime"
)

// Probe identifies the host platform. Implementations also satisfy
// LineProbe or QueryProbe depending on how the platform exposes CPU
// information.
type Probe interface {
	// SystemName returns the lowercase OS family, e.g. "linux" or
	// "darwin".
	SystemName() string

	// MachineName returns the raw architecture string the platform
	// reports for the CPU family, e.g. "x86_64" or "ppc64le".
	MachineName() string
}

// LineProbe is a probe whose CPU information is a sequence of
// "key: value" lines.
type LineProbe interface {
	Probe
	InfoLines(ctx context.Context) ([]string, error)
}

// QueryProbe is a probe whose CPU information is read one key at a time.
type QueryProbe interface {
	Probe
	Query(ctx context.Context, key string) (string, error)
}

// New returns the probe for the running host. Unsupported platforms
// still get a probe carrying system and machine names, which detection
// degrades to a generic placeholder.
func New() Probe {
	switch runtime.GOOS {
	case "linux":
		return NewLinuxProbe()
	case "darwin":
		return NewDarwinProbe()
	default:
		return hostInfo{}
	}
}

// hostInfo is the minimal probe for platforms without a CPU information
// source.
type hostInfo struct{}

func (hostInfo) SystemName() string  { return runtime.GOOS }
func (hostInfo) MachineName() string { return machineName() }

// machineName maps the Go architecture name onto the string the kernel
// reports for it.
func machineName() string {
	switch runtime.GOARCH {
	case "amd64":
		return "x86_64"
	case "arm64":
		return "aarch64"
	case "386":
		return "x86"
	default:
		// ppc64, ppc64le, riscv64 and friends already match.
		return runtime.GOARCH
	}
}
