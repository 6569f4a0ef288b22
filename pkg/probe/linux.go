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

package probe

import (
	"context"

	"github.com/NVIDIA/microarch/pkg/errors"
	"github.com/NVIDIA/microarch/pkg/file"
)

// cpuInfoPath is the kernel's per-core CPU description.
const cpuInfoPath = "/proc/cpuinfo"

// LinuxProbe reads CPU information from /proc/cpuinfo.
type LinuxProbe struct {
	path   string
	parser *file.Parser
}

// NewLinuxProbe builds the probe for the standard kernel path.
func NewLinuxProbe() *LinuxProbe {
	return NewLinuxProbeForPath(cpuInfoPath)
}

// NewLinuxProbeForPath builds a probe reading an alternate cpuinfo file,
// used to replay recorded hosts.
func NewLinuxProbeForPath(path string) *LinuxProbe {
	return &LinuxProbe{
		path:   path,
		parser: file.NewParser(),
	}
}

// SystemName implements Probe.
func (p *LinuxProbe) SystemName() string { return "linux" }

// MachineName implements Probe.
func (p *LinuxProbe) MachineName() string { return machineName() }

// InfoLines implements LineProbe by reading the raw cpuinfo lines.
func (p *LinuxProbe) InfoLines(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeUnavailable, "cpu probe canceled", err)
	}
	lines, err := p.parser.GetLines(p.path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeUnavailable, "reading cpu information", err)
	}
	return lines, nil
}

var _ LineProbe = (*LinuxProbe)(nil)
