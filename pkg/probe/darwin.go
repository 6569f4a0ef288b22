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
	"os/exec"
	"strings"

	"github.com/NVIDIA/microarch/pkg/defaults"
	"github.com/NVIDIA/microarch/pkg/errors"
)

// sysctlPath avoids a PATH lookup for the only binary the probe runs.
const sysctlPath = "/usr/sbin/sysctl"

// DarwinProbe reads CPU information one sysctl key at a time.
type DarwinProbe struct {
	sysctl string
}

// NewDarwinProbe builds the probe for the standard sysctl binary.
func NewDarwinProbe() *DarwinProbe {
	return &DarwinProbe{sysctl: sysctlPath}
}

// SystemName implements Probe.
func (p *DarwinProbe) SystemName() string { return "darwin" }

// MachineName implements Probe.
func (p *DarwinProbe) MachineName() string { return machineName() }

// Query implements QueryProbe by invoking sysctl -n for the key.
func (p *DarwinProbe) Query(ctx context.Context, key string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, defaults.ProbeQueryTimeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, p.sysctl, "-n", key).Output()
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeUnavailable, "querying "+key, err)
	}
	return strings.TrimSpace(string(out)), nil
}

var _ QueryProbe = (*DarwinProbe)(nil)
