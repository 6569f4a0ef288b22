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

// Package detector resolves the running host to the best matching
// registry microarchitecture. Detection is strictly best effort: an
// unrecognized host, an unsupported platform or a failing probe all
// degrade to a generic placeholder, never to an error.
package detector

import (
	"context"
	"log/slog"
	"sort"

	"github.com/NVIDIA/microarch/pkg/file"
	"github.com/NVIDIA/microarch/pkg/march"
	"github.com/NVIDIA/microarch/pkg/probe"
)

// Detector matches probe output against the microarchitecture registry.
type Detector struct {
	probe  probe.Probe
	parser *file.Parser
	logger *slog.Logger
}

// Option configures a Detector.
type Option func(*Detector)

// WithLogger sets the logger used for degradation diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Detector) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// New builds a detector over the given probe.
func New(p probe.Probe, opts ...Option) *Detector {
	d := &Detector{
		probe: p,
		// cpuinfo repeats its block once per core; the first block wins.
		parser: file.NewParser(file.WithFirstWins(true)),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Host detects the microarchitecture of the running host.
func Host(ctx context.Context) *march.Microarchitecture {
	return New(probe.New()).Detect(ctx)
}

// Detect resolves the probed host to a registry member, or to a generic
// placeholder named after the raw machine string when no member matches.
func (d *Detector) Detect(ctx context.Context) *march.Microarchitecture {
	machine := d.probe.MachineName()

	host, err := d.hostCPU(ctx)
	if err != nil {
		d.logger.Debug("cpu probe unavailable, falling back to generic target",
			"machine", machine,
			"error", err,
		)
		return march.Generic(machine)
	}

	targets, err := march.Targets()
	if err != nil {
		d.logger.Warn("microarchitecture registry unavailable",
			"error", err,
		)
		return march.Generic(machine)
	}

	candidates := make([]*march.Microarchitecture, 0, len(targets))
	for _, cand := range targets {
		if !d.compatible(cand, machine, host) {
			continue
		}
		candidates = append(candidates, cand)
	}

	best := maximal(candidates)
	if best == nil {
		d.logger.Debug("no registry member matches host, using generic target",
			"machine", machine,
			"vendor", host.vendor,
		)
		return march.Generic(machine)
	}
	return best
}

// compatible reports whether a registry member could describe the probed
// host: same architecture family, matching or unconstrained vendor, not a
// later processor generation, and a feature set the host fully carries.
func (d *Detector) compatible(cand *march.Microarchitecture, machine string, host *hostCPU) bool {
	if cand.Family() != machine {
		return false
	}
	if v := cand.Vendor(); v != march.GenericVendor && v != host.vendor {
		return false
	}
	if host.generation > 0 && cand.Generation() > host.generation {
		return false
	}
	for _, f := range cand.Features() {
		if _, ok := host.features[f]; !ok {
			return false
		}
	}
	return true
}

// maximal picks the candidate no other candidate is strictly greater
// than. Ties between incomparable maximal candidates prefer the higher
// generation, then the larger feature set, then the first name.
func maximal(candidates []*march.Microarchitecture) *march.Microarchitecture {
	var tops []*march.Microarchitecture
	for _, c := range candidates {
		dominated := false
		for _, other := range candidates {
			ord, err := c.Compare(other)
			if err == nil && ord == march.Less {
				dominated = true
				break
			}
		}
		if !dominated {
			tops = append(tops, c)
		}
	}
	if len(tops) == 0 {
		return nil
	}

	sort.Slice(tops, func(i, j int) bool {
		a, b := tops[i], tops[j]
		if a.Generation() != b.Generation() {
			return a.Generation() > b.Generation()
		}
		if len(a.Features()) != len(b.Features()) {
			return len(a.Features()) > len(b.Features())
		}
		return a.Name() < b.Name()
	})
	return tops[0]
}
