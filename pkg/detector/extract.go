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

package detector

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"github.com/NVIDIA/microarch/pkg/errors"
	"github.com/NVIDIA/microarch/pkg/march"
	"github.com/NVIDIA/microarch/pkg/probe"
)

// hostCPU is the normalized view of whatever the probe reported.
type hostCPU struct {
	vendor     string
	features   map[string]struct{}
	generation int
}

// powerGenRE extracts the processor generation from the "cpu" line of a
// POWER cpuinfo, e.g. "POWER8 (raw), altivec supported".
var powerGenRE = regexp.MustCompile(`POWER(\d+)`)

// darwinFeatureSpellings maps sysctl feature names onto the kernel flag
// spellings the registry uses. The xsave capability expands to both of
// the flags Linux derives from it.
var darwinFeatureSpellings = map[string][]string{
	"sse4.1":  {"sse4_1"},
	"sse4.2":  {"sse4_2"},
	"avx1.0":  {"avx"},
	"clfsopt": {"clflushopt"},
	"xsave":   {"xsavec", "xsaveopt"},
}

// hostCPU reads and normalizes the probe's vendor/feature information,
// dispatching on the information shape the platform exposes.
func (d *Detector) hostCPU(ctx context.Context) (*hostCPU, error) {
	switch d.probe.SystemName() {
	case "linux":
		lp, ok := d.probe.(probe.LineProbe)
		if !ok {
			return nil, errors.New(errors.ErrCodeUnavailable,
				"probe exposes no line-oriented cpu source")
		}
		return d.linuxCPU(ctx, lp)
	case "darwin":
		qp, ok := d.probe.(probe.QueryProbe)
		if !ok {
			return nil, errors.New(errors.ErrCodeUnavailable,
				"probe exposes no cpu query source")
		}
		return d.darwinCPU(ctx, qp)
	default:
		return nil, errors.New(errors.ErrCodeUnavailable,
			"no cpu information source for system: "+d.probe.SystemName())
	}
}

func (d *Detector) linuxCPU(ctx context.Context, lp probe.LineProbe) (*hostCPU, error) {
	lines, err := lp.InfoLines(ctx)
	if err != nil {
		return nil, err
	}
	info := d.parser.MapLines(lines)

	h := &hostCPU{
		vendor:   march.GenericVendor,
		features: make(map[string]struct{}),
	}
	if v := info["vendor_id"]; v != "" {
		h.vendor = v
	}
	for _, f := range strings.Fields(info["flags"]) {
		h.features[f] = struct{}{}
	}

	// POWER machines carry no flags line; capability is keyed on the
	// processor generation instead.
	if m := powerGenRE.FindStringSubmatch(info["cpu"]); m != nil {
		h.generation, _ = strconv.Atoi(m[1])
	}
	return h, nil
}

func (d *Detector) darwinCPU(ctx context.Context, qp probe.QueryProbe) (*hostCPU, error) {
	h := &hostCPU{
		vendor:   march.GenericVendor,
		features: make(map[string]struct{}),
	}
	if v, err := qp.Query(ctx, "machdep.cpu.vendor"); err == nil && v != "" {
		h.vendor = v
	}

	raw, err := qp.Query(ctx, "machdep.cpu.features")
	if err != nil {
		return nil, err
	}
	// Older hosts predate extended feature leaves; absence is fine.
	if leaf7, err := qp.Query(ctx, "machdep.cpu.leaf7_features"); err == nil {
		raw += " " + leaf7
	}

	for _, f := range strings.Fields(strings.ToLower(raw)) {
		spellings, ok := darwinFeatureSpellings[f]
		if !ok {
			spellings = []string{f}
		}
		for _, s := range spellings {
			h.features[s] = struct{}{}
		}
	}
	return h, nil
}
