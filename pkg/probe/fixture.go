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
	"os"

	"gopkg.in/yaml.v3"

	"github.com/NVIDIA/microarch/pkg/errors"
)

// Fixture is a recorded host: identity plus whichever CPU information
// shape its platform uses. Lines is the Linux-style source, Values the
// Darwin-style one.
type Fixture struct {
	System  string            `yaml:"system" json:"system"`
	Machine string            `yaml:"machine" json:"machine"`
	Lines   []string          `yaml:"lines,omitempty" json:"lines,omitempty"`
	Values  map[string]string `yaml:"values,omitempty" json:"values,omitempty"`
}

// LoadFixture reads a recorded host description from a YAML file.
func LoadFixture(path string) (Fixture, error) {
	var f Fixture
	raw, err := os.ReadFile(path)
	if err != nil {
		return f, errors.Wrap(errors.ErrCodeInvalidRequest, "reading fixture "+path, err)
	}
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return f, errors.Wrap(errors.ErrCodeInvalidRequest, "parsing fixture "+path, err)
	}
	return f, nil
}

// FixtureProbe replays a recorded host. It satisfies both information
// shapes; the detector picks one based on the recorded system name.
type FixtureProbe struct {
	fixture Fixture
}

// NewFixtureProbe wraps a recorded host description.
func NewFixtureProbe(f Fixture) *FixtureProbe {
	return &FixtureProbe{fixture: f}
}

// SystemName implements Probe.
func (p *FixtureProbe) SystemName() string { return p.fixture.System }

// MachineName implements Probe.
func (p *FixtureProbe) MachineName() string { return p.fixture.Machine }

// InfoLines implements LineProbe from the recorded lines.
func (p *FixtureProbe) InfoLines(_ context.Context) ([]string, error) {
	if p.fixture.Lines == nil {
		return nil, errors.New(errors.ErrCodeUnavailable, "fixture records no cpu lines")
	}
	return append([]string(nil), p.fixture.Lines...), nil
}

// Query implements QueryProbe from the recorded values.
func (p *FixtureProbe) Query(_ context.Context, key string) (string, error) {
	v, ok := p.fixture.Values[key]
	if !ok {
		return "", errors.New(errors.ErrCodeNotFound, "fixture records no value for "+key)
	}
	return v, nil
}

var (
	_ LineProbe  = (*FixtureProbe)(nil)
	_ QueryProbe = (*FixtureProbe)(nil)
)
