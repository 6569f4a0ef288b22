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

package march

import (
	"strings"

	"github.com/NVIDIA/microarch/pkg/errors"
	"github.com/NVIDIA/microarch/pkg/version"
)

// namePlaceholder is substituted in flag templates with the target name
// that matched, or its per-entry override.
const namePlaceholder = "{name}"

// OptimizationFlags resolves the compiler flags that tune a build for this
// microarchitecture with the given compiler release.
//
// A compiler the registry has never heard of yields an empty flag string
// and no error: nothing useful can be said, but nothing is wrong either.
// For a known compiler, the microarchitecture's own entries are consulted
// first; when none covers the release, the ancestor chain is walked
// nearest first and the first covering entry wins, instantiated with the
// ancestor's own name. A release older than anything on the whole chain
// cannot produce an optimized binary and yields an
// UNSUPPORTED_MICROARCHITECTURE error.
func (m *Microarchitecture) OptimizationFlags(compiler, release string) (string, error) {
	// Unknown compilers degrade before anything else is inspected, even a
	// release string that would not parse.
	if _, known := knownCompilerSet()[compiler]; !known {
		return "", nil
	}

	v, err := version.ParseVersion(release)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidRequest,
			"malformed compiler version: "+release, err)
	}

	if flags, ok := m.ownFlags(compiler, v); ok {
		return flags, nil
	}
	for _, anc := range m.ancestors {
		if flags, ok := anc.ownFlags(compiler, v); ok {
			return flags, nil
		}
	}

	return "", errors.NewWithContext(errors.ErrCodeUnsupportedMicroarchitecture,
		"cannot produce an optimized binary for microarchitecture "+m.name,
		map[string]any{
			"target":   m.name,
			"compiler": compiler,
			"version":  release,
		})
}

// ownFlags matches the release against this microarchitecture's own
// entries for the compiler, ignoring ancestors.
func (m *Microarchitecture) ownFlags(compiler string, v version.Version) (string, bool) {
	for _, e := range m.compilers[compiler] {
		if !e.versions.Contains(v) {
			continue
		}
		name := m.name
		if e.name != "" {
			name = e.name
		}
		return strings.ReplaceAll(e.flags, namePlaceholder, name), true
	}
	return "", false
}
