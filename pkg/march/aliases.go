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

import "sort"

// featureAlias maps a conventional feature name (e.g. "sse4.1", "avx512")
// onto the raw flag spellings that imply it, or onto whole architecture
// families where the kernel exposes no flag for it at all (altivec on
// POWER).
type featureAlias struct {
	anyOf    []string
	families []string
}

// matches reports whether the alias applies to the given microarchitecture.
func (a featureAlias) matches(m *Microarchitecture) bool {
	for _, f := range a.anyOf {
		if _, ok := m.features[f]; ok {
			return true
		}
	}
	for _, fam := range a.families {
		if m.family == fam {
			return true
		}
	}
	return false
}

// aliasTable returns the registry-wide alias table. It is empty when the
// embedded database failed to load, so alias queries degrade to plain
// feature lookups instead of surfacing a load error.
func aliasTable() map[string]featureAlias {
	reg, err := registry()
	if err != nil {
		return nil
	}
	return reg.aliases
}

// Aliases returns the known feature alias names, useful for diagnostics.
func Aliases() ([]string, error) {
	reg, err := registry()
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(reg.aliases))
	for name := range reg.aliases {
		out = append(out, name)
	}
	sort.Strings(out)
	return out, nil
}
