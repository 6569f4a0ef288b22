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
	"sort"

	"github.com/NVIDIA/microarch/pkg/version"
)

// Microarchitecture is a named CPU design point: identity, feature set,
// ancestry and per-compiler flag tables. Values are immutable after registry
// load and safe for concurrent use.
type Microarchitecture struct {
	name       string
	vendor     string
	family     string
	generation int
	features   map[string]struct{}
	parents    []*Microarchitecture
	ancestors  []*Microarchitecture
	compilers  map[string][]compilerEntry
	record     Record
	generic    bool
}

// compilerEntry is one parsed (version range, flag template) pair.
type compilerEntry struct {
	versions version.Range
	name     string // optional flag-name override, e.g. "x86-64"
	flags    string // template with a {name} placeholder
}

// GenericVendor is the vendor sentinel for placeholder microarchitectures.
const GenericVendor = "generic"

// Generic builds a placeholder microarchitecture for an unrecognized host.
// The placeholder carries the raw machine name as both its name and its
// architecture family, has no features, no ancestors, and is not part of
// the shared registry.
func Generic(name string) *Microarchitecture {
	return &Microarchitecture{
		name:     name,
		vendor:   GenericVendor,
		family:   name,
		features: map[string]struct{}{},
		record: Record{
			Vendor: GenericVendor,
			Family: name,
		},
		generic: true,
	}
}

// Name returns the unique identifier of the microarchitecture.
func (m *Microarchitecture) Name() string { return m.name }

// Vendor returns the CPU vendor string, or "generic" when unconstrained.
func (m *Microarchitecture) Vendor() string { return m.vendor }

// Family returns the architecture family grouping mutually-comparable
// microarchitectures (e.g. "x86_64").
func (m *Microarchitecture) Family() string { return m.family }

// Generation returns the family-specific generation ordinal, or zero when
// the microarchitecture declares none. It is a detection tie-break hint
// only and plays no part in ordering semantics.
func (m *Microarchitecture) Generation() int { return m.generation }

// IsGeneric reports whether this is a detection-time placeholder rather
// than a registry member.
func (m *Microarchitecture) IsGeneric() bool { return m.generic }

// String returns the canonical textual form, which equals the name.
func (m *Microarchitecture) String() string { return m.name }

// Features returns the raw feature strings in sorted order.
func (m *Microarchitecture) Features() []string {
	out := make([]string, 0, len(m.features))
	for f := range m.features {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// Parents returns the directly declared ancestors in declaration order.
func (m *Microarchitecture) Parents() []*Microarchitecture {
	out := make([]*Microarchitecture, len(m.parents))
	copy(out, m.parents)
	return out
}

// Ancestors returns every reachable ancestor, nearest first: direct parents
// in declaration order, then their parents, with duplicates from diamond
// lineages removed. The flag resolver walks this list.
func (m *Microarchitecture) Ancestors() []*Microarchitecture {
	out := make([]*Microarchitecture, len(m.ancestors))
	copy(out, m.ancestors)
	return out
}

// Compilers returns the names of compilers with flag entries on this
// microarchitecture (not its ancestors), sorted.
func (m *Microarchitecture) Compilers() []string {
	out := make([]string, 0, len(m.compilers))
	for c := range m.compilers {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// HasFeature reports whether the query names a raw feature of this
// microarchitecture, or a feature alias covering one. Alias resolution is
// a static registry-wide table, independent of any particular entity.
func (m *Microarchitecture) HasFeature(query string) bool {
	if _, ok := m.features[query]; ok {
		return true
	}
	alias, ok := aliasTable()[query]
	if !ok {
		return false
	}
	return alias.matches(m)
}

// Equal reports whether both microarchitectures carry the same identity.
// Registry members compare by name; generic placeholders compare by name
// among themselves but never equal a registry member. Equality is total:
// it is defined across architecture families and simply answers false.
func (m *Microarchitecture) Equal(other *Microarchitecture) bool {
	if m == nil || other == nil {
		return m == other
	}
	return m.name == other.name && m.generic == other.generic
}

// Record returns the structured database representation of this
// microarchitecture. Rebuilding a registry from the returned records yields
// entities equal to the originals.
func (m *Microarchitecture) Record() Record {
	return m.record.clone()
}

// Summary is the serializable projection of a microarchitecture used by
// the CLI and the HTTP API.
type Summary struct {
	Name       string   `json:"name" yaml:"name"`
	Vendor     string   `json:"vendor" yaml:"vendor"`
	Family     string   `json:"family" yaml:"family"`
	Generation int      `json:"generation,omitempty" yaml:"generation,omitempty"`
	Generic    bool     `json:"generic,omitempty" yaml:"generic,omitempty"`
	Features   []string `json:"features,omitempty" yaml:"features,omitempty"`
	Parents    []string `json:"parents,omitempty" yaml:"parents,omitempty"`
	Ancestors  []string `json:"ancestors,omitempty" yaml:"ancestors,omitempty"`
	Compilers  []string `json:"compilers,omitempty" yaml:"compilers,omitempty"`
}

// Summary returns the serializable projection of the microarchitecture.
func (m *Microarchitecture) Summary() Summary {
	s := Summary{
		Name:       m.name,
		Vendor:     m.vendor,
		Family:     m.family,
		Generation: m.generation,
		Generic:    m.generic,
		Features:   m.Features(),
		Compilers:  m.Compilers(),
	}
	for _, p := range m.parents {
		s.Parents = append(s.Parents, p.name)
	}
	for _, a := range m.ancestors {
		s.Ancestors = append(s.Ancestors, a.name)
	}
	return s
}
