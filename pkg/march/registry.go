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
	"bytes"
	_ "embed"
	"fmt"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/NVIDIA/microarch/pkg/errors"
	"github.com/NVIDIA/microarch/pkg/version"
)

//go:embed data/microarchitectures.yaml
var databaseRaw []byte

// Record is the database representation of a single microarchitecture.
type Record struct {
	Vendor     string                      `json:"vendor" yaml:"vendor"`
	Family     string                      `json:"family,omitempty" yaml:"family,omitempty"`
	Generation int                         `json:"generation,omitempty" yaml:"generation,omitempty"`
	Parents    []string                    `json:"parents" yaml:"parents"`
	Features   []string                    `json:"features" yaml:"features"`
	Compilers  map[string][]CompilerRecord `json:"compilers,omitempty" yaml:"compilers,omitempty"`
}

// CompilerRecord is one versioned flag entry for a compiler. Versions is a
// half-open range "lo:hi": the lower bound is included, the upper bound is
// excluded, and either side may be empty for an unbounded range.
type CompilerRecord struct {
	Versions string `json:"versions" yaml:"versions"`
	Name     string `json:"name,omitempty" yaml:"name,omitempty"`
	Flags    string `json:"flags" yaml:"flags"`
}

func (r Record) clone() Record {
	out := r
	out.Parents = append([]string(nil), r.Parents...)
	out.Features = append([]string(nil), r.Features...)
	if r.Compilers != nil {
		out.Compilers = make(map[string][]CompilerRecord, len(r.Compilers))
		for c, entries := range r.Compilers {
			out.Compilers[c] = append([]CompilerRecord(nil), entries...)
		}
	}
	return out
}

// AliasRecord is the database representation of a feature alias. Exactly
// one of the two trigger lists should be populated.
type AliasRecord struct {
	AnyOf    []string `json:"any_of,omitempty" yaml:"any_of,omitempty"`
	Families []string `json:"families,omitempty" yaml:"families,omitempty"`
}

// database is the top-level shape of the embedded YAML document.
type database struct {
	Aliases map[string]AliasRecord `yaml:"feature_aliases"`
	Targets map[string]Record      `yaml:"microarchitectures"`
}

// Registry is the immutable, fully-validated in-memory database. A single
// shared instance is built lazily on first use and never mutated after.
type Registry struct {
	targets   map[string]*Microarchitecture
	names     []string
	aliases   map[string]featureAlias
	compilers map[string]struct{}
}

var (
	registryOnce sync.Once
	registryInst *Registry
	registryErr  error
)

// registry returns the shared registry, loading and validating the
// embedded database on first call.
func registry() (*Registry, error) {
	registryOnce.Do(func() {
		db, err := parseDatabase(databaseRaw)
		if err != nil {
			registryErr = err
			return
		}
		registryInst, registryErr = buildRegistry(db)
	})
	return registryInst, registryErr
}

// Targets returns every known microarchitecture keyed by name. The map is
// a fresh copy; the entities it points to are shared and immutable.
func Targets() (map[string]*Microarchitecture, error) {
	reg, err := registry()
	if err != nil {
		return nil, err
	}
	out := make(map[string]*Microarchitecture, len(reg.targets))
	for name, m := range reg.targets {
		out[name] = m
	}
	return out, nil
}

// TargetNames returns the sorted names of every known microarchitecture.
func TargetNames() ([]string, error) {
	reg, err := registry()
	if err != nil {
		return nil, err
	}
	return append([]string(nil), reg.names...), nil
}

// Target returns the named microarchitecture, or a NOT_FOUND error when
// the registry carries no such entry.
func Target(name string) (*Microarchitecture, error) {
	reg, err := registry()
	if err != nil {
		return nil, err
	}
	m, ok := reg.targets[name]
	if !ok {
		return nil, errors.New(errors.ErrCodeNotFound,
			fmt.Sprintf("unknown microarchitecture: %q", name))
	}
	return m, nil
}

// KnownCompilers returns the sorted names of every compiler mentioned
// anywhere in the registry.
func KnownCompilers() ([]string, error) {
	reg, err := registry()
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(reg.compilers))
	for c := range reg.compilers {
		out = append(out, c)
	}
	sort.Strings(out)
	return out, nil
}

// knownCompilerSet is the lookup used by flag resolution. A failed load
// yields an empty set, which downgrades every compiler to unknown.
func knownCompilerSet() map[string]struct{} {
	reg, err := registry()
	if err != nil {
		return nil
	}
	return reg.compilers
}

// parseDatabase decodes the YAML document with strict field checking, so a
// misspelled key fails the load instead of silently dropping data.
func parseDatabase(raw []byte) (*database, error) {
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	var db database
	if err := dec.Decode(&db); err != nil {
		return nil, errors.Wrap(errors.ErrCodeSchemaValidation,
			"malformed microarchitecture database", err)
	}
	if len(db.Targets) == 0 {
		return nil, errors.New(errors.ErrCodeSchemaValidation,
			"microarchitecture database defines no targets")
	}
	return &db, nil
}

// buildRegistry validates every record and links the ancestry graph.
func buildRegistry(db *database) (*Registry, error) {
	reg := &Registry{
		targets:   make(map[string]*Microarchitecture, len(db.Targets)),
		aliases:   make(map[string]featureAlias, len(db.Aliases)),
		compilers: make(map[string]struct{}),
	}

	for name, rec := range db.Aliases {
		if len(rec.AnyOf) == 0 && len(rec.Families) == 0 {
			return nil, errors.New(errors.ErrCodeSchemaValidation,
				fmt.Sprintf("feature alias %q declares no trigger", name))
		}
		reg.aliases[name] = featureAlias{anyOf: rec.AnyOf, families: rec.Families}
	}

	b := &registryBuilder{
		records: db.Targets,
		done:    reg.targets,
		pending: make(map[string]bool),
	}
	for _, name := range sortedKeys(db.Targets) {
		m, err := b.resolve(name)
		if err != nil {
			return nil, err
		}
		for c := range m.compilers {
			reg.compilers[c] = struct{}{}
		}
		reg.names = append(reg.names, name)
	}
	sort.Strings(reg.names)
	return reg, nil
}

// registryBuilder resolves records into linked entities, detecting
// dangling parents and ancestry cycles along the way.
type registryBuilder struct {
	records map[string]Record
	done    map[string]*Microarchitecture
	pending map[string]bool
}

func (b *registryBuilder) resolve(name string) (*Microarchitecture, error) {
	if m, ok := b.done[name]; ok {
		return m, nil
	}
	if b.pending[name] {
		return nil, errors.New(errors.ErrCodeSchemaValidation,
			fmt.Sprintf("ancestry cycle through microarchitecture %q", name))
	}
	rec, ok := b.records[name]
	if !ok {
		return nil, errors.New(errors.ErrCodeUnknownAncestor,
			fmt.Sprintf("parent microarchitecture %q is not defined", name))
	}
	if err := validateRecord(name, rec); err != nil {
		return nil, err
	}

	b.pending[name] = true
	defer delete(b.pending, name)

	parents := make([]*Microarchitecture, 0, len(rec.Parents))
	for _, p := range rec.Parents {
		pm, err := b.resolve(p)
		if err != nil {
			return nil, err
		}
		parents = append(parents, pm)
	}

	family := rec.Family
	if family == "" {
		if len(parents) > 0 {
			family = parents[0].family
		} else {
			family = name
		}
	}

	features := make(map[string]struct{}, len(rec.Features))
	for _, f := range rec.Features {
		features[f] = struct{}{}
	}

	compilers, err := parseCompilers(name, rec.Compilers)
	if err != nil {
		return nil, err
	}

	m := &Microarchitecture{
		name:       name,
		vendor:     rec.Vendor,
		family:     family,
		generation: rec.Generation,
		features:   features,
		parents:    parents,
		ancestors:  collectAncestors(parents),
		compilers:  compilers,
		record:     rec.clone(),
	}
	b.done[name] = m
	return m, nil
}

func validateRecord(name string, rec Record) error {
	switch {
	case name == "":
		return errors.New(errors.ErrCodeSchemaValidation,
			"microarchitecture with empty name")
	case strings.Contains(name, "/"):
		return errors.New(errors.ErrCodeSchemaValidation,
			fmt.Sprintf("microarchitecture name %q contains a path separator", name))
	case rec.Vendor == "":
		return errors.New(errors.ErrCodeSchemaValidation,
			fmt.Sprintf("microarchitecture %q declares no vendor", name))
	}
	return nil
}

func parseCompilers(name string, recs map[string][]CompilerRecord) (map[string][]compilerEntry, error) {
	out := make(map[string][]compilerEntry, len(recs))
	for compiler, entries := range recs {
		parsed := make([]compilerEntry, 0, len(entries))
		for i, e := range entries {
			if e.Flags == "" {
				return nil, errors.New(errors.ErrCodeSchemaValidation,
					fmt.Sprintf("%s: %s entry %d declares no flags", name, compiler, i))
			}
			rng, err := version.ParseRange(e.Versions)
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeSchemaValidation,
					fmt.Sprintf("%s: %s entry %d has a bad version range", name, compiler, i), err)
			}
			if i > 0 && !parsed[i-1].versions.Below(rng) {
				return nil, errors.New(errors.ErrCodeSchemaValidation,
					fmt.Sprintf("%s: %s entries must be ascending and non-overlapping", name, compiler))
			}
			parsed = append(parsed, compilerEntry{versions: rng, name: e.Name, flags: e.Flags})
		}
		out[compiler] = parsed
	}
	return out, nil
}

// collectAncestors walks the parent graph breadth-first with a visited
// set, yielding ancestors nearest first and deduplicating diamonds.
func collectAncestors(parents []*Microarchitecture) []*Microarchitecture {
	var out []*Microarchitecture
	seen := make(map[string]bool, len(parents))
	queue := append([]*Microarchitecture(nil), parents...)
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		if seen[next.name] {
			continue
		}
		seen[next.name] = true
		out = append(out, next)
		queue = append(queue, next.parents...)
	}
	return out
}

func sortedKeys(m map[string]Record) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
