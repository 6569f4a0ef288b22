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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/NVIDIA/microarch/pkg/errors"
)

func TestRegistryLoads(t *testing.T) {
	targets, err := Targets()
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(targets), 30)

	names, err := TargetNames()
	require.NoError(t, err)
	assert.Len(t, names, len(targets))
}

func TestTargetNotFound(t *testing.T) {
	_, err := Target("no_such_target")
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeNotFound, errors.Code(err))
}

func TestKnownCompilers(t *testing.T) {
	compilers, err := KnownCompilers()
	require.NoError(t, err)
	assert.Contains(t, compilers, "gcc")
	assert.Contains(t, compilers, "clang")
}

func TestAliasesKnown(t *testing.T) {
	aliases, err := Aliases()
	require.NoError(t, err)
	assert.Contains(t, aliases, "sse4.1")
	assert.Contains(t, aliases, "altivec")
}

func TestParseDatabaseErrors(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"not yaml", ":\n :\t:"},
		{"unknown field rejected by strict decoding", `
microarchitectures:
  x86_64:
    vendor: generic
    parents: []
    features: []
    color: blue
`},
		{"no targets", `
feature_aliases:
  sse3:
    any_of: [pni]
`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseDatabase([]byte(tt.raw))
			require.Error(t, err)
			assert.Equal(t, errors.ErrCodeSchemaValidation, errors.Code(err))
		})
	}
}

func TestBuildRegistryValidation(t *testing.T) {
	valid := func() *database {
		return &database{
			Targets: map[string]Record{
				"root": {Vendor: "generic"},
				"leaf": {
					Vendor:  "TestVendor",
					Parents: []string{"root"},
					Compilers: map[string][]CompilerRecord{
						"gcc": {
							{Versions: "4.6:4.9", Flags: "-march={name}"},
							{Versions: "4.9:", Flags: "-march={name} -mtune={name}"},
						},
					},
				},
			},
		}
	}

	t.Run("valid database builds", func(t *testing.T) {
		reg, err := buildRegistry(valid())
		require.NoError(t, err)
		assert.Len(t, reg.targets, 2)
		assert.Equal(t, "root", reg.targets["leaf"].Family())
		assert.Contains(t, reg.compilers, "gcc")
	})

	tests := []struct {
		name   string
		mutate func(db *database)
		code   errors.ErrorCode
	}{
		{
			name: "missing vendor",
			mutate: func(db *database) {
				db.Targets["leaf"] = Record{Parents: []string{"root"}}
			},
			code: errors.ErrCodeSchemaValidation,
		},
		{
			name: "name with path separator",
			mutate: func(db *database) {
				db.Targets["a/b"] = Record{Vendor: "generic"}
			},
			code: errors.ErrCodeSchemaValidation,
		},
		{
			name: "dangling parent",
			mutate: func(db *database) {
				rec := db.Targets["leaf"]
				rec.Parents = []string{"missing"}
				db.Targets["leaf"] = rec
			},
			code: errors.ErrCodeUnknownAncestor,
		},
		{
			name: "ancestry cycle",
			mutate: func(db *database) {
				db.Targets["root"] = Record{Vendor: "generic", Parents: []string{"leaf"}}
			},
			code: errors.ErrCodeSchemaValidation,
		},
		{
			name: "malformed version range",
			mutate: func(db *database) {
				rec := db.Targets["leaf"]
				rec.Compilers = map[string][]CompilerRecord{
					"gcc": {{Versions: "oops", Flags: "-march={name}"}},
				}
				db.Targets["leaf"] = rec
			},
			code: errors.ErrCodeSchemaValidation,
		},
		{
			name: "overlapping version ranges",
			mutate: func(db *database) {
				rec := db.Targets["leaf"]
				rec.Compilers = map[string][]CompilerRecord{
					"gcc": {
						{Versions: "4.6:5.0", Flags: "-march={name}"},
						{Versions: "4.9:", Flags: "-march={name}"},
					},
				}
				db.Targets["leaf"] = rec
			},
			code: errors.ErrCodeSchemaValidation,
		},
		{
			name: "entry without flags",
			mutate: func(db *database) {
				rec := db.Targets["leaf"]
				rec.Compilers = map[string][]CompilerRecord{
					"gcc": {{Versions: "4.9:"}},
				}
				db.Targets["leaf"] = rec
			},
			code: errors.ErrCodeSchemaValidation,
		},
		{
			name: "alias without trigger",
			mutate: func(db *database) {
				db.Aliases = map[string]AliasRecord{"empty": {}}
			},
			code: errors.ErrCodeSchemaValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := valid()
			tt.mutate(db)
			_, err := buildRegistry(db)
			require.Error(t, err)
			assert.Equal(t, tt.code, errors.Code(err))
		})
	}
}

func TestFamilyResolution(t *testing.T) {
	db := &database{
		Targets: map[string]Record{
			"base":     {Vendor: "generic"},
			"explicit": {Vendor: "generic", Family: "base"},
			"derived":  {Vendor: "generic", Parents: []string{"base"}},
		},
	}

	reg, err := buildRegistry(db)
	require.NoError(t, err)

	// A root with no declared family is its own family; an explicit
	// family wins even without ancestry; children inherit from the
	// first parent.
	assert.Equal(t, "base", reg.targets["base"].Family())
	assert.Equal(t, "base", reg.targets["explicit"].Family())
	assert.Equal(t, "base", reg.targets["derived"].Family())
}

// Rebuilding the registry from its own structured records must reproduce
// equal entities.
func TestRecordRoundTrip(t *testing.T) {
	targets, err := Targets()
	require.NoError(t, err)

	records := make(map[string]Record, len(targets))
	for name, m := range targets {
		records[name] = m.Record()
	}

	raw, err := yaml.Marshal(map[string]any{"microarchitectures": records})
	require.NoError(t, err)

	db, err := parseDatabase(raw)
	require.NoError(t, err)
	rebuilt, err := buildRegistry(db)
	require.NoError(t, err)

	require.Len(t, rebuilt.targets, len(targets))
	for name, m := range targets {
		clone := rebuilt.targets[name]
		require.NotNil(t, clone, "missing %q after round trip", name)
		assert.True(t, m.Equal(clone))
		assert.Equal(t, m.Family(), clone.Family())
		assert.Equal(t, m.Generation(), clone.Generation())
		assert.Equal(t, m.Features(), clone.Features())
		assert.Equal(t, m.Compilers(), clone.Compilers())
	}
}

func BenchmarkTargetLookup(b *testing.B) {
	for i := 0; i < b.N; i++ {
		if _, err := Target("skylake"); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkOptimizationFlags(b *testing.B) {
	m, err := Target("skylake")
	if err != nil {
		b.Fatal(err)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := m.OptimizationFlags("gcc", "4.9.3"); err != nil {
			b.Fatal(err)
		}
	}
}
