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

	"github.com/NVIDIA/microarch/pkg/errors"
)

func TestOptimizationFlags(t *testing.T) {
	tests := []struct {
		target   string
		compiler string
		release  string
		expected string
	}{
		{"x86_64", "gcc", "4.9.3", "-march=x86-64 -mtune=x86-64"},
		{"nocona", "gcc", "4.9.3", "-march=nocona -mtune=nocona"},
		{"nehalem", "gcc", "4.9.3", "-march=nehalem -mtune=nehalem"},
		// gcc 4.8.5 predates the nehalem entry; the nearest ancestor
		// covering it is corei7.
		{"nehalem", "gcc", "4.8.5", "-march=corei7 -mtune=corei7"},
		// Pre-4.9 gcc spells the AVX parts by their marketing names; the
		// entries carry the old spelling as a name override.
		{"sandybridge", "gcc", "4.8.5", "-march=corei7-avx -mtune=corei7-avx"},
		{"ivybridge", "gcc", "4.8.5", "-march=corei7-avx -mtune=corei7-avx"},
		{"haswell", "gcc", "4.8.5", "-march=core-avx2 -mtune=core-avx2"},
		{"broadwell", "gcc", "4.9.3", "-march=broadwell -mtune=broadwell"},
		// skylake has no entry before gcc 6, broadwell covers it.
		{"skylake", "gcc", "4.9.3", "-march=broadwell -mtune=broadwell"},
		{"skylake_avx512", "gcc", "6.3.1", "-march=skylake-avx512 -mtune=skylake-avx512"},
		{"icelake", "gcc", "8.3.0", "-march=icelake-client -mtune=icelake-client"},
		{"excavator", "gcc", "4.9.3", "-march=bdver4 -mtune=bdver4"},
		{"zen", "gcc", "7.2.0", "-march=znver1 -mtune=znver1"},
		// zen's znver1 entry starts at gcc 6; older releases walk the
		// excavator lineage first and only then the x86_64 baseline.
		{"zen", "gcc", "4.9.3", "-march=bdver4 -mtune=bdver4"},
		{"zen", "gcc", "4.5.0", "-march=x86-64 -mtune=x86-64"},
		{"zen2", "clang", "9.0.1", "-march=znver2 -mtune=znver2"},
		{"power8", "gcc", "6.3.0", "-mcpu=power8 -mtune=power8"},
		{"power8le", "gcc", "4.9.3", "-mcpu=power8 -mtune=power8"},
		{"power9le", "clang", "8.0.0", "-mcpu=pwr9 -mtune=pwr9"},
		{"thunderx2", "gcc", "5.4.0", "-march=armv8.1-a"},
		{"thunderx2", "gcc", "7.0", "-mcpu=thunderx2t99"},
		{"aarch64", "gcc", "9.2.0", "-march=armv8-a -mtune=generic"},
	}

	for _, tt := range tests {
		t.Run(tt.target+"/"+tt.compiler+"@"+tt.release, func(t *testing.T) {
			flags, err := mustTarget(t, tt.target).OptimizationFlags(tt.compiler, tt.release)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, flags)
		})
	}
}

func TestOptimizationFlagsUnknownCompiler(t *testing.T) {
	flags, err := mustTarget(t, "sandybridge").OptimizationFlags("unknown", "4.8.5")
	require.NoError(t, err)
	assert.Empty(t, flags)

	// The degrade applies before the release string is even parsed.
	flags, err = mustTarget(t, "sandybridge").OptimizationFlags("unknown", "not.a.version")
	require.NoError(t, err)
	assert.Empty(t, flags)
}

func TestOptimizationFlagsUnsupported(t *testing.T) {
	// The bulldozer lineage starts at gcc 4.9 with no older fallback.
	_, err := mustTarget(t, "excavator").OptimizationFlags("gcc", "4.8.5")
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeUnsupportedMicroarchitecture, errors.Code(err))

	// A placeholder has no flag tables and no ancestors to fall back to.
	_, err = Generic("foo").OptimizationFlags("gcc", "9.2.0")
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeUnsupportedMicroarchitecture, errors.Code(err))
}

func TestOptimizationFlagsBadVersion(t *testing.T) {
	_, err := mustTarget(t, "skylake").OptimizationFlags("gcc", "not.a.version")
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeInvalidRequest, errors.Code(err))
}
