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

func TestCompare(t *testing.T) {
	tests := []struct {
		a        string
		b        string
		expected Ordering
	}{
		{"x86_64", "skylake", Less},
		{"icelake", "skylake", Greater},
		{"nocona", "nocona", Equal},
		{"corei7", "nehalem", Less},
		{"zen", "zen2", Less},
		{"piledriver", "excavator", Less},
		{"piledriver", "zen", Less},
		// Same family, no ancestry path: incomparable without error.
		{"zen", "broadwell", Incomparable},
		{"cascadelake", "cannonlake", Incomparable},
	}

	for _, tt := range tests {
		t.Run(tt.a+" vs "+tt.b, func(t *testing.T) {
			ord, err := mustTarget(t, tt.a).Compare(mustTarget(t, tt.b))
			require.NoError(t, err)
			assert.Equal(t, tt.expected, ord)
		})
	}
}

func TestCompareAcrossFamilies(t *testing.T) {
	skylake := mustTarget(t, "skylake")
	power8 := mustTarget(t, "power8")
	pentium2 := mustTarget(t, "pentium2")

	// bulldozer roots its own family: the launch part never rejoined the
	// x86_64 order, so comparing it with skylake errors rather than
	// reporting incomparable.
	bulldozer := mustTarget(t, "bulldozer")

	for _, other := range []*Microarchitecture{power8, pentium2, bulldozer} {
		_, err := skylake.Compare(other)
		require.Error(t, err)
		assert.Equal(t, errors.ErrCodeIncomparableArchitectures, errors.Code(err))

		_, err = skylake.LessThan(other)
		assert.Error(t, err)
		_, err = skylake.AtLeast(other)
		assert.Error(t, err)
	}
}

func TestCompareAgainstNil(t *testing.T) {
	_, err := mustTarget(t, "skylake").Compare(nil)
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeTypeMismatch, errors.Code(err))
}

func TestOrderPredicates(t *testing.T) {
	zen := mustTarget(t, "zen")
	zen2 := mustTarget(t, "zen2")

	lt, err := zen.LessThan(zen2)
	require.NoError(t, err)
	assert.True(t, lt)

	ge, err := zen2.AtLeast(zen)
	require.NoError(t, err)
	assert.True(t, ge)

	ge, err = zen.AtLeast(zen)
	require.NoError(t, err)
	assert.True(t, ge)

	le, err := zen.AtMost(zen)
	require.NoError(t, err)
	assert.True(t, le)

	gt, err := zen.GreaterThan(zen)
	require.NoError(t, err)
	assert.False(t, gt)

	ok, err := zen.CompatibleWith(zen2)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = zen2.CompatibleWith(zen)
	require.NoError(t, err)
	assert.False(t, ok)

	// zen continues the excavator lineage, so piledriver precedes it.
	piledriver := mustTarget(t, "piledriver")
	le, err = piledriver.AtMost(zen)
	require.NoError(t, err)
	assert.True(t, le)
}

// Ordering must be transitive along a declared chain and antisymmetric
// between distinct members.
func TestOrderChainProperties(t *testing.T) {
	chain := []string{
		"x86_64", "nocona", "core2", "corei7", "nehalem", "westmere",
		"sandybridge", "ivybridge", "haswell", "broadwell", "skylake",
		"skylake_avx512", "cascadelake", "icelake",
	}

	for i := 0; i < len(chain); i++ {
		for j := i + 1; j < len(chain); j++ {
			a := mustTarget(t, chain[i])
			b := mustTarget(t, chain[j])

			ord, err := a.Compare(b)
			require.NoError(t, err)
			assert.Equal(t, Less, ord, "%s vs %s", chain[i], chain[j])

			ord, err = b.Compare(a)
			require.NoError(t, err)
			assert.Equal(t, Greater, ord, "%s vs %s", chain[j], chain[i])
		}
	}
}

func TestOrderingString(t *testing.T) {
	assert.Equal(t, "<", Less.String())
	assert.Equal(t, "==", Equal.String())
	assert.Equal(t, ">", Greater.String())
	assert.Equal(t, "<>", Incomparable.String())
}
