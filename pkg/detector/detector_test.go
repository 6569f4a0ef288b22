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
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NVIDIA/microarch/pkg/probe"
)

// Each fixture is named "<system>-<target>.yaml" and must detect as
// exactly that registry member.
func TestDetectFixtures(t *testing.T) {
	entries, err := os.ReadDir("testdata")
	require.NoError(t, err)
	require.NotEmpty(t, entries)

	for _, entry := range entries {
		name := strings.TrimSuffix(entry.Name(), ".yaml")
		parts := strings.SplitN(name, "-", 2)
		require.Len(t, parts, 2, "fixture name %q", entry.Name())
		expected := parts[1]

		t.Run(name, func(t *testing.T) {
			f, err := probe.LoadFixture(filepath.Join("testdata", entry.Name()))
			require.NoError(t, err)

			detected := New(probe.NewFixtureProbe(f)).Detect(context.Background())
			require.NotNil(t, detected)
			assert.Equal(t, expected, detected.Name())
			assert.False(t, detected.IsGeneric())
		})
	}
}

func TestDetectUnknownMachine(t *testing.T) {
	p := probe.NewFixtureProbe(probe.Fixture{
		System:  "linux",
		Machine: "riscv64",
		Lines:   []string{"processor : 0", "flags : misc"},
	})

	detected := New(p).Detect(context.Background())
	require.NotNil(t, detected)
	assert.True(t, detected.IsGeneric())
	assert.Equal(t, "riscv64", detected.Name())
	assert.Empty(t, detected.Features())
}

// An unknown vendor rules out every vendor-constrained member, leaving
// the family baseline.
func TestDetectVendorFilter(t *testing.T) {
	p := probe.NewFixtureProbe(probe.Fixture{
		System:  "linux",
		Machine: "x86_64",
		Lines: []string{
			"processor : 0",
			"vendor_id : AuthenticAMD",
			"flags : mmx sse sse2 ssse3 sse4_1 sse4_2 popcnt aes pclmulqdq avx rdrand f16c movbe fma avx2 bmi1 bmi2 rdseed adx",
		},
	})

	detected := New(p).Detect(context.Background())
	require.NotNil(t, detected)
	assert.Equal(t, "x86_64", detected.Name())
	assert.False(t, detected.IsGeneric())
}

func TestDetectUnsupportedSystem(t *testing.T) {
	p := probe.NewFixtureProbe(probe.Fixture{
		System:  "plan9",
		Machine: "x86_64",
	})

	detected := New(p).Detect(context.Background())
	require.NotNil(t, detected)
	assert.True(t, detected.IsGeneric())
	assert.Equal(t, "x86_64", detected.Name())
}

// A failing probe degrades to the placeholder, never to an error.
func TestDetectProbeFailure(t *testing.T) {
	p := probe.NewFixtureProbe(probe.Fixture{
		System:  "linux",
		Machine: "x86_64",
		// no recorded lines: InfoLines fails
	})

	detected := New(p).Detect(context.Background())
	require.NotNil(t, detected)
	assert.True(t, detected.IsGeneric())
}

func TestHost(t *testing.T) {
	detected := Host(context.Background())
	require.NotNil(t, detected)
	assert.NotEmpty(t, detected.Name())
}
