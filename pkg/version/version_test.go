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

package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVersion(t *testing.T) {
	tests := []struct {
		input     string
		expected  Version
		expectErr bool
	}{
		{input: "4", expected: Version{Major: 4, Precision: 1}},
		{input: "4.9", expected: Version{Major: 4, Minor: 9, Precision: 2}},
		{input: "4.9.3", expected: Version{Major: 4, Minor: 9, Patch: 3, Precision: 3}},
		{input: "v4.9.3", expected: Version{Major: 4, Minor: 9, Patch: 3, Precision: 3}},
		{input: "10.2.1-6", expected: Version{Major: 10, Minor: 2, Patch: 1, Precision: 3, Extras: "-6"}},
		{input: "", expectErr: true},
		{input: "a.b.c", expectErr: true},
		{input: "1.2.3.4", expectErr: true},
		{input: "1..3", expectErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			v, err := ParseVersion(tt.input)
			if tt.expectErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, v)
		})
	}
}

func TestVersionString(t *testing.T) {
	assert.Equal(t, "4", Version{Major: 4, Precision: 1}.String())
	assert.Equal(t, "4.9", Version{Major: 4, Minor: 9, Precision: 2}.String())
	assert.Equal(t, "4.9.3", NewVersion(4, 9, 3).String())
}

func TestCompare(t *testing.T) {
	tests := []struct {
		name     string
		a, b     string
		expected int
	}{
		{"equal full precision", "4.9.3", "4.9.3", 0},
		{"patch newer", "4.9.3", "4.9.0", 1},
		{"patch older", "4.8.5", "4.9.0", -1},
		{"major dominates", "5.0.0", "4.9.9", 1},
		{"minor precision matches any patch", "4.9.3", "4.9", 0},
		{"major precision matches any minor", "4.9.3", "4", 0},
		{"below minor precision bound", "4.8.5", "4.9", -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := MustParseVersion(tt.a)
			b := MustParseVersion(tt.b)
			assert.Equal(t, tt.expected, a.Compare(b))
		})
	}
}

func TestEqualsOrNewer(t *testing.T) {
	assert.True(t, MustParseVersion("4.9.3").EqualsOrNewer(MustParseVersion("4.9.0")))
	assert.True(t, MustParseVersion("4.9").EqualsOrNewer(MustParseVersion("4.9.7")))
	assert.False(t, MustParseVersion("4.8.5").EqualsOrNewer(MustParseVersion("4.9.0")))
}

func TestIsNewer(t *testing.T) {
	assert.True(t, MustParseVersion("9.0.1").IsNewer(MustParseVersion("9.0.0")))
	assert.False(t, MustParseVersion("9.0.0").IsNewer(MustParseVersion("9.0.0")))
	assert.False(t, MustParseVersion("9").IsNewer(MustParseVersion("9.5.2")))
}

func TestMustParseVersionPanics(t *testing.T) {
	assert.Panics(t, func() { MustParseVersion("not-a-version") })
}
