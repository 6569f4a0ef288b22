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
)

// FuzzParseVersion performs fuzz testing on ParseVersion to find edge cases
func FuzzParseVersion(f *testing.F) {
	// Seed corpus with valid and edge case inputs
	f.Add("1")
	f.Add("v1")
	f.Add("1.2")
	f.Add("v1.2")
	f.Add("1.2.3")
	f.Add("v1.2.3")
	f.Add("0")
	f.Add("0.0")
	f.Add("0.0.0")
	f.Add("999.999.999")
	f.Add("")
	f.Add(".")
	f.Add("..")
	f.Add("1.")
	f.Add(".1")
	f.Add("1..2")
	f.Add("v")
	f.Add("vv1")
	f.Add("-1")
	f.Add("1.-2")
	f.Add("a.b.c")
	f.Add("1.2.3.4")
	f.Add("10.2.1-6")

	f.Fuzz(func(t *testing.T, input string) {
		// ParseVersion should never panic
		v, err := ParseVersion(input)

		// If parsing succeeded, verify the version is valid
		if err == nil {
			if !v.IsValid() {
				t.Errorf("ParseVersion(%q) returned invalid version: %+v", input, v)
			}
		}
	})
}

// FuzzParseRange performs fuzz testing on ParseRange to find edge cases
func FuzzParseRange(f *testing.F) {
	f.Add("4.6:4.9")
	f.Add("4.9:")
	f.Add(":4.9")
	f.Add(":")
	f.Add("")
	f.Add("::")
	f.Add("a:b")
	f.Add("9.9.9:0.0.1")

	f.Fuzz(func(t *testing.T, input string) {
		// ParseRange should never panic
		r, err := ParseRange(input)

		// A successfully parsed bounded range must not be inverted
		if err == nil && r.HasLo && r.HasHi {
			if r.Lo.Compare(r.Hi) >= 0 {
				t.Errorf("ParseRange(%q) returned inverted range: %+v", input, r)
			}
		}
	})
}
