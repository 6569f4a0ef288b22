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
	"errors"
	"fmt"
	"strings"
)

// Error types for range parsing failures
var (
	ErrEmptyRange     = errors.New("range string is empty")
	ErrMalformedRange = errors.New("range must have the form \"lo:hi\"")
	ErrInvertedRange  = errors.New("range lower bound is not below its upper bound")
)

// Range is a half-open version interval "lo:hi": the lower bound is
// inclusive, the upper bound exclusive, and either side may be empty for an
// unbounded end. "4.6:4.9" contains 4.8.5 but not 4.9.0; "4.9:" contains
// everything from 4.9 up.
type Range struct {
	// Lo is the inclusive lower bound; ignored when HasLo is false.
	Lo    Version
	HasLo bool

	// Hi is the exclusive upper bound; ignored when HasHi is false.
	Hi    Version
	HasHi bool
}

// ParseRange parses a range string of the form "lo:hi".
// Both bounds are optional: ":" is the unbounded range, "4.9:" is
// everything from 4.9 on, ":4.9" everything before 4.9.
func ParseRange(s string) (Range, error) {
	if strings.TrimSpace(s) == "" {
		return Range{}, ErrEmptyRange
	}

	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return Range{}, fmt.Errorf("%w: %q", ErrMalformedRange, s)
	}

	var r Range

	if lo := strings.TrimSpace(parts[0]); lo != "" {
		v, err := ParseVersion(lo)
		if err != nil {
			return Range{}, fmt.Errorf("invalid range lower bound %q: %w", lo, err)
		}
		r.Lo = v
		r.HasLo = true
	}

	if hi := strings.TrimSpace(parts[1]); hi != "" {
		v, err := ParseVersion(hi)
		if err != nil {
			return Range{}, fmt.Errorf("invalid range upper bound %q: %w", hi, err)
		}
		r.Hi = v
		r.HasHi = true
	}

	if r.HasLo && r.HasHi && r.Lo.Compare(r.Hi) >= 0 {
		return Range{}, fmt.Errorf("%w: %q", ErrInvertedRange, s)
	}

	return r, nil
}

// MustParseRange parses a range string and panics on failure.
// Only use this for hardcoded strings or in tests.
func MustParseRange(s string) Range {
	r, err := ParseRange(s)
	if err != nil {
		panic(fmt.Sprintf("MustParseRange: %v", err))
	}
	return r
}

// Contains reports whether v falls inside the range. Bound comparisons
// respect the bound's precision: an upper bound of "4.9" excludes every
// 4.9.x version, which is how half-open compiler ranges are written.
func (r Range) Contains(v Version) bool {
	if r.HasLo && v.Compare(r.Lo) < 0 {
		return false
	}
	if r.HasHi && v.Compare(r.Hi) >= 0 {
		return false
	}
	return true
}

// Below reports whether the entire range lies below the other range,
// i.e. r's upper bound does not reach past other's lower bound.
// Used to validate that per-compiler range sequences are ascending and
// non-overlapping.
func (r Range) Below(other Range) bool {
	if !r.HasHi || !other.HasLo {
		return false
	}
	return r.Hi.Compare(other.Lo) <= 0
}

// String renders the range back to its "lo:hi" form.
func (r Range) String() string {
	var lo, hi string
	if r.HasLo {
		lo = r.Lo.String()
	}
	if r.HasHi {
		hi = r.Hi.String()
	}
	return lo + ":" + hi
}
