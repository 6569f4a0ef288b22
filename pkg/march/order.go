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
	"fmt"

	"github.com/NVIDIA/microarch/pkg/errors"
)

// Ordering is the outcome of comparing two microarchitectures under the
// capability partial order. An ancestor is strictly less capable than any
// of its descendants; members of the same family with no ancestry path
// between them remain Incomparable without being an error.
type Ordering int

const (
	Incomparable Ordering = iota
	Less
	Equal
	Greater
)

// String returns the conventional comparison operator for the ordering.
func (o Ordering) String() string {
	switch o {
	case Less:
		return "<"
	case Equal:
		return "=="
	case Greater:
		return ">"
	default:
		return "<>"
	}
}

// Compare orders m against other under the capability partial order.
//
// A nil other yields a TYPE_MISMATCH error. Two microarchitectures from
// different architecture families yield an INCOMPARABLE_ARCHITECTURES
// error: ordering across families is undefined, unlike equality which
// simply answers false. Within one family the result is Less when m is a
// strict ancestor of other, Greater when other is a strict ancestor of m,
// Equal on identical names, and Incomparable otherwise.
func (m *Microarchitecture) Compare(other *Microarchitecture) (Ordering, error) {
	if m == nil || other == nil {
		return Incomparable, errors.New(errors.ErrCodeTypeMismatch,
			"cannot compare a microarchitecture against nil")
	}
	if m.family != other.family {
		return Incomparable, errors.New(errors.ErrCodeIncomparableArchitectures,
			fmt.Sprintf("no ordering between architecture families %q and %q", m.family, other.family))
	}
	switch {
	case m.Equal(other):
		return Equal, nil
	case isAncestor(m, other):
		return Less, nil
	case isAncestor(other, m):
		return Greater, nil
	default:
		return Incomparable, nil
	}
}

// isAncestor reports whether a is a strict ancestor of b. Ancestor lists
// are precomputed at registry load from a visited-set graph walk, so this
// is a plain scan.
func isAncestor(a, b *Microarchitecture) bool {
	for _, anc := range b.ancestors {
		if anc.name == a.name && anc.generic == a.generic {
			return true
		}
	}
	return false
}

// LessThan reports whether m is a strict ancestor of other.
func (m *Microarchitecture) LessThan(other *Microarchitecture) (bool, error) {
	ord, err := m.Compare(other)
	return ord == Less, err
}

// AtMost reports whether m is other or one of its ancestors.
func (m *Microarchitecture) AtMost(other *Microarchitecture) (bool, error) {
	ord, err := m.Compare(other)
	return ord == Less || ord == Equal, err
}

// GreaterThan reports whether other is a strict ancestor of m.
func (m *Microarchitecture) GreaterThan(other *Microarchitecture) (bool, error) {
	ord, err := m.Compare(other)
	return ord == Greater, err
}

// AtLeast reports whether m is other or one of its descendants.
func (m *Microarchitecture) AtLeast(other *Microarchitecture) (bool, error) {
	ord, err := m.Compare(other)
	return ord == Greater || ord == Equal, err
}

// CompatibleWith reports whether a binary tuned for m runs on other,
// which holds exactly when m is other or one of its ancestors.
func (m *Microarchitecture) CompatibleWith(other *Microarchitecture) (bool, error) {
	return m.AtMost(other)
}
