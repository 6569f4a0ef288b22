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

package file

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestGetLines(t *testing.T) {
	path := writeTempFile(t, "one\n\n# comment\ntwo\n  three  \n")

	p := NewParser()
	lines, err := p.GetLines(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"one", "two", "three"}, lines)
}

func TestGetLinesErrors(t *testing.T) {
	p := NewParser()

	_, err := p.GetLines("")
	assert.Error(t, err)

	_, err = p.GetLines(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)

	// oversized file
	big := writeTempFile(t, strings.Repeat("x", 64)+"\n")
	small := NewParser(WithMaxSize(16))
	_, err = small.GetLines(big)
	assert.Error(t, err)
}

func TestGetMapCPUInfoStyle(t *testing.T) {
	content := strings.Join([]string{
		"processor\t: 0",
		"vendor_id\t: GenuineIntel",
		"model name\t: Intel(R) Xeon(R) CPU E5-2680 v4 @ 2.40GHz",
		"flags\t\t: fpu vme mmx sse sse2",
		"processor\t: 1",
		"vendor_id\t: GenuineIntel",
		"flags\t\t: fpu vme mmx sse sse2",
	}, "\n")
	path := writeTempFile(t, content)

	p := NewParser(WithFirstWins(true))
	m, err := p.GetMap(path)
	require.NoError(t, err)

	assert.Equal(t, "GenuineIntel", m["vendor_id"])
	assert.Equal(t, "fpu vme mmx sse sse2", m["flags"])
	// first processor block wins
	assert.Equal(t, "0", m["processor"])
}

func TestGetMapLastWinsDefault(t *testing.T) {
	path := writeTempFile(t, "k: a\nk: b\n")

	p := NewParser()
	m, err := p.GetMap(path)
	require.NoError(t, err)
	assert.Equal(t, "b", m["k"])
}

func TestMapLines(t *testing.T) {
	p := NewParser()
	m := p.MapLines([]string{
		"cpu : POWER8 (raw), altivec supported",
		"platform : PowerNV",
		"bare line",
	})

	assert.Equal(t, "POWER8 (raw), altivec supported", m["cpu"])
	assert.Equal(t, "PowerNV", m["platform"])
	// line without delimiter gets the default value
	assert.Equal(t, "", m["bare line"])
}

func TestMapLinesSkipEmptyValues(t *testing.T) {
	p := NewParser(WithSkipEmptyValues(true))
	m := p.MapLines([]string{"a: 1", "bare line", "b:"})

	assert.Equal(t, map[string]string{"a": "1"}, m)
}

func TestMapLinesTrimChars(t *testing.T) {
	p := NewParser(WithKVDelimiter("="), WithVTrimChars(`"'`))
	m := p.MapLines([]string{`NAME="Ubuntu"`, `ID=ubuntu`})

	assert.Equal(t, "Ubuntu", m["NAME"])
	assert.Equal(t, "ubuntu", m["ID"])
}
