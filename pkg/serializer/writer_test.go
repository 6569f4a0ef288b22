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

package serializer

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

type testPayload struct {
	Name     string   `json:"name" yaml:"name"`
	Family   string   `json:"family" yaml:"family"`
	Features []string `json:"features" yaml:"features"`
}

func samplePayload() testPayload {
	return testPayload{
		Name:     "broadwell",
		Family:   "x86_64",
		Features: []string{"avx2", "rdseed"},
	}
}

func TestWriterJSON(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(FormatJSON, &buf)
	require.NoError(t, w.Serialize(context.Background(), samplePayload()))

	var out testPayload
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.Equal(t, samplePayload(), out)
}

func TestWriterYAML(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(FormatYAML, &buf)
	require.NoError(t, w.Serialize(context.Background(), samplePayload()))

	var out testPayload
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &out))
	assert.Equal(t, samplePayload(), out)
}

func TestWriterTable(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(FormatTable, &buf)
	require.NoError(t, w.Serialize(context.Background(), samplePayload()))

	out := buf.String()
	assert.Contains(t, out, "FIELD")
	assert.Contains(t, out, "Name")
	assert.Contains(t, out, "broadwell")
	assert.Contains(t, out, "Features.[0]")
}

func TestWriterUnknownFormatDefaultsToJSON(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(Format("xml"), &buf)
	require.NoError(t, w.Serialize(context.Background(), samplePayload()))

	var out testPayload
	assert.NoError(t, json.Unmarshal(buf.Bytes(), &out))
}

func TestFileWriterOrStdout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	w := NewFileWriterOrStdout(FormatJSON, path)
	require.NoError(t, w.Serialize(context.Background(), samplePayload()))
	require.NoError(t, w.Close())
	require.NoError(t, w.Close()) // idempotent

	out, err := FromFile[testPayload](path)
	require.NoError(t, err)
	assert.Equal(t, samplePayload(), *out)
}

func TestSupportedFormats(t *testing.T) {
	assert.ElementsMatch(t, []string{"json", "yaml", "table"}, SupportedFormats())
}
