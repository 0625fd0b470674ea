// Copyright 2026 The pypimirror Authors
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

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pypisync.conf")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_Valid(t *testing.T) {
	path := writeConfig(t, `{
		"destination_folder": "/tmp/mirror",
		"arch_exclude": ["manylinux"],
		"environment": {"extra": []},
		"packages": {"pyyaml": ["5.1.1"]}
	}`)
	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.DestinationFolder != "/tmp/mirror" {
		t.Errorf("DestinationFolder = %q, want /tmp/mirror", c.DestinationFolder)
	}
	if c.EndpointOrDefault() != "" {
		t.Errorf("EndpointOrDefault() = %q, want empty (no endpoint configured)", c.EndpointOrDefault())
	}
}

func TestLoad_MissingDestination(t *testing.T) {
	path := writeConfig(t, `{"packages": {"pyyaml": ["5.1.1"]}}`)
	if _, err := Load(path); err == nil {
		t.Error("Load with missing destination_folder succeeded, want error")
	}
}

func TestLoad_NoPackages(t *testing.T) {
	path := writeConfig(t, `{"destination_folder": "/tmp/mirror"}`)
	if _, err := Load(path); err == nil {
		t.Error("Load with no packages or packages_re succeeded, want error")
	}
}

func TestLoad_MalformedJSON(t *testing.T) {
	path := writeConfig(t, `{not json`)
	if _, err := Load(path); err == nil {
		t.Error("Load with malformed JSON succeeded, want error")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nonexistent.conf")); err == nil {
		t.Error("Load of a nonexistent file succeeded, want error")
	}
}
