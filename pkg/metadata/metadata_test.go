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

package metadata

import (
	"archive/tar"
	"archive/zip"
	"compress/gzip"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func writeWheel(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "sample-1.0.0-py3-none-any.whl")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	zw := zip.NewWriter(f)
	w, err := zw.Create("sample-1.0.0.dist-info/METADATA")
	if err != nil {
		t.Fatal(err)
	}
	w.Write([]byte("Metadata-Version: 2.1\nName: sample\nRequires-Dist: requests (>=2.0)\nRequires-Dist: numpy; extra == \"math\"\n"))
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return path
}

func writeSdist(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "sample-1.0.0.tar.gz")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	gw := gzip.NewWriter(f)
	tw := tar.NewWriter(gw)
	content := []byte("Metadata-Version: 1.0\nName: sample\nRequires: click\n")
	if err := tw.WriteHeader(&tar.Header{Name: "sample-1.0.0/PKG-INFO", Size: int64(len(content)), Mode: 0o644}); err != nil {
		t.Fatal(err)
	}
	if _, err := tw.Write(content); err != nil {
		t.Fatal(err)
	}
	if err := tw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := gw.Close(); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRequiresDist_Wheel(t *testing.T) {
	dir := t.TempDir()
	path := writeWheel(t, dir)
	got := RequiresDist(path)
	want := []string{"requests (>=2.0)", `numpy; extra == "math"`}
	if diff := cmp.Diff(got, want); diff != "" {
		t.Errorf("RequiresDist mismatch: diff\n%v", diff)
	}
}

func TestRequiresDist_Sdist(t *testing.T) {
	dir := t.TempDir()
	path := writeSdist(t, dir)
	got := RequiresDist(path)
	want := []string{"click"}
	if diff := cmp.Diff(got, want); diff != "" {
		t.Errorf("RequiresDist mismatch: diff\n%v", diff)
	}
}

func TestRequiresDist_UnreadableFileReturnsNil(t *testing.T) {
	if got := RequiresDist(filepath.Join(t.TempDir(), "missing.whl")); got != nil {
		t.Errorf("RequiresDist(missing file) = %v, want nil", got)
	}
}

func TestRequiresDist_CorruptZipReturnsNil(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.whl")
	if err := os.WriteFile(path, []byte("not a zip"), 0o644); err != nil {
		t.Fatal(err)
	}
	if got := RequiresDist(path); got != nil {
		t.Errorf("RequiresDist(corrupt zip) = %v, want nil", got)
	}
}
