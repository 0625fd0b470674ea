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

package mirror

import (
	"archive/zip"
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"testing"

	"github.com/ossmirror/pypimirror/pkg/downloader"
	"github.com/ossmirror/pypimirror/pkg/registry/pypi"
)

func buildWheel(t *testing.T, distInfo, metadataBody string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create(distInfo + "/METADATA")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.Write([]byte(metadataBody)); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func sha256Hex(b []byte) string {
	h := sha256.Sum256(b)
	return hex.EncodeToString(h[:])
}

type fakeDoClient struct {
	bodies map[string][]byte
}

func (c *fakeDoClient) Do(req *http.Request) (*http.Response, error) {
	body, ok := c.bodies[req.URL.String()]
	if !ok {
		return &http.Response{StatusCode: http.StatusNotFound, Body: io.NopCloser(bytes.NewReader(nil))}, nil
	}
	return &http.Response{StatusCode: http.StatusOK, Body: io.NopCloser(bytes.NewReader(body))}, nil
}

func TestResolver_Run_FollowsTransitiveDependency(t *testing.T) {
	rootWheel := buildWheel(t, "root-1.0.0.dist-info", "Metadata-Version: 2.1\nName: root\nRequires-Dist: leaf (>=1.0)\n")
	leafWheel := buildWheel(t, "leaf-1.0.0.dist-info", "Metadata-Version: 2.1\nName: leaf\n")

	rootURL := "http://fake/root-1.0.0-py3-none-any.whl"
	leafURL := "http://fake/leaf-1.0.0-py3-none-any.whl"

	reg := &fakeRegistry{artifacts: map[string][]pypi.LightPackage{
		"root": {
			{Project: "root", Version: "1.0.0", Filename: "root-1.0.0-py3-none-any.whl", URL: rootURL, SHA256: sha256Hex(rootWheel)},
		},
		"leaf": {
			{Project: "leaf", Version: "1.0.0", Filename: "leaf-1.0.0-py3-none-any.whl", URL: leafURL, SHA256: sha256Hex(leafWheel)},
		},
	}}

	destRoot := t.TempDir()
	sel := &Selector{Registry: reg, DestRoot: destRoot}
	dl := &downloader.Downloader{Client: &fakeDoClient{bodies: map[string][]byte{
		rootURL: rootWheel,
		leafURL: leafWheel,
	}}}
	res := &Resolver{Registry: reg, Selector: sel, Downloader: dl, DestRoot: destRoot}

	downloaded, graph, err := res.Run(context.Background(), map[string][]string{"root": {">=1.0"}}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(downloaded) != 2 {
		t.Fatalf("downloaded = %d entries, want 2: %v", len(downloaded), downloaded)
	}
	root := Identity{Project: "root", Version: "1.0.0", Basename: "root-1.0.0-py3-none-any.whl"}
	leaf := Identity{Project: "leaf", Version: "1.0.0", Basename: "leaf-1.0.0-py3-none-any.whl"}
	if _, ok := downloaded[root]; !ok {
		t.Errorf("root not in downloaded set: %v", downloaded)
	}
	if _, ok := downloaded[leaf]; !ok {
		t.Errorf("leaf not in downloaded set: %v", downloaded)
	}
	rootNode := Identity{Project: "root", Version: "1.0.0"}
	deps, ok := graph[rootNode]
	if !ok || len(deps) != 1 || deps[0] != (Identity{Project: "leaf", Version: "1.0.0"}) {
		t.Errorf("graph[root] = %v, want single resolved leaf@1.0.0 edge", deps)
	}
}

func TestResolver_BuildSeedMap_ExplicitOverridesRegex(t *testing.T) {
	reg := &fakeRegistry{names: []string{"django", "django-extensions", "flask"}}
	res := &Resolver{Registry: reg}
	seeds, err := res.buildSeedMap(context.Background(), map[string][]string{"django": {"1.0"}}, map[string][]string{"^django.*$": {"latest"}})
	if err != nil {
		t.Fatal(err)
	}
	if got := seeds["django"]; len(got) != 1 || got[0] != "1.0" {
		t.Errorf("explicit packages entry for django = %v, want overridden to [1.0]", got)
	}
	if got := seeds["django-extensions"]; len(got) != 1 || got[0] != "latest" {
		t.Errorf("regex-derived entry for django-extensions = %v, want [latest]", got)
	}
	if _, ok := seeds["flask"]; ok {
		t.Errorf("flask should not have been seeded, got %v", seeds["flask"])
	}
}

func TestResolver_Graph_ConvertsToDotNodes(t *testing.T) {
	res := &Resolver{depsGraph: map[Identity][]Identity{
		{Project: "root", Version: "1.0.0"}: {{Project: "leaf", Version: "2.0.0"}},
	}}
	got := res.Graph()
	if len(got) != 1 {
		t.Fatalf("Graph() = %v, want 1 entry", got)
	}
	for node, deps := range got {
		if node.Project != "root" || len(deps) != 1 || deps[0].Project != "leaf" {
			t.Errorf("Graph() node/deps = %+v/%+v, want root -> leaf", node, deps)
		}
	}
}

func TestSimpleIndexArtifacts(t *testing.T) {
	downloaded := map[Identity]MirrorPackage{
		{Project: "Sample.Pkg", Version: "1.0.0", Basename: "sample.pkg-1.0.0.tar.gz"}: {
			Project: "Sample.Pkg", Version: "1.0.0", Basename: "sample.pkg-1.0.0.tar.gz",
			LocalPath: "/dest/sample.pkg-1.0.0.tar.gz", SHA256: "deadbeef",
		},
	}
	got := SimpleIndexArtifacts(downloaded)
	if len(got) != 1 || got[0].Project != "sample-pkg" {
		t.Errorf("SimpleIndexArtifacts() = %v, want normalized project name sample-pkg", got)
	}
}
