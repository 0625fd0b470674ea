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

// Package pypi describes the PyPI registry interface: release metadata
// lookup and bulk project-name enumeration.
package pypi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"path"
	"sync"
	"time"

	"github.com/ossmirror/pypimirror/internal/cache"
	"github.com/ossmirror/pypimirror/internal/httpx"
	"github.com/pkg/errors"
)

var defaultRegistryURL, _ = url.Parse("https://pypi.org")

// Project describes a single PyPI project with multiple releases.
type Project struct {
	Info     `json:"info"`
	Releases map[string][]Artifact `json:"releases"`
}

// Info about a project.
type Info struct {
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Version     string            `json:"version"`
	Homepage    string            `json:"home_page"`
	ProjectURLs map[string]string `json:"project_urls"`
}

// An Artifact is one out of the multiple files that can be included in a
// release. PyPI might refer to this object as a "package" which is why
// it has a PackageType.
type Artifact struct {
	Digests       `json:"digests"`
	Filename      string    `json:"filename"`
	Size          int64     `json:"size"`
	PackageType   string    `json:"packagetype"`
	PythonVersion string    `json:"python_version"`
	URL           string    `json:"url"`
	Yanked        bool      `json:"yanked"`
	UploadTime    time.Time `json:"upload_time_iso_8601"`
}

// Digests are the hashes of the artifact.
type Digests struct {
	MD5    string `json:"md5"`
	SHA256 string `json:"sha256"`
}

// Registry is a PyPI package registry. It exposes only what a mirror run
// actually needs: ProjectArtifacts drives selection and Project backs it,
// ListProjectNames drives packages_re expansion. The downloader fetches
// artifact bytes directly from the URL a LightPackage carries, so the
// registry itself has no per-artifact fetch method.
type Registry interface {
	Project(context.Context, string) (*Project, error)
	ListProjectNames(context.Context) ([]string, error)
	ProjectArtifacts(ctx context.Context, name string, archExclude []string) ([]LightPackage, error)
}

// HTTPRegistry is a Registry implementation that uses the pypi.org HTTP API.
// ProjectArtifacts and ListProjectNames results are memoized for the
// lifetime of the HTTPRegistry value, mirroring the upstream mirror's
// original per-method memoize decorator on its connector class: repeated
// artifact lookups of the same project within one mirror run hit the
// network once. Project itself is not cached.
type HTTPRegistry struct {
	Client      httpx.BasicClient
	RegistryURL *url.URL // defaults to https://pypi.org when nil

	cacheOnce sync.Once
	cacheVal  *cache.CoalescingMemoryCache
}

func (r *HTTPRegistry) cache() *cache.CoalescingMemoryCache {
	r.cacheOnce.Do(func() { r.cacheVal = &cache.CoalescingMemoryCache{} })
	return r.cacheVal
}

func (r *HTTPRegistry) base() *url.URL {
	if r.RegistryURL != nil {
		return r.RegistryURL
	}
	return defaultRegistryURL
}

// Project provides all API information related to the given package.
func (r *HTTPRegistry) Project(ctx context.Context, pkg string) (*Project, error) {
	pathURL, err := url.Parse(path.Join("/pypi", pkg, "json"))
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.base().ResolveReference(pathURL).String(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := r.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != 200 {
		return nil, errors.Errorf("pypi registry error: %v", resp.Status)
	}
	var p Project
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return nil, err
	}
	return &p, nil
}

var _ Registry = &HTTPRegistry{}
