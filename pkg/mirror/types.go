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

// Package mirror implements the constraint-driven selector and resolver
// that together decide which upstream artifacts make up one mirror run.
package mirror

import (
	"path/filepath"
	"regexp"
	"strings"
)

// MirrorPackage is a single artifact selected for download, or (with
// URL/SHA256/LocalPath left zero) a bare graph node representing a
// (project, version) pair whose artifacts have not yet been chosen.
type MirrorPackage struct {
	Project   string
	Version   string // upstream version string, not necessarily PEP 440-valid
	Basename  string
	URL       string
	LocalPath string
	SHA256    string
	Yanked    bool
}

// Identity is the deduplication key for a MirrorPackage: (project,
// version, basename). A node-only MirrorPackage (no URL) degenerates to
// (project, version, "").
type Identity struct {
	Project  string
	Version  string
	Basename string
}

// ID returns p's deduplication identity.
func (p MirrorPackage) ID() Identity {
	return Identity{Project: p.Project, Version: p.Version, Basename: p.Basename}
}

// Node returns the simplified (project, version) graph-node identity,
// with the URL/basename dropped.
func (p MirrorPackage) Node() Identity {
	return Identity{Project: p.Project, Version: p.Version}
}

var normalizeRE = regexp.MustCompile(`[-_.]+`)

// NormalizeName lowercases a project name and collapses runs of "-_." to
// a single "-", the normalization PEP 503 requires for index paths.
func NormalizeName(name string) string {
	return normalizeRE.ReplaceAllString(strings.ToLower(name), "-")
}

// LocalPath computes an artifact's on-disk path under root. When simple
// is true it uses the PEP 503-ish hash-sharded layout
// "<root>/packages/<sha[0:2]>/<sha[2:4]>/<sha[4:]>/<basename>"; otherwise
// a flat "<root>/<basename>".
func LocalPath(root, sha256, basename string, simple bool) string {
	if !simple {
		return filepath.Join(root, basename)
	}
	if len(sha256) < 6 {
		// Malformed digest: fall back to a flat path rather than panic on
		// a slice out of range; this should not happen with a real
		// upstream-supplied SHA-256 hex digest.
		return filepath.Join(root, basename)
	}
	return filepath.Join(root, "packages", sha256[0:2], sha256[2:4], sha256[4:], basename)
}
