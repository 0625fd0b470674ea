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
	"context"

	"github.com/ossmirror/pypimirror/pkg/marker"
	"github.com/ossmirror/pypimirror/pkg/pypiver"
	"github.com/ossmirror/pypimirror/pkg/registry/pypi"
)

// Selector turns (package, constraint) pairs into concrete MirrorPackages.
type Selector struct {
	Registry     pypi.Registry
	ArchExclude  []string
	DestRoot     string
	SimpleLayout bool
	Env          marker.Env // carried for callers that need it; not consulted here
}

// Select resolves every (package, constraints) pair in seeds into
// MirrorPackages, applying the "N latest" grammar, arch-exclusion (done
// upstream by the registry), and optional latest_only reduction.
func (s *Selector) Select(ctx context.Context, seeds map[string][]string, latestOnly bool) ([]MirrorPackage, error) {
	var out []MirrorPackage
	for project, constraints := range seeds {
		artifacts, err := s.Registry.ProjectArtifacts(ctx, project, s.ArchExclude)
		if err != nil {
			continue // upstream unavailable: treat as no releases, per spec §4.3/§7
		}
		for _, constraint := range constraints {
			selected, err := s.selectOne(project, artifacts, constraint, latestOnly)
			if err != nil {
				continue
			}
			out = append(out, selected...)
		}
	}
	return out, nil
}

// selectOne implements spec §4.5 steps 1-6 for a single constraint token
// against one project's artifact list.
func (s *Selector) selectOne(project string, artifacts []pypi.LightPackage, constraint string, latestOnly bool) ([]MirrorPackage, error) {
	resolved := constraint
	if lc, ok := parseLatest(constraint); ok {
		resolved = resolveLatest(parseableVersions(artifacts), lc)
		if resolved == "" {
			return nil, nil
		}
		// A "latest"-family token always collapses to the single highest
		// matching version, regardless of the caller's latestOnly flag:
		// the leading N only widens the lower bound the reduction is
		// computed against, it does not keep N versions.
		latestOnly = true
	}
	ss, specErr := pypiver.ParseSpecifierSet(resolved)

	matchesByVersion := make(map[string][]pypi.LightPackage)
	var order []string
	for _, a := range artifacts {
		var match bool
		if specErr == nil {
			v, err := pypiver.Parse(a.Version)
			if err != nil {
				continue // unparseable releases are excluded from range matching
			}
			match = ss.Contains(v)
		} else {
			// Unparseable constraint literal: fall back to exact-string
			// equality against the upstream version string.
			match = a.Version == resolved
		}
		if !match {
			continue
		}
		key := a.Version
		if _, seen := matchesByVersion[key]; !seen {
			order = append(order, key)
		}
		matchesByVersion[key] = append(matchesByVersion[key], a)
	}
	if len(order) == 0 {
		return nil, nil
	}
	if latestOnly {
		best, ok := highestNonYanked(order, matchesByVersion)
		if !ok {
			return nil, nil
		}
		order = []string{best}
	}
	var out []MirrorPackage
	for _, version := range order {
		for _, a := range matchesByVersion[version] {
			out = append(out, MirrorPackage{
				Project:   project,
				Version:   version,
				Basename:  a.Filename,
				URL:       a.URL,
				SHA256:    a.SHA256,
				Yanked:    a.Yanked,
				LocalPath: LocalPath(s.DestRoot, a.SHA256, a.Filename, s.SimpleLayout),
			})
		}
	}
	return out, nil
}

func parseableVersions(artifacts []pypi.LightPackage) []pypiver.Version {
	seen := make(map[string]bool)
	var out []pypiver.Version
	for _, a := range artifacts {
		if seen[a.Version] {
			continue
		}
		seen[a.Version] = true
		v, err := pypiver.Parse(a.Version)
		if err != nil {
			continue
		}
		out = append(out, v)
	}
	return out
}

// highestNonYanked returns the version string among order with the
// highest PEP 440 ordering whose artifacts are not all yanked,
// preferring a parseable-version comparison and falling back to the
// first non-yanked entry in order (upstream-map iteration order) if none
// parse.
func highestNonYanked(order []string, byVersion map[string][]pypi.LightPackage) (string, bool) {
	var best string
	var bestVer pypiver.Version
	haveBest := false
	for _, version := range order {
		if allYanked(byVersion[version]) {
			continue
		}
		v, err := pypiver.Parse(version)
		if err != nil {
			if !haveBest {
				best = version
				haveBest = true
			}
			continue
		}
		if !haveBest || pypiver.Compare(v, bestVer) > 0 {
			best, bestVer, haveBest = version, v, true
		}
	}
	return best, haveBest
}

func allYanked(artifacts []pypi.LightPackage) bool {
	for _, a := range artifacts {
		if !a.Yanked {
			return false
		}
	}
	return len(artifacts) > 0
}
