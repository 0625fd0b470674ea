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
	"log"
	"regexp"

	"github.com/ossmirror/pypimirror/internal/dot"
	"github.com/ossmirror/pypimirror/pkg/downloader"
	"github.com/ossmirror/pypimirror/pkg/marker"
	"github.com/ossmirror/pypimirror/pkg/metadata"
	"github.com/ossmirror/pypimirror/pkg/registry/pypi"
	"github.com/ossmirror/pypimirror/pkg/simpleindex"
	"github.com/pkg/errors"
)

// Resolver drives the fixpoint select → download → read-deps → select
// loop described in spec §4.6, reusing one Selector and one Downloader
// worker pool across every iteration of the run.
type Resolver struct {
	Registry     pypi.Registry
	Selector     *Selector
	Downloader   *downloader.Downloader
	Env          marker.Env
	SimpleLayout bool
	DestRoot     string

	downloaded map[Identity]MirrorPackage
	depsGraph  map[Identity][]Identity
}

// Run resolves seedPackages (the explicit "packages" map) and
// seedPackagesRe (the "packages_re" map) against the upstream registry,
// downloads the transitive closure, and returns the final downloaded set
// and dependency graph for the emitter/graph-dump collaborators.
func (r *Resolver) Run(ctx context.Context, seedPackages map[string][]string, seedPackagesRe map[string][]string) (map[Identity]MirrorPackage, map[Identity][]Identity, error) {
	r.downloaded = make(map[Identity]MirrorPackage)
	r.depsGraph = make(map[Identity][]Identity)

	seeds, err := r.buildSeedMap(ctx, seedPackages, seedPackagesRe)
	if err != nil {
		return nil, nil, err
	}
	frontier, err := r.Selector.Select(ctx, seeds, false)
	if err != nil {
		return nil, nil, err
	}
	for len(frontier) > 0 {
		frontier = r.dropDownloaded(frontier)
		if len(frontier) == 0 {
			break
		}
		if err := r.downloadAll(ctx, frontier); err != nil {
			return nil, nil, err
		}

		aggregated := make(map[string][]string)
		reqsByPkg := make(map[Identity][]Requirement, len(frontier))
		for _, pkg := range frontier {
			r.downloaded[pkg.ID()] = pkg
			reqs := r.readRequirements(pkg)
			reqsByPkg[pkg.Node()] = reqs
			for _, req := range reqs {
				aggregated[req.Name] = append(aggregated[req.Name], req.Specifier)
			}
		}
		next, err := r.Selector.Select(ctx, aggregated, true)
		if err != nil {
			return nil, nil, err
		}

		// next holds the concrete (project, version) chosen for every
		// requirement name aggregated above; group it so each P's own
		// dependency set can be merged as resolved nodes, not bare names.
		resolvedByProject := make(map[string][]MirrorPackage, len(next))
		for _, p := range next {
			resolvedByProject[p.Project] = append(resolvedByProject[p.Project], p)
		}
		for _, pkg := range frontier {
			r.mergeDeps(pkg.Node(), reqsByPkg[pkg.Node()], resolvedByProject)
		}

		frontier = r.dropDownloaded(next)
	}
	return r.downloaded, r.depsGraph, nil
}

// buildSeedMap implements spec §4.6 step 1: expand packages_re against
// every upstream project name, then overlay the explicit packages map
// (explicit entries replace, never merge with, regex-derived ones).
func (r *Resolver) buildSeedMap(ctx context.Context, packages, packagesRe map[string][]string) (map[string][]string, error) {
	seeds := make(map[string][]string)
	if len(packagesRe) > 0 {
		names, err := r.Registry.ListProjectNames(ctx)
		if err != nil {
			return nil, errors.Wrap(err, "listing upstream project names for packages_re expansion")
		}
		compiled := make(map[string]*regexp.Regexp, len(packagesRe))
		for pattern := range packagesRe {
			re, err := regexp.Compile(pattern)
			if err != nil {
				log.Printf("mirror: skipping invalid packages_re pattern %q: %v", pattern, err)
				continue
			}
			compiled[pattern] = re
		}
		for _, name := range names {
			for pattern, re := range compiled {
				if re.FindString(name) == name { // full-string match
					seeds[name] = append(seeds[name], packagesRe[pattern]...)
				}
			}
		}
	}
	for name, constraints := range packages {
		seeds[name] = constraints // explicit overlay: replace, don't merge
	}
	return seeds, nil
}

func (r *Resolver) dropDownloaded(pkgs []MirrorPackage) []MirrorPackage {
	out := pkgs[:0:0]
	for _, p := range pkgs {
		if _, ok := r.downloaded[p.ID()]; !ok {
			out = append(out, p)
		}
	}
	return out
}

func (r *Resolver) downloadAll(ctx context.Context, pkgs []MirrorPackage) error {
	tasks := make([]downloader.Task, 0, len(pkgs))
	for _, p := range pkgs {
		tasks = append(tasks, downloader.Task{URL: p.URL, TargetPath: p.LocalPath, SHA256: p.SHA256})
	}
	return r.Downloader.FetchAll(ctx, tasks)
}

// readRequirements reads pkg's declared dependencies and evaluates any
// marker on each one against r.Env, discarding requirements whose marker
// fails to parse or does not hold.
func (r *Resolver) readRequirements(pkg MirrorPackage) []Requirement {
	lines := metadata.RequiresDist(pkg.LocalPath)
	var out []Requirement
	for _, line := range lines {
		req, err := ParseRequirement(line)
		if err != nil {
			continue
		}
		if req.MarkerText != "" {
			ok, err := marker.Evaluate(req.MarkerText, r.Env)
			if err != nil {
				continue // unparseable marker: discard the requirement, per spec §7
			}
			if !ok {
				continue
			}
		}
		out = append(out, req)
	}
	return out
}

// mergeDeps records node's dependency set as the resolved (project,
// version) nodes the selector chose for each of node's requirements,
// per spec: a dependency edge names the artifact actually selected for
// that requirement, not the bare requirement name.
func (r *Resolver) mergeDeps(node Identity, reqs []Requirement, resolvedByProject map[string][]MirrorPackage) {
	for _, req := range reqs {
		for _, dep := range resolvedByProject[req.Name] {
			r.depsGraph[node] = append(r.depsGraph[node], dep.Node())
		}
	}
}

// Graph converts the resolver's dependency graph into dot.Node edges for
// the optional "./graph.dot" dump.
func (r *Resolver) Graph() map[dot.Node][]dot.Node {
	out := make(map[dot.Node][]dot.Node, len(r.depsGraph))
	for node, deps := range r.depsGraph {
		n := dot.Node{Project: node.Project, Version: node.Version}
		var ds []dot.Node
		for _, d := range deps {
			ds = append(ds, dot.Node{Project: d.Project, Version: d.Version})
		}
		out[n] = ds
	}
	return out
}

// SimpleIndexArtifacts converts the downloaded set into simpleindex
// inputs grouped by normalized project name.
func SimpleIndexArtifacts(downloaded map[Identity]MirrorPackage) []simpleindex.Artifact {
	out := make([]simpleindex.Artifact, 0, len(downloaded))
	for _, p := range downloaded {
		out = append(out, simpleindex.Artifact{
			Project:   NormalizeName(p.Project),
			Basename:  p.Basename,
			LocalPath: p.LocalPath,
			SHA256:    p.SHA256,
		})
	}
	return out
}
