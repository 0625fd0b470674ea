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

// Package dot writes a dependency graph in Graphviz DOT syntax. This is a
// single diagnostic artifact (opt-in via -g), not a rendering pipeline, so
// it is a small fmt.Fprintf writer rather than a graphviz-binding
// dependency.
package dot

import (
	"fmt"
	"io"
	"sort"
)

// Node identifies a (project, version) pair in the dependency graph.
type Node struct {
	Project string
	Version string
}

func (n Node) label() string { return n.Project + "==" + n.Version }

// Write emits a directed graph of edges in DOT syntax, with nodes and
// their outgoing edges in sorted order so the output is deterministic
// across runs against the same graph.
func Write(w io.Writer, edges map[Node][]Node) error {
	if _, err := fmt.Fprintln(w, "digraph mirror {"); err != nil {
		return err
	}
	nodes := make([]Node, 0, len(edges))
	for n := range edges {
		nodes = append(nodes, n)
	}
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].label() < nodes[j].label() })
	for _, n := range nodes {
		deps := append([]Node(nil), edges[n]...)
		sort.Slice(deps, func(i, j int) bool { return deps[i].label() < deps[j].label() })
		if len(deps) == 0 {
			if _, err := fmt.Fprintf(w, "  %q;\n", n.label()); err != nil {
				return err
			}
			continue
		}
		for _, d := range deps {
			if _, err := fmt.Fprintf(w, "  %q -> %q;\n", n.label(), d.label()); err != nil {
				return err
			}
		}
	}
	_, err := fmt.Fprintln(w, "}")
	return err
}
