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

// Package simpleindex writes a PEP 503-style "simple" HTML index: one
// directory per normalized project name, each holding an index.html that
// links every downloaded artifact of that project.
package simpleindex

import (
	"html/template"
	"os"
	"path/filepath"
	"sort"

	"github.com/pkg/errors"
)

// Artifact is one downloaded file to list in a project's index.html.
type Artifact struct {
	Project   string // normalized project name
	Basename  string
	LocalPath string // path on disk, used only to compute the relative href
	SHA256    string
}

var indexTemplate = template.Must(template.New("simple").Parse(
	`<!DOCTYPE html>
<html><head><title>Links for {{.Name}}</title></head><body>
<h1>Links for {{.Name}}</h1>
{{range .Links}}<a href="{{.Href}}">{{.Basename}}</a><br/>
{{end}}</body></html>
`))

type link struct {
	Href     string
	Basename string
}

type page struct {
	Name  string
	Links []link
}

// Write groups artifacts by Project and writes
// "<root>/simple/<project>/index.html" for each group.
func Write(root string, artifacts []Artifact) error {
	groups := make(map[string][]Artifact)
	for _, a := range artifacts {
		groups[a.Project] = append(groups[a.Project], a)
	}
	for project, group := range groups {
		sort.Slice(group, func(i, j int) bool { return group[i].LocalPath < group[j].LocalPath })
		dir := filepath.Join(root, "simple", project)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrapf(err, "creating simple index directory for %s", project)
		}
		links := make([]link, 0, len(group))
		for _, a := range group {
			rel, err := filepath.Rel(dir, a.LocalPath)
			if err != nil {
				return errors.Wrapf(err, "computing relative path for %s", a.Basename)
			}
			href := filepath.ToSlash(rel) + "#sha256=" + a.SHA256
			links = append(links, link{Href: href, Basename: a.Basename})
		}
		f, err := os.Create(filepath.Join(dir, "index.html"))
		if err != nil {
			return errors.Wrapf(err, "creating index.html for %s", project)
		}
		err = indexTemplate.Execute(f, page{Name: project, Links: links})
		closeErr := f.Close()
		if err != nil {
			return errors.Wrapf(err, "writing index.html for %s", project)
		}
		if closeErr != nil {
			return closeErr
		}
	}
	return nil
}
