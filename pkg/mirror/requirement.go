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
	"regexp"
	"strings"

	"github.com/pkg/errors"
)

// Requirement is a single dependency reference extracted from an
// artifact's metadata: a project name, the specifier string to feed
// through the selector (or "latest" when none was given), and the
// optional trailing PEP 508 marker text gating it.
type Requirement struct {
	Name       string
	Specifier  string
	MarkerText string // "" when the requirement line carried no marker
}

// requirementRE splits a raw "Requires-Dist"-style line into a name, an
// optional "[extra1,extra2]" block (ignored — this mirror does not model
// extras), and the remaining version/marker text.
var requirementRE = regexp.MustCompile(`^\s*([A-Za-z0-9][A-Za-z0-9._-]*)\s*(?:\[[^\]]*\])?\s*(.*)$`)

// ParseRequirement parses a single declared dependency line as emitted by
// pkg/metadata (e.g. "requests (>=2.0)", "numpy; extra == \"math\"",
// "click>=7.0,<8").
func ParseRequirement(line string) (Requirement, error) {
	reqPart, markerPart, _ := strings.Cut(line, ";")
	reqPart = strings.TrimSpace(reqPart)
	m := requirementRE.FindStringSubmatch(reqPart)
	if m == nil {
		return Requirement{}, errors.Errorf("cannot parse requirement %q", line)
	}
	name := m[1]
	specifier := strings.TrimSpace(m[2])
	specifier = strings.TrimPrefix(specifier, "(")
	specifier = strings.TrimSuffix(specifier, ")")
	specifier = strings.TrimSpace(specifier)
	if specifier == "" {
		specifier = "latest"
	}
	return Requirement{
		Name:       name,
		Specifier:  specifier,
		MarkerText: strings.TrimSpace(markerPart),
	}, nil
}
