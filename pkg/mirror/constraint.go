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
	"strconv"
	"strings"

	"github.com/ossmirror/pypimirror/pkg/pypiver"
)

// latestRE recognizes the "N latest<spec>" constraint vocabulary:
// an optional leading integer, the literal "latest", and an optional
// trailing specifier-set string (spaces around it are trimmed by
// parseLatest).
var latestRE = regexp.MustCompile(`^(?P<n>\d+)?\s*latest(?P<spec>.*)$`)

// latestConstraint is the parsed form of a "latest"-family token.
type latestConstraint struct {
	n    int
	spec string // "" when no trailing specifier was given
}

// parseLatest reports whether token matches the "[<N>] latest[<spec>]"
// grammar, normalizing bare "latest" to "1 latest" per spec §4.5 step 1.
func parseLatest(token string) (latestConstraint, bool) {
	token = strings.TrimSpace(token)
	m := latestRE.FindStringSubmatch(token)
	if m == nil {
		return latestConstraint{}, false
	}
	n := 1
	if m[1] != "" {
		parsed, err := strconv.Atoi(m[1])
		if err != nil {
			return latestConstraint{}, false
		}
		n = parsed
	}
	return latestConstraint{n: n, spec: strings.TrimSpace(m[2])}, true
}

// resolveLatest picks the top n versions out of versions (assumed
// parseable) that also satisfy spec when spec is non-empty, sorted
// ascending, clamping n down when fewer candidates exist. It returns a
// specifier-set string equivalent to the selection (">=<picked>" or
// ">=<picked>,<spec>"), or "" if no candidate exists.
func resolveLatest(versions []pypiver.Version, lc latestConstraint) string {
	candidates := versions
	if lc.spec != "" {
		ss, err := pypiver.ParseSpecifierSet(lc.spec)
		if err == nil {
			var filtered []pypiver.Version
			for _, v := range versions {
				if ss.Contains(v) {
					filtered = append(filtered, v)
				}
			}
			candidates = filtered
		}
	}
	if len(candidates) == 0 {
		return ""
	}
	pypiver.SortVersions(candidates)
	n := lc.n
	if n > len(candidates) {
		n = len(candidates)
	}
	picked := candidates[len(candidates)-n]
	resolved := ">=" + picked.String()
	if lc.spec != "" {
		resolved += "," + lc.spec
	}
	return resolved
}
