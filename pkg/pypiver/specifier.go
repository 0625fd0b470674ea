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

package pypiver

import (
	"regexp"
	"strings"

	"github.com/pkg/errors"
)

// SpecifierSet is a comma-separated list of PEP 440 version predicates,
// e.g. ">=1,<2" or "==1.2.*". A version is contained iff it satisfies
// every clause.
type SpecifierSet struct {
	clauses []clause
	raw     string
}

type clause struct {
	op      string
	version Version
	wild    bool // true for an "==x.y.*"/"!=x.y.*" clause
	prefix  []int
}

var clauseRE = regexp.MustCompile(`^\s*(~=|==|!=|<=|>=|<|>|===)\s*(.+?)\s*$`)

// ParseSpecifierSet parses a comma-separated specifier set.
func ParseSpecifierSet(s string) (SpecifierSet, error) {
	ss := SpecifierSet{raw: s}
	if strings.TrimSpace(s) == "" {
		return ss, nil
	}
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		m := clauseRE.FindStringSubmatch(part)
		if m == nil {
			return SpecifierSet{}, errors.Errorf("invalid specifier clause: %q", part)
		}
		op, verStr := m[1], m[2]
		c := clause{op: op}
		if (op == "==" || op == "!=") && strings.HasSuffix(verStr, ".*") {
			c.wild = true
			verStr = strings.TrimSuffix(verStr, ".*")
		}
		v, err := Parse(verStr)
		if err != nil {
			return SpecifierSet{}, errors.Wrapf(err, "invalid version in clause %q", part)
		}
		c.version = v
		if c.wild {
			c.prefix = append([]int(nil), v.Release...)
		}
		ss.clauses = append(ss.clauses, c)
	}
	return ss, nil
}

// Contains reports whether v satisfies every clause of the set. Matching
// a pre-release (including a bare dev release) additionally requires
// that some clause in the set itself names a pre-release version, the
// same default pip/packaging apply so that an unqualified ">=1.0" does
// not silently pull in "2.5.0rc1".
func (ss SpecifierSet) Contains(v Version) bool {
	for _, c := range ss.clauses {
		if !c.matches(v) {
			return false
		}
	}
	if isPrerelease(v) && !ss.allowsPrerelease() {
		return false
	}
	return true
}

// isPrerelease reports whether v is a pre-release or dev release, the
// set of versions excluded by default from range-predicate matching.
func isPrerelease(v Version) bool {
	return v.Pre != nil || v.Dev != nil
}

// allowsPrerelease reports whether any clause in the set itself names a
// pre-release version, which opts the whole set into matching
// pre-releases.
func (ss SpecifierSet) allowsPrerelease() bool {
	for _, c := range ss.clauses {
		if isPrerelease(c.version) {
			return true
		}
	}
	return false
}

func (c clause) matches(v Version) bool {
	if c.wild {
		match := releaseHasPrefix(v.Release, c.prefix)
		if c.op == "==" {
			return match
		}
		return !match // "!="
	}
	cmp := Compare(v, c.version)
	switch c.op {
	case "==", "===":
		return cmp == 0
	case "!=":
		return cmp != 0
	case "<":
		return cmp < 0
	case "<=":
		return cmp <= 0
	case ">":
		return cmp > 0
	case ">=":
		return cmp >= 0
	case "~=":
		// Compatible release: >= the given version, == in all but the
		// last release segment.
		if cmp < 0 {
			return false
		}
		prefix := c.version.Release
		if len(prefix) > 0 {
			prefix = prefix[:len(prefix)-1]
		}
		return releaseHasPrefix(v.Release, prefix)
	default:
		return false
	}
}

func releaseHasPrefix(release, prefix []int) bool {
	if len(prefix) > len(release) {
		release = paddedRelease(release, len(prefix))
	}
	for i, p := range prefix {
		if release[i] != p {
			return false
		}
	}
	return true
}

// String returns the original specifier-set text.
func (ss SpecifierSet) String() string { return ss.raw }
