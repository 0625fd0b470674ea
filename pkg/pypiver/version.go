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

// Package pypiver implements PEP 440 version parsing, ordering, and
// specifier-set containment.
package pypiver

import (
	"cmp"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Version is a parsed PEP 440 version.
//
// Two Versions compare equal iff every component below compares equal;
// Local does not participate in ordering except as a tie-breaker after an
// otherwise-equal comparison, per PEP 440.
type Version struct {
	raw     string
	Epoch   int
	Release []int
	Pre     *preRelease
	Post    *int
	Dev     *int
	Local   []localSegment
}

type preRelease struct {
	Phase string // normalized to "a", "b", or "rc"
	N     int
}

// localSegment is one dot-separated component of a local version; it
// compares numerically if both operands are numeric, and lexically
// (numeric segments sorting after alphanumeric ones) otherwise.
type localSegment struct {
	str string
	num int
	isN bool
}

var versionRE = regexp.MustCompile(`(?i)^\s*v?` +
	`(?:(?P<epoch>[0-9]+)!)?` +
	`(?P<release>[0-9]+(?:\.[0-9]+)*)` +
	`(?P<pre>[-_.]?(?P<pre_l>a|b|c|rc|alpha|beta|pre|preview)[-_.]?(?P<pre_n>[0-9]+)?)?` +
	`(?P<post>(?:-(?P<post_n1>[0-9]+))|(?:[-_.]?(?:post|rev|r)[-_.]?(?P<post_n2>[0-9]+)?))?` +
	`(?P<dev>[-_.]?dev[-_.]?(?P<dev_n>[0-9]+)?)?` +
	`(?:\+(?P<local>[a-z0-9]+(?:[-_.][a-z0-9]+)*))?` +
	`\s*$`)

// Parse parses a PEP 440 version string. Per spec, callers must treat a
// parse failure as non-fatal: range-based selection skips the version,
// exact-string matching on an unparseable user literal still works.
func Parse(s string) (Version, error) {
	m := versionRE.FindStringSubmatch(s)
	if m == nil {
		return Version{}, errors.Errorf("invalid version: %q", s)
	}
	idx := func(name string) string { return m[versionRE.SubexpIndex(name)] }

	v := Version{raw: s}
	if e := idx("epoch"); e != "" {
		v.Epoch, _ = strconv.Atoi(e)
	}
	for _, part := range strings.Split(idx("release"), ".") {
		n, _ := strconv.Atoi(part)
		v.Release = append(v.Release, n)
	}
	if idx("pre") != "" {
		phase := normalizePrePhase(idx("pre_l"))
		n := 0
		if idx("pre_n") != "" {
			n, _ = strconv.Atoi(idx("pre_n"))
		}
		v.Pre = &preRelease{Phase: phase, N: n}
	}
	if idx("post") != "" {
		n := 0
		switch {
		case idx("post_n1") != "":
			n, _ = strconv.Atoi(idx("post_n1"))
		case idx("post_n2") != "":
			n, _ = strconv.Atoi(idx("post_n2"))
		}
		v.Post = &n
	}
	if idx("dev") != "" {
		n := 0
		if idx("dev_n") != "" {
			n, _ = strconv.Atoi(idx("dev_n"))
		}
		v.Dev = &n
	}
	if l := idx("local"); l != "" {
		for _, part := range strings.FieldsFunc(l, func(r rune) bool {
			return r == '-' || r == '_' || r == '.'
		}) {
			seg := localSegment{str: strings.ToLower(part)}
			if n, err := strconv.Atoi(part); err == nil {
				seg.num, seg.isN = n, true
			}
			v.Local = append(v.Local, seg)
		}
	}
	return v, nil
}

func normalizePrePhase(s string) string {
	switch strings.ToLower(s) {
	case "alpha", "a":
		return "a"
	case "beta", "b":
		return "b"
	case "c", "rc", "pre", "preview":
		return "rc"
	default:
		return strings.ToLower(s)
	}
}

// String returns the original, unnormalized version string.
func (v Version) String() string { return v.raw }

// paddedRelease returns Release zero-padded to length n.
func paddedRelease(r []int, n int) []int {
	if len(r) >= n {
		return r
	}
	out := make([]int, n)
	copy(out, r)
	return out
}

// Compare returns -1, 0, or 1 per PEP 440 total ordering: epoch, then
// release (zero-extended to equal length), then pre-release rank (see
// preRank), then post, then dev, then Local as a final tie-breaker.
func Compare(a, b Version) int {
	if c := cmp.Compare(a.Epoch, b.Epoch); c != 0 {
		return c
	}
	n := max(len(a.Release), len(b.Release))
	ar, br := paddedRelease(a.Release, n), paddedRelease(b.Release, n)
	for i := range n {
		if c := cmp.Compare(ar[i], br[i]); c != 0 {
			return c
		}
	}
	ca, pa, na := preRank(a)
	cb, pb, nb := preRank(b)
	if c := cmp.Compare(ca, cb); c != 0 {
		return c
	}
	if c := cmp.Compare(pa, pb); c != 0 {
		return c
	}
	if c := cmp.Compare(na, nb); c != 0 {
		return c
	}
	if c := comparePost(a.Post, b.Post); c != 0 {
		return c
	}
	if c := compareDev(a.Dev, b.Dev); c != 0 {
		return c
	}
	return compareLocal(a.Local, b.Local)
}

var preOrder = map[string]int{"a": 0, "b": 1, "rc": 2}

// preRank computes the PEP 440 pre-release sort key for v: a real
// pre-release ranks by its phase and number; a version with no
// pre-release and no post-release but with a dev segment (a bare "devN"
// release) ranks below every real pre-release, since it precedes even
// the earliest alpha; anything else with no pre-release (a final or
// post release) ranks above every pre-release.
func preRank(v Version) (category, phase, n int) {
	switch {
	case v.Pre != nil:
		return 1, preOrder[v.Pre.Phase], v.Pre.N
	case v.Post == nil && v.Dev != nil:
		return -1, 0, 0
	default:
		return 2, 0, 0
	}
}

func comparePost(a, b *int) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	default:
		return cmp.Compare(*a, *b)
	}
}

func compareDev(a, b *int) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	default:
		return cmp.Compare(*a, *b)
	}
}

func compareLocal(a, b []localSegment) int {
	n := max(len(a), len(b))
	for i := range n {
		switch {
		case i >= len(a):
			return -1
		case i >= len(b):
			return 1
		}
		sa, sb := a[i], b[i]
		switch {
		case sa.isN && sb.isN:
			if c := cmp.Compare(sa.num, sb.num); c != 0 {
				return c
			}
		case sa.isN:
			return 1
		case sb.isN:
			return -1
		default:
			if c := strings.Compare(sa.str, sb.str); c != 0 {
				return c
			}
		}
	}
	return 0
}

// SortVersions sorts versions ascending per PEP 440 ordering.
func SortVersions(vs []Version) {
	slices.SortFunc(vs, Compare)
}
