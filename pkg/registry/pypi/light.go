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

package pypi

import (
	"context"
	"fmt"
	"strings"
)

// LightPackage is the flattened, selector-facing view of a single
// downloadable artifact: one (project, version, file) triple, independent
// of which release it came from. This is the shape the resolver and
// downloader operate on, rather than the nested Project/Release JSON the
// upstream API returns. Version is kept as the raw upstream string (not
// pre-parsed) since releases that fail to parse as PEP 440 must still be
// reachable via exact-string-literal constraints — see spec §3's
// invariant on unparseable releases.
type LightPackage struct {
	Project  string
	Version  string
	Filename string
	URL      string // includes a "#sha256=..." integrity fragment
	SHA256   string
	Yanked   bool
}

// ProjectArtifacts flattens every release of the named project into
// LightPackages, skipping any whose filename contains one of the
// archExclude substrings once the "<project>-<version>" prefix has been
// stripped — the same arch-exclusion rule applied to platform-tagged wheel
// filenames (e.g. "_manylinux", "_musllinux", "-win", "-macosx").
func (r *HTTPRegistry) ProjectArtifacts(ctx context.Context, name string, archExclude []string) ([]LightPackage, error) {
	v, err := r.cache().GetOrSet(projectArtifactsKey{name}, func() (any, error) {
		p, err := r.Project(ctx, name)
		if err != nil {
			return nil, err
		}
		var out []LightPackage
		for versionStr, artifacts := range p.Releases {
			for _, a := range artifacts {
				out = append(out, LightPackage{
					Project:  name,
					Version:  versionStr,
					Filename: a.Filename,
					URL:      a.URL + "#sha256=" + a.SHA256,
					SHA256:   a.SHA256,
					Yanked:   a.Yanked,
				})
			}
		}
		return out, nil
	})
	if err != nil {
		return nil, err
	}
	all := v.([]LightPackage)
	if len(archExclude) == 0 {
		return all, nil
	}
	filtered := make([]LightPackage, 0, len(all))
	for _, lp := range all {
		stem := strings.TrimPrefix(lp.Filename, fmt.Sprintf("%s-%s", lp.Project, lp.Version))
		excluded := false
		for _, ex := range archExclude {
			if strings.Contains(stem, ex) {
				excluded = true
				break
			}
		}
		if !excluded {
			filtered = append(filtered, lp)
		}
	}
	return filtered, nil
}

type projectArtifactsKey struct{ name string }
