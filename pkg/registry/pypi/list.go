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
	"io"
	"net/http"
	"regexp"

	"github.com/pkg/errors"
)

// simpleIndexLinkRE extracts the anchor text of each project link on the
// PEP 503 "simple" root index (https://pypi.org/simple/). The original
// mirror tool enumerated projects via PyPI's XML-RPC list_packages call;
// that endpoint is deprecated and rate-limited on the public index today,
// so this client instead scrapes the root simple index, which every PEP
// 503-compliant index (including private ones mirrorable by this tool)
// is required to serve.
var simpleIndexLinkRE = regexp.MustCompile(`(?is)<a[^>]*>\s*([^<]+?)\s*</a>`)

// ListProjectNames returns every project name published on the registry's
// root simple index, memoized for the lifetime of the HTTPRegistry value.
func (r *HTTPRegistry) ListProjectNames(ctx context.Context) ([]string, error) {
	v, err := r.cache().GetOrSet("simple-index", func() (any, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.base().String()+"/simple/", nil)
		if err != nil {
			return nil, err
		}
		resp, err := r.Client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()
		if resp.StatusCode != 200 {
			return nil, errors.Errorf("listing projects: %v", resp.Status)
		}
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, err
		}
		matches := simpleIndexLinkRE.FindAllSubmatch(body, -1)
		names := make([]string, 0, len(matches))
		for _, m := range matches {
			names = append(names, string(m[1]))
		}
		return names, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]string), nil
}
