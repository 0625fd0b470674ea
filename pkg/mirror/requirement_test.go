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
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseRequirement(t *testing.T) {
	cases := []struct {
		line string
		want Requirement
	}{
		{
			line: "requests (>=2.0)",
			want: Requirement{Name: "requests", Specifier: ">=2.0"},
		},
		{
			line: "numpy; extra == \"math\"",
			want: Requirement{Name: "numpy", Specifier: "latest", MarkerText: `extra == "math"`},
		},
		{
			line: "click>=7.0,<8",
			want: Requirement{Name: "click", Specifier: ">=7.0,<8"},
		},
		{
			line: "six",
			want: Requirement{Name: "six", Specifier: "latest"},
		},
		{
			line: "colorama[extras] (>=0.4); sys_platform == \"win32\"",
			want: Requirement{Name: "colorama", Specifier: ">=0.4", MarkerText: `sys_platform == "win32"`},
		},
	}
	for _, tc := range cases {
		got, err := ParseRequirement(tc.line)
		if err != nil {
			t.Fatalf("ParseRequirement(%q) error: %v", tc.line, err)
		}
		if diff := cmp.Diff(tc.want, got); diff != "" {
			t.Errorf("ParseRequirement(%q) mismatch (-want +got):\n%s", tc.line, diff)
		}
	}
}

func TestParseRequirement_Invalid(t *testing.T) {
	if _, err := ParseRequirement("   ; extra == \"x\""); err == nil {
		t.Fatal("expected error for requirement with no name")
	}
}
