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

package dot

import (
	"bytes"
	"strings"
	"testing"
)

func TestWrite(t *testing.T) {
	edges := map[Node][]Node{
		{Project: "a", Version: "1.0"}: {{Project: "b", Version: "2.0"}},
		{Project: "b", Version: "2.0"}: nil,
	}
	var buf bytes.Buffer
	if err := Write(&buf, edges); err != nil {
		t.Fatalf("Write: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, `"a==1.0" -> "b==2.0";`) {
		t.Errorf("output missing edge line:\n%s", out)
	}
	if !strings.Contains(out, `"b==2.0";`) {
		t.Errorf("output missing leaf node line:\n%s", out)
	}
	if !strings.HasPrefix(out, "digraph mirror {") {
		t.Errorf("output missing digraph header:\n%s", out)
	}
}

func TestWrite_Deterministic(t *testing.T) {
	edges := map[Node][]Node{
		{Project: "z", Version: "1.0"}: {{Project: "a", Version: "1.0"}, {Project: "m", Version: "1.0"}},
	}
	var first, second bytes.Buffer
	Write(&first, edges)
	Write(&second, edges)
	if first.String() != second.String() {
		t.Error("Write is not deterministic across repeated calls on the same graph")
	}
}
