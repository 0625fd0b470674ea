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

// Package metadata reads the declared dependency list out of a downloaded
// wheel or sdist archive without installing or executing it.
package metadata

import (
	"archive/tar"
	"archive/zip"
	"bufio"
	"compress/gzip"
	"io"
	"os"
	"strings"
)

// RequiresDist returns the raw "Requires-Dist" (wheel) or "Requires"
// (legacy sdist) requirement strings declared by the artifact at path.
// Any read/parse failure yields a nil slice: per spec §4.4
// and §7, metadata errors are recovered by treating the artifact as
// having no dependencies, not by failing the run.
func RequiresDist(path string) []string {
	switch {
	case strings.HasSuffix(path, ".whl"):
		reqs, err := fromWheel(path)
		if err != nil {
			return nil
		}
		return reqs
	case strings.HasSuffix(path, ".tar.gz") || strings.HasSuffix(path, ".tgz"):
		reqs, err := fromSdist(path)
		if err != nil {
			return nil
		}
		return reqs
	default:
		return nil
	}
}

// fromWheel scans every "*.dist-info/METADATA" entry in the wheel zip
// (there should be exactly one) for Requires-Dist header lines.
func fromWheel(path string) ([]string, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, err
	}
	defer zr.Close()
	var reqs []string
	for _, f := range zr.File {
		if !strings.HasSuffix(f.Name, ".dist-info/METADATA") {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		reqs = append(reqs, parseRequiresDist(rc)...)
		rc.Close()
	}
	return reqs, nil
}

// fromSdist scans every "PKG-INFO" entry of a .tar.gz sdist, at any depth
// (including ones under *.egg-info), for Requires-Dist (and legacy
// Requires) header lines; lines found in several entries are repeated.
func fromSdist(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	gz, err := gzip.NewReader(f)
	if err != nil {
		return nil, err
	}
	defer gz.Close()
	tr := tar.NewReader(gz)
	var reqs []string
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if strings.HasSuffix(hdr.Name, "/PKG-INFO") || hdr.Name == "PKG-INFO" {
			reqs = append(reqs, parseRequiresDist(tr)...)
		}
	}
	return reqs, nil
}

// parseRequiresDist extracts "Requires-Dist:"/"Requires:" header values
// from an RFC822-style metadata stream, the same line shape used by both
// wheel METADATA and sdist PKG-INFO files.
func parseRequiresDist(r io.Reader) []string {
	var reqs []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		for _, prefix := range []string{"Requires-Dist:", "Requires:"} {
			if strings.HasPrefix(line, prefix) {
				reqs = append(reqs, strings.TrimSpace(strings.TrimPrefix(line, prefix)))
				break
			}
		}
	}
	return reqs
}
