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

// Package errs collects the sentinel errors shared across mirror
// components, wrapped with github.com/pkg/errors at each call site the
// way the rest of this module wraps errors.
package errs

import "github.com/pkg/errors"

var (
	// ErrConfig indicates a malformed or invalid configuration file. Fatal
	// at startup.
	ErrConfig = errors.New("invalid configuration")

	// ErrUpstreamUnavailable indicates the upstream index could not be
	// reached or returned an unexpected status for a single project
	// lookup. Recovered by treating the project as having no releases.
	ErrUpstreamUnavailable = errors.New("upstream registry unavailable")

	// ErrInvalidVersion indicates a release tag could not be parsed as a
	// PEP 440 version. Recovered by skipping that release.
	ErrInvalidVersion = errors.New("invalid version")

	// ErrInvalidSpecifier indicates a constraint string could not be
	// parsed as a specifier set or "N latest" expression. Recovered by
	// matching the constraint as an exact upstream version string.
	ErrInvalidSpecifier = errors.New("invalid version specifier")

	// ErrMarkerParse indicates an environment marker on a dependency
	// requirement could not be parsed. Recovered by discarding that
	// dependency edge.
	ErrMarkerParse = errors.New("invalid environment marker")

	// ErrMetadata indicates an artifact's package metadata could not be
	// read. Recovered by treating the artifact as having no
	// dependencies.
	ErrMetadata = errors.New("unreadable artifact metadata")

	// ErrIntegrity indicates a downloaded artifact's content did not
	// match its expected digest. Fatal for that artifact; the partial
	// file is discarded.
	ErrIntegrity = errors.New("artifact integrity check failed")

	// ErrDownload indicates a transport failure or an unexpected HTTP
	// status while fetching an artifact. The request is not retried within
	// the run; a later run resumes any partial file. Fatal for the run.
	ErrDownload = errors.New("artifact download failed")
)
