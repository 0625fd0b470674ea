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

// Package config loads and validates the JSON mirror configuration file.
package config

import (
	"encoding/json"
	"os"

	"github.com/ossmirror/pypimirror/internal/errs"
	"github.com/pkg/errors"
)

// Config is the on-disk mirror configuration.
type Config struct {
	Endpoint          *string             `json:"endpoint"`
	DestinationFolder string              `json:"destination_folder"`
	ArchExclude       []string            `json:"arch_exclude"`
	Environment       map[string][]string `json:"environment"`
	PackagesRe        map[string][]string `json:"packages_re"`
	Packages          map[string][]string `json:"packages"`
}

// Load reads and validates the configuration file at path.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(errs.ErrConfig, "opening %s: %v", path, err)
	}
	defer f.Close()
	var c Config
	if err := json.NewDecoder(f).Decode(&c); err != nil {
		return nil, errors.Wrapf(errs.ErrConfig, "parsing %s: %v", path, err)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) validate() error {
	if c.DestinationFolder == "" {
		return errors.Wrap(errs.ErrConfig, "destination_folder is required")
	}
	if len(c.Packages) == 0 && len(c.PackagesRe) == 0 {
		return errors.Wrap(errs.ErrConfig, "at least one of packages or packages_re is required")
	}
	return nil
}

// EndpointOrDefault returns the configured endpoint, or the empty string
// (letting the registry client fall back to its own default) when unset.
func (c *Config) EndpointOrDefault() string {
	if c.Endpoint == nil {
		return ""
	}
	return *c.Endpoint
}
