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

package main

import (
	"context"
	"flag"
	"log"
	"net/url"
	"os"

	"github.com/ossmirror/pypimirror/internal/config"
	"github.com/ossmirror/pypimirror/internal/dot"
	"github.com/ossmirror/pypimirror/internal/httpx"
	"github.com/ossmirror/pypimirror/pkg/downloader"
	"github.com/ossmirror/pypimirror/pkg/marker"
	"github.com/ossmirror/pypimirror/pkg/mirror"
	"github.com/ossmirror/pypimirror/pkg/registry/pypi"
	"github.com/ossmirror/pypimirror/pkg/simpleindex"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

const userAgent = "pypimirror/1.0 (+https://github.com/ossmirror/pypimirror)"

var (
	configPath  = flag.String("config", "./pypisync.conf", "path to the mirror configuration file")
	simpleFlag  = flag.Bool("simple", false, "write a PEP 503 simple HTML index alongside the mirrored artifacts")
	graphFlag   = flag.Bool("graph", false, "write a ./graph.dot dependency graph in the working directory")
	debugFlag   = flag.Bool("debug", false, "enable verbose logging")
	progressBar = flag.Bool("progress", true, "show a download progress bar")
)

var rootCmd = &cobra.Command{
	Use:   "pypimirror",
	Short: "Mirror a constrained subset of PyPI to local storage",
	Run: func(cmd *cobra.Command, args []string) {
		if err := run(cmd.Context()); err != nil {
			log.Fatal(err)
		}
	},
}

func init() {
	// AddGoFlag gives no single-letter form to a multi-letter flag, so the
	// flags that have one are registered with it, sharing the Go flag's
	// variable, default and usage.
	fs := rootCmd.Flags()
	fs.StringVarP(configPath, "config", "c", *configPath, flag.Lookup("config").Usage)
	fs.BoolVarP(simpleFlag, "simple", "s", *simpleFlag, flag.Lookup("simple").Usage)
	fs.BoolVarP(graphFlag, "graph", "g", *graphFlag, flag.Lookup("graph").Usage)
	fs.BoolVarP(debugFlag, "debug", "d", *debugFlag, flag.Lookup("debug").Usage)
	fs.AddGoFlag(flag.Lookup("progress"))
}

func run(ctx context.Context) error {
	cfg, err := config.Load(*configPath)
	if err != nil {
		return errors.Wrap(err, "loading configuration")
	}
	if *debugFlag {
		log.SetFlags(log.LstdFlags | log.Lshortfile)
		log.Printf("loaded config: destination=%s packages=%d packages_re=%d", cfg.DestinationFolder, len(cfg.Packages), len(cfg.PackagesRe))
	}
	if err := os.MkdirAll(cfg.DestinationFolder, 0o755); err != nil {
		return errors.Wrap(err, "creating destination folder")
	}

	reg := &pypi.HTTPRegistry{Client: &httpx.WithUserAgent{
		BasicClient: httpx.NewProxyAwareClient(),
		UserAgent:   userAgent,
	}}
	if endpoint := cfg.EndpointOrDefault(); endpoint != "" {
		u, err := url.Parse(endpoint)
		if err != nil {
			return errors.Wrapf(err, "parsing endpoint %q", endpoint)
		}
		reg.RegistryURL = u
	}

	var env marker.Env
	if cfg.Environment != nil {
		env = marker.Env(cfg.Environment)
	}

	sel := &mirror.Selector{
		Registry:     reg,
		ArchExclude:  cfg.ArchExclude,
		DestRoot:     cfg.DestinationFolder,
		SimpleLayout: *simpleFlag,
		Env:          env,
	}
	dl := downloader.New(userAgent)
	dl.Progress = *progressBar

	res := &mirror.Resolver{
		Registry:     reg,
		Selector:     sel,
		Downloader:   dl,
		Env:          env,
		SimpleLayout: *simpleFlag,
		DestRoot:     cfg.DestinationFolder,
	}
	downloaded, _, err := res.Run(ctx, cfg.Packages, cfg.PackagesRe)
	if err != nil {
		return errors.Wrap(err, "running mirror")
	}
	log.Printf("mirrored %d artifacts to %s", len(downloaded), cfg.DestinationFolder)

	if *simpleFlag {
		if err := simpleindex.Write(cfg.DestinationFolder, mirror.SimpleIndexArtifacts(downloaded)); err != nil {
			return errors.Wrap(err, "writing simple index")
		}
	}
	if *graphFlag {
		f, err := os.Create("graph.dot")
		if err != nil {
			return errors.Wrap(err, "creating graph.dot")
		}
		defer f.Close()
		if err := dot.Write(f, res.Graph()); err != nil {
			return errors.Wrap(err, "writing graph.dot")
		}
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
