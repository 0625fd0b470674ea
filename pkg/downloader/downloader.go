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

// Package downloader fetches artifacts to content-addressed local paths
// with resumable, integrity-checked GETs, fanned out over a bounded
// worker pool.
package downloader

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/cheggaaa/pb"
	"github.com/ossmirror/pypimirror/internal/errs"
	"github.com/ossmirror/pypimirror/internal/httpx"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is the default number of artifacts downloaded at once.
const DefaultConcurrency = 8

// Task describes one artifact to fetch.
type Task struct {
	URL        string // may carry a "#sha256=<hex>" integrity fragment
	TargetPath string
	SHA256     string // expected digest; empty disables verification
}

// Downloader fetches Tasks to their TargetPath, resuming partial files and
// verifying SHA-256 when a digest is supplied.
type Downloader struct {
	Client      httpx.BasicClient
	Concurrency int // 0 uses DefaultConcurrency
	Progress    bool
}

// New returns a Downloader using a proxy-aware, user-agent-decorated
// client, matching the upstream transport requirements of §4.7/§6.
func New(userAgent string) *Downloader {
	return &Downloader{
		Client: &httpx.WithUserAgent{
			BasicClient: httpx.NewProxyAwareClient(),
			UserAgent:   userAgent,
		},
		Concurrency: DefaultConcurrency,
	}
}

// FetchAll downloads every task, running at most d.Concurrency at once. It
// returns the first error encountered; other in-flight downloads are
// canceled via ctx.
func (d *Downloader) FetchAll(ctx context.Context, tasks []Task) error {
	if len(tasks) == 0 {
		return nil
	}
	limit := d.Concurrency
	if limit <= 0 {
		limit = DefaultConcurrency
	}
	var bar *pb.ProgressBar
	if d.Progress {
		bar = pb.New(len(tasks))
		bar.ShowTimeLeft = true
		bar.Start()
		defer bar.Finish()
	}
	eg, eCtx := errgroup.WithContext(ctx)
	eg.SetLimit(limit)
	for _, task := range tasks {
		task := task
		eg.Go(func() error {
			if err := d.fetch(eCtx, task); err != nil {
				return errors.Wrapf(err, "downloading %s", task.URL)
			}
			if bar != nil {
				bar.Increment()
			}
			return nil
		})
	}
	return eg.Wait()
}

// fetch performs a single resumable, integrity-checked download.
func (d *Downloader) fetch(ctx context.Context, task Task) error {
	if err := os.MkdirAll(filepath.Dir(task.TargetPath), 0o755); err != nil {
		return err
	}
	if complete, err := d.resumeComplete(task); err != nil {
		return err
	} else if complete {
		return nil
	}
	var resumeFrom int64
	if fi, err := os.Stat(task.TargetPath); err == nil {
		resumeFrom = fi.Size()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, task.URL, nil)
	if err != nil {
		return err
	}
	if resumeFrom > 0 {
		req.Header.Set("Range", "bytes="+strconv.FormatInt(resumeFrom, 10)+"-")
	}
	resp, err := d.Client.Do(req)
	if err != nil {
		return errors.Wrap(errs.ErrDownload, err.Error())
	}
	defer resp.Body.Close()
	switch resp.StatusCode {
	case http.StatusOK:
		resumeFrom = 0 // server ignored the range; start over
	case http.StatusPartialContent:
		// continuing from resumeFrom
	default:
		return errors.Wrapf(errs.ErrDownload, "unexpected status %s", resp.Status)
	}
	flags := os.O_CREATE | os.O_WRONLY
	if resumeFrom == 0 {
		flags |= os.O_TRUNC
	} else {
		flags |= os.O_APPEND
	}
	f, err := os.OpenFile(task.TargetPath, flags, 0o644)
	if err != nil {
		return err
	}
	_, err = io.Copy(f, resp.Body)
	closeErr := f.Close()
	if err != nil {
		return err
	}
	if closeErr != nil {
		return closeErr
	}
	if err := d.verify(task); err != nil {
		os.Remove(task.TargetPath) // a mismatching file is never kept
		return err
	}
	return nil
}

// resumeComplete reports whether the target file already exists with
// verified contents, letting re-runs of the mirror skip re-downloading
// (per spec §8's "resolver reaches a fixed point" property).
func (d *Downloader) resumeComplete(task Task) (bool, error) {
	if _, err := os.Stat(task.TargetPath); err != nil {
		return false, nil
	}
	if task.SHA256 == "" {
		return true, nil
	}
	if err := d.verify(task); err != nil {
		return false, nil // incomplete file: fetch resumes it from its current size
	}
	return true, nil
}

// verify checks the downloaded file's digest against task.SHA256, when set.
func (d *Downloader) verify(task Task) error {
	if task.SHA256 == "" {
		return nil
	}
	f, err := os.Open(task.TargetPath)
	if err != nil {
		return err
	}
	defer f.Close()
	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return err
	}
	got := hex.EncodeToString(h.Sum(nil))
	if got != task.SHA256 {
		return errors.Wrapf(errs.ErrIntegrity, "%s: got %s, want %s", task.TargetPath, got, task.SHA256)
	}
	return nil
}
