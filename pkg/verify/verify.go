// Copyright 2025 walteh LLC
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

// Package verify looks for template tokens that survived a transformation.
package verify

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"runtime"
	"sort"
	"sync"

	"github.com/rs/zerolog"
	"github.com/walteh/create-springboot/pkg/walk"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"
)

// 🔍 Finding is one leftover token in one file
type Finding struct {
	Path   string // Slash separated, relative to the project root
	Needle string
	Count  int
}

// String returns a string representation of the finding
func (f Finding) String() string {
	return fmt.Sprintf("%s: %q x%d", f.Path, f.Needle, f.Count)
}

// 🔧 Options configures a scan
type Options struct {
	Walk walk.Options
	// Concurrency bounds the number of files read at once, defaults to GOMAXPROCS
	Concurrency int
}

type file struct {
	path string
	rel  string
}

// 🔍 Scan reads every file the walk options admit and reports each needle still present.
// Findings are sorted by path then needle. The tree is never modified.
func Scan(ctx context.Context, root string, opts Options, needles []string) ([]Finding, error) {
	logger := zerolog.Ctx(ctx)

	if len(needles) == 0 {
		return nil, nil
	}

	var files []file
	err := walk.Walk(ctx, root, opts.Walk, func(ctx context.Context, path, rel string) error {
		files = append(files, file{path: path, rel: rel})
		return nil
	})
	if err != nil {
		return nil, errors.Errorf("listing files: %w", err)
	}

	limit := opts.Concurrency
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}

	var (
		mu       sync.Mutex
		findings []Finding
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for _, f := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			content, err := os.ReadFile(f.path)
			if err != nil {
				return errors.Errorf("reading %s: %w", f.rel, err)
			}

			var found []Finding
			for _, needle := range needles {
				if n := bytes.Count(content, []byte(needle)); n > 0 {
					found = append(found, Finding{Path: f.rel, Needle: needle, Count: n})
				}
			}
			if len(found) == 0 {
				return nil
			}

			mu.Lock()
			findings = append(findings, found...)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(findings, func(i, j int) bool {
		if findings[i].Path != findings[j].Path {
			return findings[i].Path < findings[j].Path
		}
		return findings[i].Needle < findings[j].Needle
	})

	logger.Debug().Int("files", len(files)).Int("findings", len(findings)).Msg("residue scan complete")
	return findings, nil
}
