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

// Package walk visits every text file of a project tree.
//
// A walk holds no state of its own: each call reads the tree as the
// previous step left it on disk.
package walk

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 🚫 DefaultExclude is the set of binary artifacts never opened as text
var DefaultExclude = []string{
	"**/*.{png,jpg,jpeg,gif,ico,jar,class,db}",
}

// 🚫 DefaultSkipDirs are directories never descended into
var DefaultSkipDirs = []string{
	"**/.git",
}

// 🔧 Options configures a walk
type Options struct {
	// Exclude holds doublestar globs of files that are never visited, matched case-insensitively
	Exclude []string
	// SkipDirs holds doublestar globs of directories that are not descended into
	SkipDirs []string
}

// 🏭 DefaultOptions returns the options used when a plan does not override them
func DefaultOptions() Options {
	return Options{
		Exclude:  append([]string{}, DefaultExclude...),
		SkipDirs: append([]string{}, DefaultSkipDirs...),
	}
}

// Validate checks every glob in the options
func (o Options) Validate() error {
	for _, pattern := range append(append([]string{}, o.Exclude...), o.SkipDirs...) {
		if !doublestar.ValidatePattern(pattern) {
			return errors.Errorf("invalid glob %q", pattern)
		}
	}
	return nil
}

// 🔍 Excluded reports whether a slash separated relative file path is excluded
func (o Options) Excluded(rel string) bool {
	return matchAny(o.Exclude, rel)
}

// 📂 VisitFunc is called once for every visited file with its absolute path and relative slash path
type VisitFunc func(ctx context.Context, path, rel string) error

// 🚶 Walk visits every regular file under root that is not excluded.
// Files are visited exactly once; symlinks are not followed.
func Walk(ctx context.Context, root string, opts Options, visit VisitFunc) error {
	logger := zerolog.Ctx(ctx)

	info, err := os.Stat(root)
	if err != nil {
		return errors.Errorf("reading root %s: %w", root, err)
	}
	if !info.IsDir() {
		return errors.Errorf("root %s is not a directory", root)
	}

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return errors.Errorf("walking %s: %w", path, err)
		}

		if err := ctx.Err(); err != nil {
			return err
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return errors.Errorf("relative path for %s: %w", path, err)
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if rel != "." && matchAny(opts.SkipDirs, rel) {
				logger.Debug().Str("dir", rel).Msg("skipping directory")
				return filepath.SkipDir
			}
			return nil
		}

		if !d.Type().IsRegular() {
			return nil
		}

		if opts.Excluded(rel) {
			logger.Debug().Str("file", rel).Msg("skipping excluded file")
			return nil
		}

		return visit(ctx, path, rel)
	})
	if err != nil {
		return err
	}

	return nil
}

func matchAny(patterns []string, name string) bool {
	name = strings.ToLower(name)
	for _, pattern := range patterns {
		if ok, _ := doublestar.Match(strings.ToLower(pattern), name); ok {
			return true
		}
	}
	return false
}
