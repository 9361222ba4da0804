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

// Package relocate moves and removes paths inside a project tree.
package relocate

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// ErrDestinationExists is returned when a move would overwrite an existing path
var ErrDestinationExists = errors.Base("destination already exists")

// 📦 Relocate moves oldPath to newPath, creating missing parents of newPath.
// It reports false without error when oldPath does not exist or both paths are the same.
// An existing newPath is never overwritten or merged.
func Relocate(ctx context.Context, oldPath, newPath string) (bool, error) {
	logger := zerolog.Ctx(ctx)

	oldPath = filepath.Clean(oldPath)
	newPath = filepath.Clean(newPath)

	if _, err := os.Lstat(oldPath); err != nil {
		if os.IsNotExist(err) {
			logger.Debug().Str("path", oldPath).Msg("nothing to relocate")
			return false, nil
		}
		return false, errors.Errorf("checking %s: %w", oldPath, err)
	}

	if oldPath == newPath {
		return false, nil
	}

	if Within(newPath, oldPath) {
		return false, errors.Errorf("cannot move %s into itself at %s", oldPath, newPath)
	}

	if _, err := os.Lstat(newPath); err == nil {
		return false, errors.Errorf("moving %s to %s: %w", oldPath, newPath, ErrDestinationExists)
	} else if !os.IsNotExist(err) {
		return false, errors.Errorf("checking %s: %w", newPath, err)
	}

	if err := os.MkdirAll(filepath.Dir(newPath), 0o755); err != nil {
		return false, errors.Errorf("creating parent directories: %w", err)
	}

	if err := os.Rename(oldPath, newPath); err != nil {
		return false, errors.Errorf("moving %s to %s: %w", oldPath, newPath, err)
	}

	logger.Debug().Str("from", oldPath).Str("to", newPath).Msg("relocated path")
	return true, nil
}

// 🧹 Purge forcibly removes path and everything under it.
// It reports whether anything was removed; an absent path is not an error.
// Callers treat a returned error as a warning, never as a reason to abort.
func Purge(ctx context.Context, path string) (bool, error) {
	logger := zerolog.Ctx(ctx)

	if _, err := os.Lstat(path); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, errors.Errorf("inspecting %s: %w", path, err)
	}

	if err := os.RemoveAll(path); err != nil {
		return false, errors.Errorf("removing %s: %w", path, err)
	}

	logger.Debug().Str("path", path).Msg("purged path")
	return true, nil
}

// 🪶 PruneEmptyParents removes empty ancestors of path, stopping at stop (exclusive)
func PruneEmptyParents(ctx context.Context, path, stop string) {
	logger := zerolog.Ctx(ctx)

	stop = filepath.Clean(stop)
	dir := filepath.Dir(filepath.Clean(path))
	for dir != stop && Within(dir, stop) {
		entries, err := os.ReadDir(dir)
		if err != nil || len(entries) > 0 {
			return
		}
		if err := os.Remove(dir); err != nil {
			logger.Debug().Err(err).Str("dir", dir).Msg("could not prune empty directory")
			return
		}
		logger.Debug().Str("dir", dir).Msg("pruned empty directory")
		dir = filepath.Dir(dir)
	}
}

// 🔍 Within reports whether path is parent or lies beneath it
func Within(path, parent string) bool {
	rel, err := filepath.Rel(filepath.Clean(parent), filepath.Clean(path))
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}
