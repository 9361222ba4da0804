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

// Package local copies a template that already lives on disk.
package local

import (
	"context"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/walteh/create-springboot/pkg/provider"
	"gitlab.com/tozd/go/errors"
)

func init() {
	provider.Register("local", New)
}

// 🎯 Provider implements the provider interface for local directories
type Provider struct{}

// 🏭 New creates a new local provider
func New(ctx context.Context, opts provider.Options) (provider.Provider, error) {
	return &Provider{}, nil
}

// Name returns the name of the provider
func (p *Provider) Name() string {
	return "local"
}

// 📥 Fetch copies the directory named by src.Repo into dest, leaving out .git
func (p *Provider) Fetch(ctx context.Context, src provider.Source, dest string) error {
	logger := zerolog.Ctx(ctx)

	root := strings.TrimPrefix(src.Repo, "file://")
	info, err := os.Stat(root)
	if err != nil {
		return errors.Errorf("reading template directory: %w", err)
	}
	if !info.IsDir() {
		return errors.Errorf("template %s is not a directory", root)
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return errors.Errorf("resolving template directory: %w", err)
	}
	absDest, err := filepath.Abs(dest)
	if err != nil {
		return errors.Errorf("resolving destination: %w", err)
	}
	if absDest == absRoot || strings.HasPrefix(absDest, absRoot+string(filepath.Separator)) {
		return errors.Errorf("destination %s is inside the template", dest)
	}

	files := 0
	err = filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		rel, err := filepath.Rel(absRoot, path)
		if err != nil {
			return err
		}
		target := filepath.Join(absDest, rel)

		switch {
		case d.IsDir():
			if d.Name() == ".git" {
				return filepath.SkipDir
			}
			return os.MkdirAll(target, 0o755)
		case d.Type().IsRegular():
			info, err := d.Info()
			if err != nil {
				return err
			}
			files++
			return copyFile(path, target, info.Mode().Perm())
		default:
			logger.Debug().Str("path", rel).Msg("skipping non-regular file")
			return nil
		}
	})
	if err != nil {
		return errors.Errorf("copying template: %w", err)
	}

	logger.Debug().Int("files", files).Str("from", absRoot).Str("to", absDest).Msg("copied template")
	return nil
}

func copyFile(src, dst string, mode os.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
