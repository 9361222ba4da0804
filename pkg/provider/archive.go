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

package provider

import (
	"archive/tar"
	"bufio"
	"bytes"
	"compress/gzip"
	"context"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

var gzipMagic = []byte{0x1f, 0x8b}

// ErrNotGzip is returned when an archive does not start with the gzip magic bytes
var ErrNotGzip = errors.Base("archive is not gzip compressed")

// 📦 ExtractTarball extracts a gzipped tarball into dest.
// The single top-level directory GitHub wraps every archive in is stripped.
// Entries that would land outside dest are rejected; links and devices are skipped.
func ExtractTarball(ctx context.Context, r io.Reader, dest string) (int, error) {
	logger := zerolog.Ctx(ctx)

	root, err := rootDir(dest)
	if err != nil {
		return 0, err
	}

	br := bufio.NewReader(r)
	magic, err := br.Peek(len(gzipMagic))
	if err != nil || !bytes.Equal(magic, gzipMagic) {
		return 0, ErrNotGzip
	}

	gz, err := gzip.NewReader(br)
	if err != nil {
		return 0, errors.Errorf("creating gzip reader: %w", err)
	}
	defer gz.Close()

	if err := os.MkdirAll(root, 0o755); err != nil {
		return 0, errors.Errorf("creating %s: %w", root, err)
	}

	files := 0
	tr := tar.NewReader(gz)
	for {
		if err := ctx.Err(); err != nil {
			return files, err
		}

		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return files, errors.Errorf("reading tar entry: %w", err)
		}

		rel := stripTopDir(hdr.Name)
		if rel == "" {
			continue
		}

		target := filepath.Join(root, filepath.FromSlash(rel))
		if !strings.HasPrefix(target, root+string(filepath.Separator)) {
			return files, errors.Errorf("tar entry %q escapes the destination", hdr.Name)
		}

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0o755); err != nil {
				return files, errors.Errorf("creating directory %s: %w", rel, err)
			}
		case tar.TypeReg:
			if err := writeEntry(target, tr, hdr.FileInfo().Mode().Perm()); err != nil {
				return files, errors.Errorf("extracting %s: %w", rel, err)
			}
			files++
		default:
			logger.Debug().Str("entry", hdr.Name).Int("type", int(hdr.Typeflag)).Msg("skipping tar entry")
		}
	}

	logger.Debug().Int("files", files).Str("dest", root).Msg("extracted tarball")
	return files, nil
}

// stripTopDir removes the first path element, e.g. "owner-repo-sha/src/A.java" becomes "src/A.java"
func stripTopDir(name string) string {
	name = path.Clean(strings.TrimPrefix(name, "./"))
	i := strings.Index(name, "/")
	if i < 0 {
		return ""
	}
	return name[i+1:]
}

func writeEntry(target string, r io.Reader, mode os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return errors.Errorf("creating parent directory: %w", err)
	}
	if mode == 0 {
		mode = 0o644
	}

	f, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return errors.Errorf("creating file: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return errors.Errorf("writing file: %w", err)
	}
	return f.Close()
}
