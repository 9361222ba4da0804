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
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// ErrFetchFailed marks every error returned by Fetch
var ErrFetchFailed = errors.Base("template fetch failed")

// 📦 Source identifies a template
type Source struct {
	Repo string // owner/name, github.com/owner/name, or a local directory
	Ref  string // Branch or tag, ignored for local directories
}

// 📝 String returns a string representation of the source
func (s Source) String() string {
	if s.Ref == "" {
		return s.Repo
	}
	return fmt.Sprintf("%s@%s", s.Repo, s.Ref)
}

// 🔌 Provider materializes a template into a directory
type Provider interface {
	// Name returns the registered name of the provider
	Name() string

	// 📥 Fetch writes the template tree into dest, which does not exist yet
	Fetch(ctx context.Context, src Source, dest string) error
}

// 🔧 Options configures a provider
type Options struct {
	Token      string       // Optional API token
	HTTPClient *http.Client // Defaults to http.DefaultClient
}

// 🏭 Factory creates a new provider
type Factory func(ctx context.Context, opts Options) (Provider, error)

var (
	// 🗺️ providers is a map of provider names to factories
	providers = make(map[string]Factory)
)

// 📝 Register registers a provider factory
func Register(name string, factory Factory) {
	providers[name] = factory
}

// 🎯 Get returns a provider by name
func Get(ctx context.Context, name string, opts Options) (Provider, error) {
	factory, ok := providers[name]
	if !ok {
		return nil, errors.Errorf("unknown provider %q (registered: %s)", name, strings.Join(Names(), ", "))
	}
	return factory(ctx, opts)
}

// Names lists the registered providers
func Names() []string {
	names := make([]string, 0, len(providers))
	for name := range providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// 🔍 Detect picks the provider for a source: existing directories and file:// paths are local,
// everything else is GitHub
func Detect(src Source) string {
	if strings.HasPrefix(src.Repo, "file://") {
		return "local"
	}
	if info, err := os.Stat(src.Repo); err == nil && info.IsDir() {
		return "local"
	}
	return "github"
}

// 📥 Fetch materializes src into dest with the detected provider.
// dest must not exist; on failure whatever was written to dest is removed.
func Fetch(ctx context.Context, src Source, dest string, opts Options) error {
	logger := zerolog.Ctx(ctx)

	if _, err := os.Lstat(dest); err == nil {
		return errors.Errorf("%w: destination %s already exists", ErrFetchFailed, dest)
	}

	name := Detect(src)
	p, err := Get(ctx, name, opts)
	if err != nil {
		return errors.Errorf("%w: %w", ErrFetchFailed, err)
	}

	logger.Debug().Str("provider", p.Name()).Stringer("source", src).Str("dest", dest).Msg("fetching template")

	if err := p.Fetch(ctx, src, dest); err != nil {
		if rmErr := os.RemoveAll(dest); rmErr != nil {
			logger.Warn().Err(rmErr).Str("dest", dest).Msg("removing partial template")
		}
		return errors.Errorf("%w: %s from %s: %w", ErrFetchFailed, src, p.Name(), err)
	}

	return nil
}

// 📥 DownloadFile downloads a file from a URL
func DownloadFile(ctx context.Context, client *http.Client, url string) (io.ReadCloser, error) {
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Errorf("creating request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, errors.Errorf("making request: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, errors.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	return resp.Body, nil
}

// rootDir returns dest made absolute and clean
func rootDir(dest string) (string, error) {
	abs, err := filepath.Abs(dest)
	if err != nil {
		return "", errors.Errorf("resolving %s: %w", dest, err)
	}
	return abs, nil
}
