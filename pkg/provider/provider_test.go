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
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"
)

// MockProvider is a mock implementation of Provider
type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) Name() string {
	return m.Called().String(0)
}

func (m *MockProvider) Fetch(ctx context.Context, src Source, dest string) error {
	args := m.Called(ctx, src, dest)
	return args.Error(0)
}

// withProviders swaps the registry for the duration of a test
func withProviders(t *testing.T, reg map[string]Factory) {
	t.Helper()
	saved := providers
	providers = reg
	t.Cleanup(func() { providers = saved })
}

func TestDetect(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name string
		src  Source
		want string
	}{
		{name: "owner_repo", src: Source{Repo: "blueisfresh/bootguard", Ref: "main"}, want: "github"},
		{name: "github_url", src: Source{Repo: "https://github.com/blueisfresh/bootguard"}, want: "github"},
		{name: "file_scheme", src: Source{Repo: "file:///does/not/exist"}, want: "local"},
		{name: "existing_dir", src: Source{Repo: dir}, want: "local"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Detect(tt.src))
		})
	}
}

func TestSource_String(t *testing.T) {
	assert.Equal(t, "blueisfresh/bootguard@main", Source{Repo: "blueisfresh/bootguard", Ref: "main"}.String())
	assert.Equal(t, "./template", Source{Repo: "./template"}.String())
}

func TestGet(t *testing.T) {
	ctx := context.Background()
	mp := new(MockProvider)
	withProviders(t, map[string]Factory{
		"github": func(ctx context.Context, opts Options) (Provider, error) { return mp, nil },
	})

	t.Run("registered", func(t *testing.T) {
		p, err := Get(ctx, "github", Options{})
		require.NoError(t, err)
		assert.Same(t, mp, p)
	})

	t.Run("unknown", func(t *testing.T) {
		_, err := Get(ctx, "svn", Options{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), `unknown provider "svn"`)
		assert.Contains(t, err.Error(), "github")
	})

	assert.Equal(t, []string{"github"}, Names())
}

func TestFetch(t *testing.T) {
	ctx := context.Background()
	src := Source{Repo: "blueisfresh/bootguard", Ref: "main"}

	t.Run("success", func(t *testing.T) {
		dest := filepath.Join(t.TempDir(), "demo")
		mp := new(MockProvider)
		mp.On("Name").Return("github")
		mp.On("Fetch", mock.Anything, src, dest).Return(nil).Run(func(args mock.Arguments) {
			require.NoError(t, os.MkdirAll(dest, 0o755))
		})
		withProviders(t, map[string]Factory{
			"github": func(ctx context.Context, opts Options) (Provider, error) { return mp, nil },
		})

		require.NoError(t, Fetch(ctx, src, dest, Options{}))
		assert.DirExists(t, dest)
		mp.AssertExpectations(t)
	})

	t.Run("removes_partial_dest", func(t *testing.T) {
		dest := filepath.Join(t.TempDir(), "demo")
		mp := new(MockProvider)
		mp.On("Name").Return("github")
		mp.On("Fetch", mock.Anything, src, dest).Return(errors.New("connection reset")).Run(func(args mock.Arguments) {
			require.NoError(t, os.MkdirAll(dest, 0o755))
			require.NoError(t, os.WriteFile(filepath.Join(dest, "pom.xml"), []byte("<project"), 0o644))
		})
		withProviders(t, map[string]Factory{
			"github": func(ctx context.Context, opts Options) (Provider, error) { return mp, nil },
		})

		err := Fetch(ctx, src, dest, Options{})
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrFetchFailed)
		assert.Contains(t, err.Error(), "connection reset")
		assert.NoDirExists(t, dest)
	})

	t.Run("keeps_provider_error_chain", func(t *testing.T) {
		dest := filepath.Join(t.TempDir(), "demo")
		notFound := errors.Base("repository not found")
		mp := new(MockProvider)
		mp.On("Name").Return("github")
		mp.On("Fetch", mock.Anything, src, dest).Return(errors.Errorf("getting archive link: %w", notFound))
		withProviders(t, map[string]Factory{
			"github": func(ctx context.Context, opts Options) (Provider, error) { return mp, nil },
		})

		err := Fetch(ctx, src, dest, Options{})
		assert.ErrorIs(t, err, ErrFetchFailed)
		assert.ErrorIs(t, err, notFound)
	})

	t.Run("dest_exists", func(t *testing.T) {
		dest := t.TempDir()
		withProviders(t, map[string]Factory{})

		err := Fetch(ctx, src, dest, Options{})
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrFetchFailed)
		assert.Contains(t, err.Error(), "already exists")
		assert.DirExists(t, dest)
	})

	t.Run("unknown_provider", func(t *testing.T) {
		dest := filepath.Join(t.TempDir(), "demo")
		withProviders(t, map[string]Factory{})

		err := Fetch(ctx, src, dest, Options{})
		assert.ErrorIs(t, err, ErrFetchFailed)
	})
}

func TestDownloadFile(t *testing.T) {
	ctx := context.Background()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte("payload"))
	}))
	defer server.Close()

	t.Run("ok", func(t *testing.T) {
		body, err := DownloadFile(ctx, server.Client(), server.URL+"/archive")
		require.NoError(t, err)
		defer body.Close()

		data, err := io.ReadAll(body)
		require.NoError(t, err)
		assert.Equal(t, "payload", string(data))
	})

	t.Run("not_found", func(t *testing.T) {
		_, err := DownloadFile(ctx, nil, server.URL+"/missing")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unexpected status code: 404")
	})
}
