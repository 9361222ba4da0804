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

package github

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/go-github/v60/github"
	"github.com/rs/zerolog"
	"github.com/walteh/create-springboot/pkg/provider"
	"gitlab.com/tozd/go/errors"
)

// maxRedirects bounds the redirects followed while resolving the archive link
const maxRedirects = 3

func init() {
	provider.Register("github", New)
}

// ArchiveClient is the part of the GitHub API the provider needs
type ArchiveClient interface {
	GetArchiveLink(ctx context.Context, owner, repo string, archiveformat github.ArchiveFormat, opts *github.RepositoryContentGetOptions, maxRedirects int) (*url.URL, *github.Response, error)
}

// 🎯 Provider implements the provider interface for GitHub
type Provider struct {
	client ArchiveClient
	http   *http.Client
}

// 🏭 New creates a new GitHub provider; the token is optional for public templates
func New(ctx context.Context, opts provider.Options) (provider.Provider, error) {
	logger := zerolog.Ctx(ctx)

	client := github.NewClient(opts.HTTPClient)
	if opts.Token != "" {
		logger.Debug().Msg("using GitHub token")
		client = client.WithAuthToken(opts.Token)
	}

	return NewWithClient(client.Repositories, opts.HTTPClient), nil
}

// NewWithClient creates a provider around an existing archive client
func NewWithClient(client ArchiveClient, httpClient *http.Client) *Provider {
	return &Provider{
		client: client,
		http:   httpClient,
	}
}

// Name returns the name of the provider
func (p *Provider) Name() string {
	return "github"
}

// 🔍 parseRepo parses owner/name, github.com/owner/name or a full https URL
func parseRepo(repo string) (owner, name string, err error) {
	repo = strings.TrimSuffix(strings.TrimSpace(repo), ".git")
	repo = strings.TrimPrefix(repo, "https://")
	repo = strings.TrimPrefix(repo, "http://")
	repo = strings.TrimPrefix(repo, "github.com/")
	repo = strings.Trim(repo, "/")

	parts := strings.Split(repo, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", errors.Errorf("invalid GitHub repository %q (want owner/name)", repo)
	}

	return parts[0], parts[1], nil
}

// 📦 GetArchiveURL returns the URL to download the repository tarball
func (p *Provider) GetArchiveURL(ctx context.Context, src provider.Source) (string, error) {
	owner, name, err := parseRepo(src.Repo)
	if err != nil {
		return "", errors.Errorf("parsing repo: %w", err)
	}

	link, resp, err := p.client.GetArchiveLink(ctx, owner, name, github.Tarball, &github.RepositoryContentGetOptions{
		Ref: src.Ref,
	}, maxRedirects)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return "", errors.Errorf("repository %s/%s or ref %q not found: %w", owner, name, src.Ref, err)
		}
		if _, ok := err.(*github.RateLimitError); ok {
			return "", errors.Errorf("rate limit exceeded, set GITHUB_TOKEN: %w", err)
		}
		return "", errors.Errorf("getting archive link: %w", err)
	}

	return link.String(), nil
}

// 📥 Fetch downloads the tarball of src and extracts it into dest
func (p *Provider) Fetch(ctx context.Context, src provider.Source, dest string) error {
	logger := zerolog.Ctx(ctx)

	archiveURL, err := p.GetArchiveURL(ctx, src)
	if err != nil {
		return err
	}
	logger.Debug().Str("url", archiveURL).Msg("downloading template archive")

	body, err := provider.DownloadFile(ctx, p.http, archiveURL)
	if err != nil {
		return errors.Errorf("downloading archive: %w", err)
	}
	defer body.Close()

	files, err := provider.ExtractTarball(ctx, body, dest)
	if err != nil {
		return errors.Errorf("extracting archive: %w", err)
	}
	if files == 0 {
		return errors.Errorf("archive of %s contains no files", src)
	}

	return nil
}
