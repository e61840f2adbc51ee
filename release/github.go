// SPDX-FileCopyrightText: Copyright 2026 Plugpack Authors
// SPDX-License-Identifier: Apache-2.0

package release

//go:generate mockgen -source=github.go -destination=mocks/mock_publisher.go -package=mocks Publisher

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"

	"github.com/google/go-github/v66/github"
	"golang.org/x/net/http/httpguts"
)

// ErrReleaseExists reports that a release with the package's tag already
// exists and force was not requested.
var ErrReleaseExists = errors.New("release already exists")

// Tag returns the release tag for a package: package_<name>_<version>.
func Tag(name, version string) string {
	return fmt.Sprintf("package_%s_%s", name, version)
}

// Spec describes one per-package release to create.
type Spec struct {
	// Name and Version identify the package and determine the tag.
	Name    string
	Version string

	// ArchivePath is the .pkg archive uploaded as the release asset.
	ArchivePath string

	// Notes is the release body. Optional.
	Notes string
}

// Release describes a created release.
type Release struct {
	Tag      string
	URL      string
	AssetURL string
}

// Publisher creates per-package releases.
type Publisher interface {
	// Publish creates the release for spec and uploads its archive asset.
	Publish(ctx context.Context, spec Spec) (*Release, error)
}

// Compile-time assertion that GitHubPublisher implements Publisher.
var _ Publisher = (*GitHubPublisher)(nil)

// GitHubPublisher creates GitHub releases through the REST API.
type GitHubPublisher struct {
	client *github.Client
	owner  string
	repo   string
	force  bool
}

// Option configures a GitHubPublisher.
type Option func(*GitHubPublisher)

// WithForce deletes and recreates a release whose tag already exists
// instead of failing.
func WithForce(enabled bool) Option {
	return func(p *GitHubPublisher) {
		p.force = enabled
	}
}

// WithHTTPClient sets the HTTP client used for API calls.
func WithHTTPClient(hc *http.Client) Option {
	return func(p *GitHubPublisher) {
		p.client = github.NewClient(hc)
	}
}

// NewGitHubPublisher creates a publisher for the given repository. The token
// is required and is rejected if it cannot be carried in an Authorization
// header (control characters would allow header injection).
func NewGitHubPublisher(token, owner, repo string, opts ...Option) (*GitHubPublisher, error) {
	if token == "" {
		return nil, fmt.Errorf("github token is required")
	}
	if !httpguts.ValidHeaderFieldValue(token) {
		return nil, fmt.Errorf("github token contains invalid header characters")
	}
	if owner == "" || repo == "" {
		return nil, fmt.Errorf("release repository owner and name are required")
	}

	p := &GitHubPublisher{owner: owner, repo: repo}

	for _, opt := range opts {
		opt(p)
	}

	if p.client == nil {
		p.client = github.NewClient(nil)
	}
	p.client = p.client.WithAuthToken(token)

	return p, nil
}

// SetBaseURL points the publisher at a different API endpoint. Intended for
// tests against httptest servers; both API and upload requests go to u.
func (p *GitHubPublisher) SetBaseURL(u string) error {
	parsed, err := url.Parse(u + "/")
	if err != nil {
		return fmt.Errorf("parsing base URL: %w", err)
	}
	p.client.BaseURL = parsed
	p.client.UploadURL = parsed
	return nil
}

// Publish creates the release tagged package_<name>_<version> and uploads
// the archive as its asset. If the tag already exists the call fails with
// [ErrReleaseExists] unless force is enabled, in which case the existing
// release and its tag are deleted first.
func (p *GitHubPublisher) Publish(ctx context.Context, spec Spec) (*Release, error) {
	tag := Tag(spec.Name, spec.Version)

	if err := p.clearExisting(ctx, tag); err != nil {
		return nil, err
	}

	rel, _, err := p.client.Repositories.CreateRelease(ctx, p.owner, p.repo, &github.RepositoryRelease{
		TagName: github.String(tag),
		Name:    github.String(fmt.Sprintf("%s %s", spec.Name, spec.Version)),
		Body:    github.String(spec.Notes),
	})
	if err != nil {
		return nil, fmt.Errorf("creating release %s: %w", tag, err)
	}

	assetURL, err := p.uploadAsset(ctx, rel.GetID(), spec.ArchivePath)
	if err != nil {
		return nil, err
	}

	return &Release{
		Tag:      tag,
		URL:      rel.GetHTMLURL(),
		AssetURL: assetURL,
	}, nil
}

// clearExisting handles a pre-existing release for the tag.
func (p *GitHubPublisher) clearExisting(ctx context.Context, tag string) error {
	existing, resp, err := p.client.Repositories.GetReleaseByTag(ctx, p.owner, p.repo, tag)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return nil
		}
		return fmt.Errorf("checking release %s: %w", tag, err)
	}

	if !p.force {
		return fmt.Errorf("%w: %s", ErrReleaseExists, tag)
	}

	if _, err := p.client.Repositories.DeleteRelease(ctx, p.owner, p.repo, existing.GetID()); err != nil {
		return fmt.Errorf("deleting release %s: %w", tag, err)
	}
	// Delete the tag too: CreateRelease would otherwise re-resolve the old
	// commit. A missing ref is fine, the release may never have pushed one.
	if _, err := p.client.Git.DeleteRef(ctx, p.owner, p.repo, "tags/"+tag); err != nil {
		var ghErr *github.ErrorResponse
		if !errors.As(err, &ghErr) || ghErr.Response == nil || ghErr.Response.StatusCode != http.StatusNotFound {
			return fmt.Errorf("deleting tag %s: %w", tag, err)
		}
	}

	return nil
}

// uploadAsset attaches the archive to the release.
func (p *GitHubPublisher) uploadAsset(ctx context.Context, releaseID int64, archivePath string) (string, error) {
	f, err := os.Open(archivePath) //#nosec G304 -- path produced by archive creation
	if err != nil {
		return "", fmt.Errorf("opening archive %s: %w", archivePath, err)
	}
	defer f.Close()

	asset, _, err := p.client.Repositories.UploadReleaseAsset(ctx, p.owner, p.repo, releaseID, &github.UploadOptions{
		Name:      filepath.Base(archivePath),
		MediaType: "application/zip",
	}, f)
	if err != nil {
		return "", fmt.Errorf("uploading asset %s: %w", filepath.Base(archivePath), err)
	}

	return asset.GetBrowserDownloadURL(), nil
}
