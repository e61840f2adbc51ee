// SPDX-FileCopyrightText: Copyright 2026 Plugpack Authors
// SPDX-License-Identifier: Apache-2.0

package action

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/go-containerregistry/pkg/name"

	"github.com/plugpack/plugpack-core/env"
)

// Config holds every setting the action consumes. It is constructed once at
// the boundary from the runner's INPUT_* variables and passed down; nothing
// in the core reads the environment ad hoc.
type Config struct {
	// Root is the repository checkout the action operates on.
	Root string

	// PackagesDir is the configured packages directory hint. Empty or "."
	// means auto-detect.
	PackagesDir string

	// ValidateOnly skips every side effect: no archives, no pushes, no
	// releases.
	ValidateOnly bool

	// Strict additionally validates each manifest document against the
	// embedded JSON Schema.
	Strict bool

	// Filter is an optional CEL expression selecting which valid packages
	// are processed.
	Filter string

	// OutputDir receives the created .pkg archives.
	OutputDir string

	// Push enables pushing packaged artifacts to an OCI registry.
	Push bool

	// Registry is the registry host, e.g. ghcr.io.
	Registry string

	// Repository is the repository path under the registry, e.g.
	// myorg/plugins. Each package is tagged <repository>/<name>:<version>.
	Repository string

	RegistryUsername string
	RegistryPassword string

	// PlainHTTP uses insecure HTTP connections to the registry.
	PlainHTTP bool

	// CreateReleases enables per-package GitHub releases.
	CreateReleases bool

	GitHubToken  string
	ReleaseOwner string
	ReleaseRepo  string

	// Force recreates releases whose tag already exists.
	Force bool
}

// ConfigFromEnv builds the configuration from GitHub Actions inputs.
// Defaults: Root from GITHUB_WORKSPACE (falling back to "."), the release
// repository from GITHUB_REPOSITORY, and archives written to "dist".
func ConfigFromEnv(r env.Reader) (*Config, error) {
	cfg := &Config{
		Root:             r.Getenv("GITHUB_WORKSPACE"),
		PackagesDir:      env.Input(r, "packages-directory"),
		Filter:           env.Input(r, "filter"),
		OutputDir:        env.Input(r, "output-directory"),
		Registry:         env.Input(r, "registry"),
		Repository:       env.Input(r, "repository"),
		RegistryUsername: env.Input(r, "registry-username"),
		RegistryPassword: env.Input(r, "registry-password"),
		GitHubToken:      env.Input(r, "github-token"),
	}

	if cfg.Root == "" {
		cfg.Root = "."
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = "dist"
	}

	for _, b := range []struct {
		input string
		dst   *bool
	}{
		{"validate-only", &cfg.ValidateOnly},
		{"strict", &cfg.Strict},
		{"push", &cfg.Push},
		{"plain-http", &cfg.PlainHTTP},
		{"create-releases", &cfg.CreateReleases},
		{"force", &cfg.Force},
	} {
		v, err := parseBoolInput(r, b.input)
		if err != nil {
			return nil, err
		}
		*b.dst = v
	}

	if repo := r.Getenv("GITHUB_REPOSITORY"); repo != "" {
		if owner, repoName, ok := strings.Cut(repo, "/"); ok {
			cfg.ReleaseOwner = owner
			cfg.ReleaseRepo = repoName
		}
	}
	if owner := env.Input(r, "release-owner"); owner != "" {
		cfg.ReleaseOwner = owner
	}
	if repo := env.Input(r, "release-repository"); repo != "" {
		cfg.ReleaseRepo = repo
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks cross-field requirements before any work starts.
func (c *Config) Validate() error {
	if c.Push {
		if c.Registry == "" || c.Repository == "" {
			return fmt.Errorf("push requires both registry and repository inputs")
		}
		// A package name segment is appended per package later; validate
		// the configured base as a repository reference now.
		if _, err := name.NewRepository(c.Registry + "/" + c.Repository); err != nil {
			return fmt.Errorf("invalid registry repository %q: %w", c.Registry+"/"+c.Repository, err)
		}
	}

	if c.CreateReleases {
		if c.GitHubToken == "" {
			return fmt.Errorf("create-releases requires the github-token input")
		}
		if c.ReleaseOwner == "" || c.ReleaseRepo == "" {
			return fmt.Errorf("create-releases requires a release repository (GITHUB_REPOSITORY or explicit inputs)")
		}
	}

	return nil
}

// PushRef returns the remote reference for one package.
func (c *Config) PushRef(pkgName, version string) string {
	return fmt.Sprintf("%s/%s/%s:%s", c.Registry, c.Repository, pkgName, version)
}

// parseBoolInput reads a boolean action input; absent means false.
func parseBoolInput(r env.Reader, input string) (bool, error) {
	v := env.Input(r, input)
	if v == "" {
		return false, nil
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("input %s: expected a boolean, got %q", input, v)
	}
	return parsed, nil
}
