// SPDX-FileCopyrightText: Copyright 2026 Plugpack Authors
// SPDX-License-Identifier: Apache-2.0

package ociplugin

//go:generate mockgen -source=interfaces.go -destination=mocks/mock_interfaces.go -package=mocks

import (
	"context"

	"github.com/opencontainers/go-digest"

	"github.com/plugpack/plugpack-core/manifest"
)

// RegistryClient provides remote OCI registry operations for plugin
// artifacts.
type RegistryClient interface {
	// Push pushes an artifact from the local store to a remote registry
	// and tags it with the reference's tag.
	Push(ctx context.Context, store *Store, manifestDigest digest.Digest, ref string) error
}

// PluginPackager wraps plugin archives as OCI artifacts.
type PluginPackager interface {
	// Package stores the archive at archivePath as an OCI artifact in the
	// local store and returns its digests.
	Package(ctx context.Context, m *manifest.Manifest, archivePath string, opts PackageOptions) (*PackageResult, error)
}
