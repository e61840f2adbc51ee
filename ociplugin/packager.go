// SPDX-FileCopyrightText: Copyright 2026 Plugpack Authors
// SPDX-License-Identifier: Apache-2.0

package ociplugin

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/opencontainers/go-digest"
	specs "github.com/opencontainers/image-spec/specs-go"
	ocispec "github.com/opencontainers/image-spec/specs-go/v1"

	"github.com/plugpack/plugpack-core/archive"
	"github.com/plugpack/plugpack-core/manifest"
)

// maxArchiveSize limits archive layers to keep artifacts within registry
// blob limits.
const maxArchiveSize = 512 * 1024 * 1024

// PackageOptions configures artifact creation.
type PackageOptions struct {
	// Epoch is the created timestamp, pinned for reproducible artifacts.
	Epoch time.Time
}

// DefaultPackageOptions returns default packaging options, honoring
// SOURCE_DATE_EPOCH like archive creation does.
func DefaultPackageOptions() PackageOptions {
	return PackageOptions{Epoch: archive.DefaultOptions().Epoch}
}

// PackageResult contains the digests of a packaged plugin artifact.
type PackageResult struct {
	ManifestDigest digest.Digest
	ConfigDigest   digest.Digest
	LayerDigest    digest.Digest
	Config         *PluginConfig
}

// Packager builds plugin OCI artifacts into a local store.
type Packager struct {
	store *Store
}

// Compile-time assertion that Packager implements PluginPackager.
var _ PluginPackager = (*Packager)(nil)

// NewPackager creates a new packager with the given store.
// Panics if store is nil.
func NewPackager(store *Store) *Packager {
	if store == nil {
		panic("ociplugin: NewPackager called with nil store")
	}
	return &Packager{store: store}
}

// Package stores the zip archive at archivePath as a plugin artifact: one
// archive layer plus a config blob built from the parsed manifest, tied
// together by a single OCI manifest.
func (p *Packager) Package(
	ctx context.Context,
	m *manifest.Manifest,
	archivePath string,
	opts PackageOptions,
) (*PackageResult, error) {
	archiveName := filepath.Base(archivePath)

	cfg, err := ConfigFromManifest(m, archiveName)
	if err != nil {
		return nil, fmt.Errorf("building plugin config: %w", err)
	}

	layerBytes, err := readArchive(archivePath)
	if err != nil {
		return nil, err
	}

	layerDigest, err := p.store.PutBlob(ctx, MediaTypeArchiveLayer, layerBytes)
	if err != nil {
		return nil, fmt.Errorf("storing archive layer: %w", err)
	}

	configBytes, err := json.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("marshaling plugin config: %w", err)
	}

	configDigest, err := p.store.PutBlob(ctx, MediaTypePluginConfig, configBytes)
	if err != nil {
		return nil, fmt.Errorf("storing plugin config: %w", err)
	}

	ociManifest := buildManifest(cfg, configBytes, configDigest, layerBytes, layerDigest, archiveName, opts)
	manifestBytes, err := json.Marshal(ociManifest)
	if err != nil {
		return nil, fmt.Errorf("marshaling manifest: %w", err)
	}

	manifestDigest, err := p.store.PutManifest(ctx, manifestBytes)
	if err != nil {
		return nil, fmt.Errorf("storing manifest: %w", err)
	}

	return &PackageResult{
		ManifestDigest: manifestDigest,
		ConfigDigest:   configDigest,
		LayerDigest:    layerDigest,
		Config:         cfg,
	}, nil
}

// readArchive loads the archive layer, enforcing the size limit.
func readArchive(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("inspecting archive %s: %w", path, err)
	}
	if info.Size() > maxArchiveSize {
		return nil, fmt.Errorf("archive %s exceeds maximum size of %d bytes", path, maxArchiveSize)
	}

	data, err := os.ReadFile(path) //#nosec G304 -- path produced by archive creation
	if err != nil {
		return nil, fmt.Errorf("reading archive %s: %w", path, err)
	}
	return data, nil
}

// buildManifest assembles the plugin OCI manifest.
func buildManifest(
	cfg *PluginConfig,
	configBytes []byte,
	configDigest digest.Digest,
	layerBytes []byte,
	layerDigest digest.Digest,
	archiveName string,
	opts PackageOptions,
) *ocispec.Manifest {
	return &ocispec.Manifest{
		Versioned:    specs.Versioned{SchemaVersion: 2},
		MediaType:    ocispec.MediaTypeImageManifest,
		ArtifactType: ArtifactTypePlugin,
		Config: ocispec.Descriptor{
			MediaType: MediaTypePluginConfig,
			Digest:    configDigest,
			Size:      int64(len(configBytes)),
		},
		Layers: []ocispec.Descriptor{
			{
				MediaType: MediaTypeArchiveLayer,
				Digest:    layerDigest,
				Size:      int64(len(layerBytes)),
				Annotations: map[string]string{
					ocispec.AnnotationTitle: archiveName,
				},
			},
		},
		Annotations: map[string]string{
			ocispec.AnnotationCreated:   opts.Epoch.Format(time.RFC3339),
			AnnotationPluginName:        cfg.Name,
			AnnotationPluginVersion:     cfg.Version,
			AnnotationPluginDescription: cfg.Description,
		},
	}
}
