// SPDX-FileCopyrightText: Copyright 2026 Plugpack Authors
// SPDX-License-Identifier: Apache-2.0

package ociplugin

import (
	"fmt"

	"github.com/plugpack/plugpack-core/manifest"
)

// ArtifactTypePlugin identifies plugin artifacts in OCI manifests.
const ArtifactTypePlugin = "dev.plugpack.plugin.v1"

// Media types for plugin artifact content.
const (
	// MediaTypePluginConfig is the media type of the plugin config blob.
	MediaTypePluginConfig = "application/vnd.plugpack.plugin.config.v1+json"

	// MediaTypeArchiveLayer is the media type of the zip archive layer.
	MediaTypeArchiveLayer = "application/vnd.plugpack.plugin.archive.v1+zip"
)

// Annotation keys for plugin metadata in OCI manifests.
const (
	// AnnotationPluginName is the annotation key for the plugin name.
	AnnotationPluginName = "dev.plugpack.plugin.name"

	// AnnotationPluginVersion is the annotation key for the plugin version.
	AnnotationPluginVersion = "dev.plugpack.plugin.version"

	// AnnotationPluginDescription is the annotation key for the plugin description.
	AnnotationPluginDescription = "dev.plugpack.plugin.description"
)

// PluginConfig is the config blob of a plugin artifact. It carries the
// metadata a consumer needs without extracting the archive layer.
type PluginConfig struct {
	Name        string   `json:"name"`
	Version     string   `json:"version"`
	Description string   `json:"description,omitempty"`
	Author      string   `json:"author,omitempty"`
	License     string   `json:"license,omitempty"`
	Tags        []string `json:"tags,omitempty"`

	// Commands lists the command names the plugin provides, in manifest
	// declaration order.
	Commands []string `json:"commands"`

	// Archive is the file name of the zip layer (<name>-<version>.pkg).
	Archive string `json:"archive"`
}

// ConfigFromManifest builds the artifact config blob from a parsed manifest.
func ConfigFromManifest(m *manifest.Manifest, archiveName string) (*PluginConfig, error) {
	if m == nil {
		return nil, fmt.Errorf("manifest is nil")
	}
	if m.Name == "" {
		return nil, fmt.Errorf("plugin name is required")
	}

	cfg := &PluginConfig{
		Name:     m.Name,
		Version:  m.Version,
		Archive:  archiveName,
		Commands: make([]string, 0, len(m.Commands)),
	}
	for _, cmd := range m.Commands {
		cfg.Commands = append(cfg.Commands, cmd.Name)
	}

	if md := m.Metadata; md != nil {
		cfg.Description = md.Description
		cfg.Author = md.Author
		cfg.License = md.License
		cfg.Tags = md.Tags
	}

	return cfg, nil
}
