// SPDX-FileCopyrightText: Copyright 2026 Plugpack Authors
// SPDX-License-Identifier: Apache-2.0

package manifest

// Filename is the exact name of the manifest file inside a package
// directory. The match is case-sensitive and no extension substitution is
// performed.
const Filename = "manifest.mf"

// Command types forming the closed set accepted by the validator.
const (
	TypeExecutable = "executable"
	TypeAlias      = "alias"
	TypeGroup      = "group"
)

// Manifest is the declarative description of one installable package.
// It is constructed once per validation/packaging pass and never mutated
// after parsing.
type Manifest struct {
	// Name is the package identifier: lowercase words separated by single
	// hyphens.
	Name string `yaml:"name" json:"name"`

	// Version is a semantic version (MAJOR.MINOR.PATCH with optional
	// pre-release suffix) without a leading "v".
	Version string `yaml:"version" json:"version"`

	// Commands are the entry points the package provides, in declaration
	// order. At least one is required.
	Commands []Command `yaml:"commands" json:"commands"`

	// Metadata carries optional descriptive fields. Its absence yields
	// warnings, never errors.
	Metadata *Metadata `yaml:"metadata,omitempty" json:"metadata,omitempty"`
}

// Command is one invocable entry point within a package.
type Command struct {
	Name string `yaml:"name" json:"name"`

	// Type is one of [TypeExecutable], [TypeAlias], or [TypeGroup].
	Type string `yaml:"type" json:"type"`

	// Executable is the path or template to run when Type is "executable".
	Executable string `yaml:"executable,omitempty" json:"executable,omitempty"`

	Short string   `yaml:"short,omitempty" json:"short,omitempty"`
	Long  string   `yaml:"long,omitempty" json:"long,omitempty"`
	Group string   `yaml:"group,omitempty" json:"group,omitempty"`
	Args  []string `yaml:"args,omitempty" json:"args,omitempty"`
	Flags []Flag   `yaml:"flags,omitempty" json:"flags,omitempty"`
}

// Flag is a declared option of a Command.
type Flag struct {
	Name        string `yaml:"name" json:"name"`
	Short       string `yaml:"short,omitempty" json:"short,omitempty"`
	Type        string `yaml:"type,omitempty" json:"type,omitempty"`
	Default     any    `yaml:"default,omitempty" json:"default,omitempty"`
	Required    bool   `yaml:"required,omitempty" json:"required,omitempty"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
}

// Metadata holds the optional descriptive fields of a package.
type Metadata struct {
	Author      string   `yaml:"author,omitempty" json:"author,omitempty"`
	License     string   `yaml:"license,omitempty" json:"license,omitempty"`
	Homepage    string   `yaml:"homepage,omitempty" json:"homepage,omitempty"`
	Repository  string   `yaml:"repository,omitempty" json:"repository,omitempty"`
	Tags        []string `yaml:"tags,omitempty" json:"tags,omitempty"`
	Description string   `yaml:"description,omitempty" json:"description,omitempty"`
}
