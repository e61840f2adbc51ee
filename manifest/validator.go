// SPDX-FileCopyrightText: Copyright 2026 Plugpack Authors
// SPDX-License-Identifier: Apache-2.0

package manifest

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	// namePattern is the identifier grammar shared by package and command
	// names: lowercase alphanumeric words separated by single hyphens.
	namePattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

	// semverPattern is the accepted version grammar: MAJOR.MINOR.PATCH with
	// an optional pre-release suffix and no "v" prefix.
	semverPattern = regexp.MustCompile(`^\d+\.\d+\.\d+(-[0-9A-Za-z][0-9A-Za-z.-]*)?$`)
)

// ValidationResult is the outcome of validating one Manifest. A manifest is
// valid exactly when Errors is empty; warnings never affect validity.
type ValidationResult struct {
	Errors   []string
	Warnings []string
}

// Valid reports whether the manifest passed validation.
func (r *ValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

// Validate applies the manifest rule set and collects every resulting
// message. It is a pure function: no I/O, never fails, and evaluates all
// rules rather than stopping at the first violation, so a manifest with
// three defects yields three error strings.
//
// Rules run in a fixed order so messages are deterministic: package name,
// version (the "v"-prefix check and the semver grammar check are mutually
// exclusive), commands presence, then per-command checks in declaration
// order, then metadata warnings.
func Validate(m *Manifest) ValidationResult {
	var res ValidationResult

	if m.Name == "" {
		res.Errors = append(res.Errors, "Missing required field: name")
	}

	switch {
	case m.Version == "":
		res.Errors = append(res.Errors, "Missing required field: version")
	case strings.HasPrefix(m.Version, "v"):
		res.Errors = append(res.Errors, fmt.Sprintf(
			"Version must not start with 'v': use %q instead of %q",
			strings.TrimPrefix(m.Version, "v"), m.Version))
	case !semverPattern.MatchString(m.Version):
		res.Errors = append(res.Errors, fmt.Sprintf(
			"Invalid version format: %q is not MAJOR.MINOR.PATCH semantic versioning", m.Version))
	}

	if len(m.Commands) == 0 {
		res.Errors = append(res.Errors, "Missing required field: commands (must have at least one)")
	}

	for i, cmd := range m.Commands {
		id := fmt.Sprintf("%q", cmd.Name)
		if cmd.Name == "" {
			res.Errors = append(res.Errors, fmt.Sprintf("Command at index %d is missing required field: name", i))
			id = fmt.Sprintf("at index %d", i)
		}

		switch {
		case cmd.Type == "":
			res.Errors = append(res.Errors, fmt.Sprintf("Command %s is missing required field: type", id))
		case !validCommandType(cmd.Type):
			res.Errors = append(res.Errors, fmt.Sprintf(
				"Command %s has invalid type %q (must be one of: %s, %s, %s)",
				id, cmd.Type, TypeExecutable, TypeAlias, TypeGroup))
		}

		if cmd.Name != "" && !namePattern.MatchString(cmd.Name) {
			res.Errors = append(res.Errors, commandNameError(cmd.Name))
		}
	}

	for _, field := range []struct {
		name  string
		value string
	}{
		{"author", metadataField(m.Metadata, func(md *Metadata) string { return md.Author })},
		{"license", metadataField(m.Metadata, func(md *Metadata) string { return md.License })},
		{"repository", metadataField(m.Metadata, func(md *Metadata) string { return md.Repository })},
	} {
		if field.value == "" {
			res.Warnings = append(res.Warnings, fmt.Sprintf("Missing recommended metadata field: %s", field.name))
		}
	}

	return res
}

// validCommandType reports whether t belongs to the closed command type set.
func validCommandType(t string) bool {
	return t == TypeExecutable || t == TypeAlias || t == TypeGroup
}

// commandNameError describes why a command name fails the identifier
// grammar, naming the offending characters when there are any.
func commandNameError(name string) string {
	var bad []string
	seen := map[rune]bool{}
	for _, r := range name {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' {
			continue
		}
		if !seen[r] {
			seen[r] = true
			bad = append(bad, fmt.Sprintf("%q", string(r)))
		}
	}

	if len(bad) > 0 {
		return fmt.Sprintf("Command name %q contains invalid characters: %s", name, strings.Join(bad, ", "))
	}
	// All characters are legal but the structure is wrong, e.g. a leading,
	// trailing, or doubled hyphen.
	return fmt.Sprintf("Command name %q must be lowercase words separated by single hyphens", name)
}

// metadataField reads one field from a possibly-nil Metadata.
func metadataField(md *Metadata, get func(*Metadata) string) string {
	if md == nil {
		return ""
	}
	return get(md)
}
