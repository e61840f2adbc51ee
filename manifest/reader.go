// SPDX-FileCopyrightText: Copyright 2026 Plugpack Authors
// SPDX-License-Identifier: Apache-2.0

package manifest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// maxManifestSize limits manifest files to prevent parsing pathological
// documents.
const maxManifestSize = 1 * 1024 * 1024

// ReadError reports a manifest that could not be loaded: the file is
// missing, unreadable, empty, or does not parse. It names the offending
// path and carries the underlying diagnostic.
type ReadError struct {
	Path string
	Err  error
}

// Error implements the error interface.
func (e *ReadError) Error() string {
	return fmt.Sprintf("reading manifest %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *ReadError) Unwrap() error {
	return e.Err
}

// Read loads and parses the manifest.mf file inside the given package
// directory. The file may be strict JSON or YAML; both decode through the
// same YAML parser since YAML is a superset of JSON.
//
// Any failure is reported as a [*ReadError]. A failure is scoped to this one
// package directory; callers iterating over sibling directories are expected
// to continue.
func Read(dir string) (*Manifest, error) {
	m, _, err := ReadSource(dir)
	return m, err
}

// ReadSource behaves like [Read] but also returns the raw manifest bytes, so
// callers running further checks over the document, such as schema
// validation, work from the exact bytes that were parsed rather than reading
// the file a second time.
func ReadSource(dir string) (*Manifest, []byte, error) {
	path := filepath.Join(dir, Filename)

	info, err := os.Stat(path)
	if err != nil {
		return nil, nil, &ReadError{Path: path, Err: err}
	}
	if info.Size() > maxManifestSize {
		return nil, nil, &ReadError{Path: path, Err: fmt.Errorf("manifest exceeds maximum size of %d bytes", maxManifestSize)}
	}

	data, err := os.ReadFile(path) //#nosec G304 -- path constructed from a resolved package directory
	if err != nil {
		return nil, nil, &ReadError{Path: path, Err: err}
	}

	m, err := Parse(data, path)
	if err != nil {
		return nil, nil, err
	}
	return m, data, nil
}

// Parse decodes raw manifest content. path is used only for error reporting.
func Parse(data []byte, path string) (*Manifest, error) {
	// Decode loosely first to distinguish an empty/null document from a
	// document that merely fails to fit the typed structure.
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &ReadError{Path: path, Err: err}
	}
	if doc == nil {
		return nil, &ReadError{Path: path, Err: errors.New("manifest is empty")}
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, &ReadError{Path: path, Err: err}
	}

	return &m, nil
}
