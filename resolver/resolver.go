// SPDX-FileCopyrightText: Copyright 2026 Plugpack Authors
// SPDX-License-Identifier: Apache-2.0

package resolver

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/plugpack/plugpack-core/manifest"
)

// ErrNoPackages reports that resolution produced no package directories.
// Resolve itself returns an empty list without error; callers decide when
// emptiness is fatal and wrap this sentinel.
var ErrNoPackages = errors.New("no package directories found")

// Resolve returns the ordered list of package directories under root,
// following a strict precedence:
//
//  1. A concrete hint names a directory whose immediate subdirectories are
//     scanned for manifest.mf files (explicit multi-package layout).
//  2. Otherwise, if root itself directly contains manifest.mf, root is the
//     single package.
//  3. Otherwise root's immediate subdirectories are scanned (auto-detected
//     multi-package layout).
//
// An empty hint and a hint of "." both mean auto-detect; downstream tooling
// relies on that equivalence. Entries that are not directories are skipped
// silently. Only direct children are ever scanned: nested manifests and
// manifests behind symlinked directories are not discovered.
//
// The result order matches directory enumeration order (lexical), so
// repeated calls over the same filesystem state return the same list.
func Resolve(root, hint string) ([]string, error) {
	if hint != "" && hint != "." {
		return scanSubdirectories(filepath.Join(root, hint))
	}

	found, err := hasManifest(root)
	if err != nil {
		return nil, err
	}
	if found {
		return []string{root}, nil
	}

	return scanSubdirectories(root)
}

// scanSubdirectories returns the immediate subdirectories of dir that
// directly contain a manifest.mf file.
func scanSubdirectories(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", dir, err)
	}

	var dirs []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		sub := filepath.Join(dir, entry.Name())
		found, err := hasManifest(sub)
		if err != nil {
			return nil, err
		}
		if found {
			dirs = append(dirs, sub)
		}
	}

	return dirs, nil
}

// hasManifest reports whether dir directly contains a regular manifest.mf.
// A missing file is the expected negative case; any other stat failure, such
// as permission denied or a symlink loop, is a real I/O error and propagates.
func hasManifest(dir string) (bool, error) {
	path := filepath.Join(dir, manifest.Filename)
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("checking %s: %w", path, err)
	}
	return info.Mode().IsRegular(), nil
}
