// SPDX-FileCopyrightText: Copyright 2026 Plugpack Authors
// SPDX-License-Identifier: Apache-2.0

package archive

import (
	"archive/zip"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"
)

// Extension is the archive file extension.
const Extension = ".pkg"

// Options configures archive creation.
type Options struct {
	// Epoch is the timestamp applied to every entry so builds are
	// reproducible.
	Epoch time.Time
}

// DefaultOptions returns default archive options.
// Respects SOURCE_DATE_EPOCH for reproducible builds.
func DefaultOptions() Options {
	epoch := time.Unix(0, 0).UTC()

	if sde := os.Getenv("SOURCE_DATE_EPOCH"); sde != "" {
		if ts, err := strconv.ParseInt(sde, 10, 64); err == nil {
			epoch = time.Unix(ts, 0).UTC()
		}
	}

	return Options{Epoch: epoch}
}

// Filename returns the archive file name for a package: <name>-<version>.pkg.
func Filename(name, version string) string {
	return name + "-" + version + Extension
}

// Result describes a created archive.
type Result struct {
	// Path is the location of the written archive.
	Path string

	// Files is the number of entries in the archive.
	Files int

	// Size is the archive size in bytes.
	Size int64
}

// Create writes a zip archive of dir's full contents to
// <outDir>/<name>-<version>.pkg. Entries are rooted at dir itself, with no
// extra wrapper folder, so extracting the archive reproduces the package
// directory in place.
//
// Entries are sorted and timestamped with the configured epoch so the same
// tree always produces byte-identical archives. Hidden files and directories
// are skipped; symlinks and other non-regular files are rejected.
//
// The hidden-file skip is a deliberate narrowing of the "full contents"
// packaging contract: CI checkouts carry .git directories and similar
// droppings that must never ship inside a package. Consumers cannot rely on
// dotfiles surviving packaging.
func Create(dir, outDir, name, version string, opts Options) (*Result, error) {
	files, err := collectFiles(dir)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("package directory %s contains no files", dir)
	}

	if err := os.MkdirAll(outDir, 0750); err != nil {
		return nil, fmt.Errorf("creating output directory %s: %w", outDir, err)
	}

	outPath := filepath.Join(outDir, Filename(name, version))
	out, err := os.Create(outPath) //#nosec G304 -- destination inside the configured output directory
	if err != nil {
		return nil, fmt.Errorf("creating archive %s: %w", outPath, err)
	}

	zw := zip.NewWriter(out)
	for _, rel := range files {
		if err := addEntry(zw, dir, rel, opts.Epoch); err != nil {
			zw.Close()
			out.Close()
			return nil, err
		}
	}

	if err := zw.Close(); err != nil {
		out.Close()
		return nil, fmt.Errorf("finalizing archive %s: %w", outPath, err)
	}
	if err := out.Close(); err != nil {
		return nil, fmt.Errorf("closing archive %s: %w", outPath, err)
	}

	info, err := os.Stat(outPath)
	if err != nil {
		return nil, fmt.Errorf("inspecting archive %s: %w", outPath, err)
	}

	return &Result{Path: outPath, Files: len(files), Size: info.Size()}, nil
}

// collectFiles walks dir and returns the sorted relative paths of every
// regular file to include.
func collectFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if path == dir {
			return nil
		}

		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return fmt.Errorf("getting relative path: %w", err)
		}
		rel = filepath.ToSlash(rel)

		// Skip hidden files/directories
		if strings.HasPrefix(filepath.Base(rel), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		// WalkDir follows symlinked directories silently; reject them.
		if d.Type()&os.ModeSymlink != 0 {
			return fmt.Errorf("symlinks not allowed in package directory: %s", rel)
		}
		if d.IsDir() {
			return nil
		}
		if !d.Type().IsRegular() {
			return fmt.Errorf("non-regular file not allowed in package directory: %s", rel)
		}

		files = append(files, rel)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking package directory: %w", err)
	}

	slices.Sort(files)
	return files, nil
}

// addEntry writes one file into the archive with a pinned timestamp.
func addEntry(zw *zip.Writer, dir, rel string, epoch time.Time) error {
	path := filepath.Join(dir, rel)

	info, err := os.Lstat(path)
	if err != nil {
		return fmt.Errorf("inspecting %s: %w", rel, err)
	}

	hdr := &zip.FileHeader{
		Name:     rel,
		Method:   zip.Deflate,
		Modified: epoch,
	}
	hdr.SetMode(info.Mode().Perm())

	w, err := zw.CreateHeader(hdr)
	if err != nil {
		return fmt.Errorf("adding %s: %w", rel, err)
	}

	f, err := os.Open(path) //#nosec G304 -- path from WalkDir, symlink-checked
	if err != nil {
		return fmt.Errorf("opening %s: %w", rel, err)
	}
	defer f.Close()

	if _, err := io.Copy(w, f); err != nil {
		return fmt.Errorf("writing %s: %w", rel, err)
	}

	return nil
}
