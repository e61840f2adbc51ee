// SPDX-FileCopyrightText: Copyright 2026 Plugpack Authors
// SPDX-License-Identifier: Apache-2.0

// Package action orchestrates one run of the packaging action: resolve the
// package directories, validate every manifest, then archive, push and
// release the valid packages.
package action

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/plugpack/plugpack-core/archive"
	"github.com/plugpack/plugpack-core/filter"
	"github.com/plugpack/plugpack-core/manifest"
	"github.com/plugpack/plugpack-core/ociplugin"
	"github.com/plugpack/plugpack-core/release"
	"github.com/plugpack/plugpack-core/resolver"
)

// Deps carries the collaborators Run needs. Logger is required; Store,
// Registry and Publisher are required only when the configuration enables
// pushing or releases.
type Deps struct {
	Logger *slog.Logger

	// Store is the local OCI layout used as the push staging area.
	Store *ociplugin.Store

	Packager  ociplugin.PluginPackager
	Registry  ociplugin.RegistryClient
	Publisher release.Publisher
}

// DirReport records the outcome for one package directory. Exactly one of
// ReadErr or Result is set once the directory has been examined.
type DirReport struct {
	Dir string

	// Manifest is the parsed manifest, nil when reading failed.
	Manifest *manifest.Manifest

	// ReadErr is set when the manifest could not be read or parsed.
	ReadErr error

	// Result holds the validation outcome when the manifest was readable.
	Result *manifest.ValidationResult

	// Filtered marks a valid package excluded by the filter expression.
	Filtered bool

	// ProcessErr records a side-effect failure (filter evaluation,
	// archiving, push or release) for an otherwise valid manifest. It is
	// kept apart from Result so validation rule violations and processing
	// failures never mix.
	ProcessErr error

	// ArchivePath is the created archive, empty in validate-only mode.
	ArchivePath string

	// PushedRef is the remote reference the artifact was tagged with.
	PushedRef string

	// Release is the created GitHub release, if any.
	Release *release.Release
}

// Valid reports whether the directory's manifest read and validated cleanly.
func (r *DirReport) Valid() bool {
	return r.ReadErr == nil && r.Result != nil && r.Result.Valid()
}

// Summary aggregates a whole run.
type Summary struct {
	Reports []DirReport

	// ValidDirs and InvalidDirs partition the examined directories in
	// resolution order. Filtered packages count as valid; a package whose
	// processing failed counts as invalid even though its manifest is
	// clean.
	ValidDirs   []string
	InvalidDirs []string

	// Archives lists the created archive paths in resolution order.
	Archives []string

	ErrorCount   int
	WarningCount int
}

// Failed reports whether the batch as a whole failed. Every directory is
// always examined first; a single invalid package fails the run only after
// its siblings have been fully evaluated.
func (s *Summary) Failed() bool {
	return len(s.InvalidDirs) > 0
}

// Run executes the action. It returns an error only for conditions that
// prevent the batch from running at all (no package directories, an
// unparseable filter expression); per-directory failures are recorded in the
// Summary and reported through Failed.
func Run(ctx context.Context, cfg *Config, deps Deps) (*Summary, error) {
	log := deps.Logger

	dirs, err := resolver.Resolve(cfg.Root, cfg.PackagesDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve package directories: %w", err)
	}
	if len(dirs) == 0 {
		return nil, fmt.Errorf("%w under %s", resolver.ErrNoPackages, cfg.Root)
	}

	var flt *filter.Filter
	if cfg.Filter != "" {
		flt, err = filter.Compile(cfg.Filter)
		if err != nil {
			return nil, fmt.Errorf("invalid filter expression: %w", err)
		}
	}

	log.Info("resolved package directories", "count", len(dirs))

	summary := &Summary{}
	for _, dir := range dirs {
		report := examineDir(cfg, dir, log)
		if report.Valid() && flt != nil {
			matched, err := flt.Matches(report.Manifest)
			if err != nil {
				report.ProcessErr = fmt.Errorf("filter evaluation failed for %s: %w", report.Manifest.Name, err)
				log.Error(report.ProcessErr.Error(), "dir", dir)
			} else if !matched {
				report.Filtered = true
				log.Info("package excluded by filter", "dir", dir, "name", report.Manifest.Name)
			}
		}

		if report.Valid() && report.ProcessErr == nil && !report.Filtered && !cfg.ValidateOnly {
			if err := processPackage(ctx, cfg, deps, report); err != nil {
				report.ProcessErr = err
				log.Error(err.Error(), "dir", dir)
			}
		}

		if report.Valid() && report.ProcessErr == nil {
			summary.ValidDirs = append(summary.ValidDirs, report.Dir)
		} else {
			summary.InvalidDirs = append(summary.InvalidDirs, report.Dir)
		}
		if report.ArchivePath != "" {
			summary.Archives = append(summary.Archives, report.ArchivePath)
		}
		if report.Result != nil {
			summary.ErrorCount += len(report.Result.Errors)
			summary.WarningCount += len(report.Result.Warnings)
		}
		if report.ReadErr != nil || report.ProcessErr != nil {
			summary.ErrorCount++
		}
		summary.Reports = append(summary.Reports, *report)
	}

	logSummary(log, summary)
	return summary, nil
}

// examineDir reads and validates one package directory, logging every error
// and warning on its own line.
func examineDir(cfg *Config, dir string, log *slog.Logger) *DirReport {
	report := &DirReport{Dir: dir}

	m, raw, err := manifest.ReadSource(dir)
	if err != nil {
		report.ReadErr = err
		log.Error(err.Error(), "dir", dir)
		return report
	}
	report.Manifest = m

	result := manifest.Validate(m)
	if cfg.Strict {
		// Schema-check the same bytes the manifest was parsed from.
		if err := manifest.ValidateSchema(raw); err != nil {
			result.Errors = append(result.Errors, err.Error())
		}
	}
	report.Result = &result

	log.Info("validated manifest",
		"dir", dir,
		"name", m.Name,
		"version", m.Version,
		"commands", len(m.Commands),
		"errors", len(result.Errors),
		"warnings", len(result.Warnings))
	for _, e := range result.Errors {
		log.Error(e, "dir", dir)
	}
	for _, w := range result.Warnings {
		log.Warn(w, "dir", dir)
	}

	return report
}

// processPackage runs the side effects for one valid package: archive it,
// then optionally push it to the registry and create its release.
func processPackage(ctx context.Context, cfg *Config, deps Deps, report *DirReport) error {
	m := report.Manifest
	log := deps.Logger

	res, err := archive.Create(report.Dir, cfg.OutputDir, m.Name, m.Version, archive.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to archive package %s: %w", m.Name, err)
	}
	report.ArchivePath = res.Path
	log.Info("created archive", "path", res.Path, "files", res.Files, "size", res.Size)

	if cfg.Push {
		pkgRes, err := deps.Packager.Package(ctx, m, res.Path, ociplugin.DefaultPackageOptions())
		if err != nil {
			return fmt.Errorf("failed to package %s as OCI artifact: %w", m.Name, err)
		}
		ref := cfg.PushRef(m.Name, m.Version)
		if err := deps.Registry.Push(ctx, deps.Store, pkgRes.ManifestDigest, ref); err != nil {
			return fmt.Errorf("failed to push %s: %w", ref, err)
		}
		report.PushedRef = ref
		log.Info("pushed artifact", "ref", ref, "digest", pkgRes.ManifestDigest)
	}

	if cfg.CreateReleases {
		rel, err := deps.Publisher.Publish(ctx, release.Spec{
			Name:        m.Name,
			Version:     m.Version,
			ArchivePath: res.Path,
			Notes:       releaseNotes(m),
		})
		if err != nil {
			return fmt.Errorf("failed to create release for %s: %w", m.Name, err)
		}
		report.Release = rel
		log.Info("created release", "tag", rel.Tag, "url", rel.URL)
	}

	return nil
}

// releaseNotes builds a short release body from the manifest metadata.
func releaseNotes(m *manifest.Manifest) string {
	notes := fmt.Sprintf("%s %s", m.Name, m.Version)
	if m.Metadata != nil && m.Metadata.Description != "" {
		notes += "\n\n" + m.Metadata.Description
	}
	return notes
}

// logSummary emits the final report. Invalid directories are listed again by
// name so a failed run states exactly which packages to fix.
func logSummary(log *slog.Logger, s *Summary) {
	log.Info("run complete",
		"total", len(s.Reports),
		"valid", len(s.ValidDirs),
		"invalid", len(s.InvalidDirs),
		"errors", s.ErrorCount,
		"warnings", s.WarningCount)
	if s.Failed() {
		for _, dir := range s.InvalidDirs {
			log.Error("package failed validation", "dir", dir)
		}
	}
}
