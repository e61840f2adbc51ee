// SPDX-FileCopyrightText: Copyright 2026 Plugpack Authors
// SPDX-License-Identifier: Apache-2.0

package action

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/opencontainers/go-digest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/plugpack/plugpack-core/logging"
	"github.com/plugpack/plugpack-core/manifest"
	"github.com/plugpack/plugpack-core/ociplugin"
	ocimocks "github.com/plugpack/plugpack-core/ociplugin/mocks"
	"github.com/plugpack/plugpack-core/release"
	relmocks "github.com/plugpack/plugpack-core/release/mocks"
	"github.com/plugpack/plugpack-core/resolver"
)

func testDeps() Deps {
	return Deps{Logger: logging.New(logging.WithOutput(io.Discard))}
}

func writePackage(t *testing.T, root, dir, contents string) string {
	t.Helper()
	pkgDir := filepath.Join(root, dir)
	require.NoError(t, os.MkdirAll(pkgDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(pkgDir, manifest.Filename), []byte(contents), 0644))
	return pkgDir
}

const validAlpha = `{
  "name": "alpha",
  "version": "1.0.0",
  "commands": [{"name": "run", "type": "executable", "executable": "bin/run"}]
}`

const validBeta = `{
  "name": "beta",
  "version": "2.0.0",
  "commands": [{"name": "run", "type": "executable", "executable": "bin/run"}]
}`

func TestRun_ValidateOnly(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writePackage(t, root, "alpha", validAlpha)
	writePackage(t, root, "beta", validBeta)

	cfg := &Config{Root: root, ValidateOnly: true, OutputDir: t.TempDir()}
	summary, err := Run(context.Background(), cfg, testDeps())
	require.NoError(t, err)

	assert.False(t, summary.Failed())
	assert.Len(t, summary.ValidDirs, 2)
	assert.Empty(t, summary.InvalidDirs)
	assert.Empty(t, summary.Archives, "validate-only must not create archives")
	assert.Equal(t, 0, summary.ErrorCount)
}

func TestRun_ArchivesValidPackages(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writePackage(t, root, "alpha", validAlpha)
	outDir := t.TempDir()

	cfg := &Config{Root: root, OutputDir: outDir}
	summary, err := Run(context.Background(), cfg, testDeps())
	require.NoError(t, err)

	require.Len(t, summary.Archives, 1)
	assert.Equal(t, filepath.Join(outDir, "alpha-1.0.0.pkg"), summary.Archives[0])
	assert.FileExists(t, summary.Archives[0])
}

func TestRun_InvalidSiblingDoesNotStopBatch(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writePackage(t, root, "alpha", validAlpha)
	writePackage(t, root, "broken", `{"name": "Broken_Name", "version": "v1.0.0", "commands": []}`)

	cfg := &Config{Root: root, OutputDir: t.TempDir()}
	summary, err := Run(context.Background(), cfg, testDeps())
	require.NoError(t, err)

	assert.True(t, summary.Failed())
	assert.Equal(t, []string{filepath.Join(root, "alpha")}, summary.ValidDirs)
	assert.Equal(t, []string{filepath.Join(root, "broken")}, summary.InvalidDirs)
	// Invalid name, v-prefixed version and empty commands: three errors.
	assert.Equal(t, 3, summary.ErrorCount)
	// The valid sibling was still archived.
	assert.Len(t, summary.Archives, 1)
}

func TestRun_UnreadableManifestRecorded(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writePackage(t, root, "garbled", `{"name": "x",`)

	cfg := &Config{Root: root, OutputDir: t.TempDir()}
	summary, err := Run(context.Background(), cfg, testDeps())
	require.NoError(t, err)

	assert.True(t, summary.Failed())
	require.Len(t, summary.Reports, 1)
	var readErr *manifest.ReadError
	require.ErrorAs(t, summary.Reports[0].ReadErr, &readErr)
	assert.Equal(t, 1, summary.ErrorCount)
}

func TestRun_NoPackages(t *testing.T) {
	t.Parallel()

	cfg := &Config{Root: t.TempDir(), OutputDir: t.TempDir()}
	_, err := Run(context.Background(), cfg, testDeps())
	assert.ErrorIs(t, err, resolver.ErrNoPackages)
}

func TestRun_InvalidFilterIsFatal(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writePackage(t, root, "alpha", validAlpha)

	cfg := &Config{Root: root, OutputDir: t.TempDir(), Filter: "name =="}
	_, err := Run(context.Background(), cfg, testDeps())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid filter expression")
}

func TestRun_FilterExcludesPackage(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writePackage(t, root, "alpha", validAlpha)
	writePackage(t, root, "beta", validBeta)

	cfg := &Config{Root: root, OutputDir: t.TempDir(), Filter: `name == "alpha"`}
	summary, err := Run(context.Background(), cfg, testDeps())
	require.NoError(t, err)

	assert.False(t, summary.Failed())
	// Filtered packages stay valid but produce no side effects.
	assert.Len(t, summary.ValidDirs, 2)
	require.Len(t, summary.Archives, 1)
	assert.Contains(t, summary.Archives[0], "alpha-1.0.0.pkg")

	for _, r := range summary.Reports {
		if r.Manifest.Name == "beta" {
			assert.True(t, r.Filtered)
			assert.Empty(t, r.ArchivePath)
		}
	}
}

func TestRun_FilterEvaluationFailure(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writePackage(t, root, "alpha", validAlpha)

	// Compiles cleanly but fails at runtime: alpha has no tags to index.
	cfg := &Config{Root: root, OutputDir: t.TempDir(), Filter: `tags[0] == "stable"`}
	summary, err := Run(context.Background(), cfg, testDeps())
	require.NoError(t, err)

	assert.True(t, summary.Failed())
	require.Len(t, summary.Reports, 1)
	require.Error(t, summary.Reports[0].ProcessErr)
	assert.Empty(t, summary.Reports[0].Result.Errors)
	assert.Empty(t, summary.Archives)
}

func TestRun_PushAndRelease(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writePackage(t, root, "alpha", validAlpha)

	ctrl := gomock.NewController(t)
	packager := ocimocks.NewMockPluginPackager(ctrl)
	registry := ocimocks.NewMockRegistryClient(ctrl)
	publisher := relmocks.NewMockPublisher(ctrl)

	d := digest.FromString("manifest")
	packager.EXPECT().
		Package(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(&ociplugin.PackageResult{ManifestDigest: d}, nil)
	registry.EXPECT().
		Push(gomock.Any(), gomock.Any(), d, "ghcr.io/myorg/plugins/alpha:1.0.0").
		Return(nil)
	publisher.EXPECT().
		Publish(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, spec release.Spec) (*release.Release, error) {
			assert.Equal(t, "alpha", spec.Name)
			assert.Equal(t, "1.0.0", spec.Version)
			assert.FileExists(t, spec.ArchivePath)
			return &release.Release{Tag: release.Tag(spec.Name, spec.Version)}, nil
		})

	cfg := &Config{
		Root:           root,
		OutputDir:      t.TempDir(),
		Push:           true,
		Registry:       "ghcr.io",
		Repository:     "myorg/plugins",
		CreateReleases: true,
		GitHubToken:    "test-token",
		ReleaseOwner:   "myorg",
		ReleaseRepo:    "plugins",
	}
	deps := testDeps()
	deps.Packager = packager
	deps.Registry = registry
	deps.Publisher = publisher

	summary, err := Run(context.Background(), cfg, deps)
	require.NoError(t, err)

	assert.False(t, summary.Failed())
	require.Len(t, summary.Reports, 1)
	assert.Equal(t, "ghcr.io/myorg/plugins/alpha:1.0.0", summary.Reports[0].PushedRef)
	require.NotNil(t, summary.Reports[0].Release)
	assert.Equal(t, "package_alpha_1.0.0", summary.Reports[0].Release.Tag)
}

func TestRun_PushFailureMarksPackageInvalid(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writePackage(t, root, "alpha", validAlpha)
	writePackage(t, root, "beta", validBeta)

	ctrl := gomock.NewController(t)
	packager := ocimocks.NewMockPluginPackager(ctrl)
	registry := ocimocks.NewMockRegistryClient(ctrl)

	packager.EXPECT().
		Package(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(&ociplugin.PackageResult{ManifestDigest: digest.FromString("m")}, nil).
		Times(2)
	registry.EXPECT().
		Push(gomock.Any(), gomock.Any(), gomock.Any(), "ghcr.io/myorg/plugins/alpha:1.0.0").
		Return(assert.AnError)
	registry.EXPECT().
		Push(gomock.Any(), gomock.Any(), gomock.Any(), "ghcr.io/myorg/plugins/beta:2.0.0").
		Return(nil)

	cfg := &Config{
		Root:       root,
		OutputDir:  t.TempDir(),
		Push:       true,
		Registry:   "ghcr.io",
		Repository: "myorg/plugins",
	}
	deps := testDeps()
	deps.Packager = packager
	deps.Registry = registry

	summary, err := Run(context.Background(), cfg, deps)
	require.NoError(t, err)

	// The failed push marks alpha invalid; beta is still pushed.
	assert.True(t, summary.Failed())
	assert.Equal(t, []string{filepath.Join(root, "beta")}, summary.ValidDirs)
	assert.Equal(t, []string{filepath.Join(root, "alpha")}, summary.InvalidDirs)
	assert.Equal(t, 1, summary.ErrorCount)

	// The failure lands in ProcessErr; the clean validation result stays
	// untouched.
	for _, r := range summary.Reports {
		if r.Manifest.Name == "alpha" {
			require.Error(t, r.ProcessErr)
			assert.ErrorIs(t, r.ProcessErr, assert.AnError)
			assert.Empty(t, r.Result.Errors)
			assert.True(t, r.Valid(), "manifest validity is independent of processing")
		}
	}
}

func TestRun_StrictValidManifest(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writePackage(t, root, "alpha", validAlpha)

	cfg := &Config{Root: root, Strict: true, ValidateOnly: true, OutputDir: t.TempDir()}
	summary, err := Run(context.Background(), cfg, testDeps())
	require.NoError(t, err)
	assert.False(t, summary.Failed())
}

// A flag shorthand longer than one character passes the rule set but not the
// JSON Schema, so only strict mode rejects it.
func TestRun_StrictCatchesSchemaOnlyDefect(t *testing.T) {
	t.Parallel()

	const longShorthand = `{
  "name": "alpha",
  "version": "1.0.0",
  "commands": [{
    "name": "run",
    "type": "executable",
    "executable": "bin/run",
    "flags": [{"name": "verbose", "short": "vv"}]
  }]
}`

	for _, strict := range []bool{false, true} {
		root := t.TempDir()
		writePackage(t, root, "alpha", longShorthand)

		cfg := &Config{Root: root, Strict: strict, ValidateOnly: true, OutputDir: t.TempDir()}
		summary, err := Run(context.Background(), cfg, testDeps())
		require.NoError(t, err)
		assert.Equal(t, strict, summary.Failed(), "strict=%v", strict)
	}
}

func TestRun_PackagesDirectoryHint(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writePackage(t, root, filepath.Join("plugins", "alpha"), validAlpha)
	// A manifest at the root would normally win; the hint overrides it.
	require.NoError(t, os.WriteFile(filepath.Join(root, manifest.Filename), []byte(validBeta), 0644))

	cfg := &Config{Root: root, PackagesDir: "plugins", ValidateOnly: true, OutputDir: t.TempDir()}
	summary, err := Run(context.Background(), cfg, testDeps())
	require.NoError(t, err)

	require.Len(t, summary.ValidDirs, 1)
	assert.Equal(t, filepath.Join(root, "plugins", "alpha"), summary.ValidDirs[0])
}
