// SPDX-FileCopyrightText: Copyright 2026 Plugpack Authors
// SPDX-License-Identifier: Apache-2.0

// The plugpack-action binary is the entry point of the packaging action. It
// reads its configuration from GitHub Actions inputs, with flags available
// for local runs, validates and packages every plugin directory, and exits
// non-zero when any package fails.
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/plugpack/plugpack-core/action"
	"github.com/plugpack/plugpack-core/env"
	"github.com/plugpack/plugpack-core/logging"
	"github.com/plugpack/plugpack-core/ociplugin"
	"github.com/plugpack/plugpack-core/release"
)

// errBatchFailed signals a run that completed but found invalid packages.
var errBatchFailed = errors.New("one or more packages failed validation")

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if !errors.Is(err, errBatchFailed) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var flags struct {
		root         string
		packagesDir  string
		validateOnly bool
		strict       bool
		filterExpr   string
		outputDir    string
		push         bool
		registry     string
		repository   string
		plainHTTP    bool
		debug        bool
	}

	cmd := &cobra.Command{
		Use:   "plugpack-action",
		Short: "Validate, package and publish plugin packages",
		Long: `plugpack-action validates plugin manifests, packages each plugin
directory into a versioned archive, and optionally pushes the result to an
OCI registry and creates per-package GitHub releases.

Inside GitHub Actions all settings come from INPUT_* variables; the flags
below override them for local use.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			reader := &env.OSReader{}
			cfg, err := action.ConfigFromEnv(reader)
			if err != nil {
				return err
			}

			f := cmd.Flags()
			if f.Changed("root") {
				cfg.Root = flags.root
			}
			if f.Changed("packages-directory") {
				cfg.PackagesDir = flags.packagesDir
			}
			if f.Changed("validate-only") {
				cfg.ValidateOnly = flags.validateOnly
			}
			if f.Changed("strict") {
				cfg.Strict = flags.strict
			}
			if f.Changed("filter") {
				cfg.Filter = flags.filterExpr
			}
			if f.Changed("output-directory") {
				cfg.OutputDir = flags.outputDir
			}
			if f.Changed("push") {
				cfg.Push = flags.push
			}
			if f.Changed("registry") {
				cfg.Registry = flags.registry
			}
			if f.Changed("repository") {
				cfg.Repository = flags.repository
			}
			if f.Changed("plain-http") {
				cfg.PlainHTTP = flags.plainHTTP
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			logger := newLogger(reader, flags.debug)
			deps, err := buildDeps(cfg, logger)
			if err != nil {
				return err
			}

			summary, err := action.Run(cmd.Context(), cfg, deps)
			if err != nil {
				return err
			}
			if err := action.WriteOutputs(reader, summary); err != nil {
				return err
			}
			if summary.Failed() {
				return errBatchFailed
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&flags.root, "root", ".", "repository root to operate on")
	cmd.Flags().StringVar(&flags.packagesDir, "packages-directory", "", "directory containing package directories (default: auto-detect)")
	cmd.Flags().BoolVar(&flags.validateOnly, "validate-only", false, "validate manifests without creating archives")
	cmd.Flags().BoolVar(&flags.strict, "strict", false, "additionally validate manifests against the JSON Schema")
	cmd.Flags().StringVar(&flags.filterExpr, "filter", "", "CEL expression selecting which packages to process")
	cmd.Flags().StringVar(&flags.outputDir, "output-directory", "dist", "directory receiving the created archives")
	cmd.Flags().BoolVar(&flags.push, "push", false, "push packaged artifacts to the OCI registry")
	cmd.Flags().StringVar(&flags.registry, "registry", "", "OCI registry host, e.g. ghcr.io")
	cmd.Flags().StringVar(&flags.repository, "repository", "", "repository path under the registry, e.g. myorg/plugins")
	cmd.Flags().BoolVar(&flags.plainHTTP, "plain-http", false, "use plain HTTP for registry connections")
	cmd.Flags().BoolVar(&flags.debug, "debug", false, "enable debug logging")

	return cmd
}

// newLogger picks the log format: workflow commands inside a runner, text
// locally.
func newLogger(r env.Reader, debug bool) *slog.Logger {
	opts := []logging.Option{}
	if r.Getenv("GITHUB_ACTIONS") == "true" {
		opts = append(opts, logging.WithFormat(logging.FormatActions))
	}
	if debug || r.Getenv("RUNNER_DEBUG") == "1" {
		opts = append(opts, logging.WithLevel(slog.LevelDebug))
	}
	return logging.New(opts...)
}

// buildDeps constructs the push and release collaborators the configuration
// calls for. The OCI staging store lives under RUNNER_TEMP when available.
func buildDeps(cfg *action.Config, logger *slog.Logger) (action.Deps, error) {
	deps := action.Deps{Logger: logger}

	if cfg.Push {
		root := ociplugin.DefaultStoreRoot()
		if tmp := os.Getenv("RUNNER_TEMP"); tmp != "" {
			root = ociplugin.StoreRoot(tmp)
		}
		store, err := ociplugin.NewStore(root)
		if err != nil {
			return deps, fmt.Errorf("failed to open local artifact store: %w", err)
		}
		deps.Store = store
		deps.Packager = ociplugin.NewPackager(store)

		opts := []ociplugin.RegistryOption{ociplugin.WithPlainHTTP(cfg.PlainHTTP)}
		if cfg.RegistryUsername != "" || cfg.RegistryPassword != "" {
			opts = append(opts, ociplugin.WithStaticCredentials(cfg.RegistryUsername, cfg.RegistryPassword))
		}
		reg, err := ociplugin.NewRegistry(opts...)
		if err != nil {
			return deps, fmt.Errorf("failed to configure registry client: %w", err)
		}
		deps.Registry = reg
	}

	if cfg.CreateReleases {
		var relOpts []release.Option
		if cfg.Force {
			relOpts = append(relOpts, release.WithForce(true))
		}
		pub, err := release.NewGitHubPublisher(cfg.GitHubToken, cfg.ReleaseOwner, cfg.ReleaseRepo, relOpts...)
		if err != nil {
			return deps, fmt.Errorf("failed to configure release publisher: %w", err)
		}
		deps.Publisher = pub
	}

	return deps, nil
}
