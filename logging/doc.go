// SPDX-FileCopyrightText: Copyright 2026 Plugpack Authors
// SPDX-License-Identifier: Apache-2.0

/*
Package logging provides a pre-configured [log/slog.Logger] factory with
consistent defaults for the plugpack components.

Every component receives its logger explicitly; there is no package-level
singleton. This keeps the validation and packaging code testable with a
no-op or capturing logger.

# Defaults

  - Format: text ([FormatText]) via [log/slog.TextHandler]
  - Level: INFO ([log/slog.LevelInfo])
  - Output: [os.Stderr]
  - Timestamps: [time.RFC3339]

# Basic Usage

	logger := logging.New()
	logger.Info("resolved packages", "count", 3)

# GitHub Actions Annotations

When running inside a workflow job, use [FormatActions] so warnings and
errors become run annotations:

	logger := logging.New(logging.WithFormat(logging.FormatActions))
	logger.Error("manifest invalid", "dir", "plugin-a")
	// emits: ::error::manifest invalid dir=plugin-a

# Testing

Inject a buffer to capture log output in tests:

	var buf bytes.Buffer
	logger := logging.New(logging.WithOutput(&buf))
*/
package logging
