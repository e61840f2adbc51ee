// SPDX-FileCopyrightText: Copyright 2026 Plugpack Authors
// SPDX-License-Identifier: Apache-2.0

/*
Package env provides an interface-based abstraction for environment variable
access, enabling dependency injection and testing isolation.

# Basic Usage

Use OSReader to read environment variables via the standard os package:

	reader := &env.OSReader{}
	value := reader.Getenv("GITHUB_OUTPUT")

GitHub Actions inputs are read through [Input], which applies the runner's
input-name-to-variable mapping:

	dir := env.Input(reader, "packages-directory") // reads INPUT_PACKAGES-DIRECTORY

# Testing

The Reader interface allows substituting [MapReader] in tests to avoid
mutating the real process environment:

	reader := env.MapReader{"INPUT_VALIDATE-ONLY": "true"}
	cfg, err := action.ConfigFromEnv(reader)
*/
package env
