// SPDX-FileCopyrightText: Copyright 2026 Plugpack Authors
// SPDX-License-Identifier: Apache-2.0

package env

import (
	"os"
	"strings"
)

// Reader defines an interface for environment variable access
type Reader interface {
	Getenv(key string) string
}

// OSReader implements Reader using the standard os package
type OSReader struct{}

// Getenv returns the value of the environment variable named by the key
func (*OSReader) Getenv(key string) string {
	return os.Getenv(key)
}

// MapReader implements Reader over a fixed map. Intended for tests.
type MapReader map[string]string

// Getenv returns the mapped value, or the empty string when absent.
func (m MapReader) Getenv(key string) string {
	return m[key]
}

// Input returns the value of a GitHub Actions input. The runner exposes an
// input named "packages-directory" as the variable INPUT_PACKAGES-DIRECTORY:
// the name is uppercased and spaces are replaced by underscores, but hyphens
// are preserved.
func Input(r Reader, name string) string {
	key := "INPUT_" + strings.ToUpper(strings.ReplaceAll(name, " ", "_"))
	return r.Getenv(key)
}
