// SPDX-FileCopyrightText: Copyright 2026 Plugpack Authors
// SPDX-License-Identifier: Apache-2.0

package action

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/plugpack/plugpack-core/env"
)

// WriteOutputs appends the action outputs to the file named by
// GITHUB_OUTPUT. When the variable is unset, for example during a local run,
// it does nothing.
//
// Outputs: valid-packages and invalid-packages (comma-separated directory
// base names), error-count, warning-count and archives (comma-separated
// archive paths).
func WriteOutputs(r env.Reader, s *Summary) error {
	path := r.Getenv("GITHUB_OUTPUT")
	if path == "" {
		return nil
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("failed to open output file: %w", err)
	}
	defer f.Close()

	outputs := []struct {
		name  string
		value string
	}{
		{"valid-packages", strings.Join(baseNames(s.ValidDirs), ",")},
		{"invalid-packages", strings.Join(baseNames(s.InvalidDirs), ",")},
		{"error-count", strconv.Itoa(s.ErrorCount)},
		{"warning-count", strconv.Itoa(s.WarningCount)},
		{"archives", strings.Join(s.Archives, ",")},
	}
	for _, o := range outputs {
		if _, err := fmt.Fprintf(f, "%s=%s\n", o.name, o.value); err != nil {
			return fmt.Errorf("failed to write output %s: %w", o.name, err)
		}
	}

	return nil
}

func baseNames(dirs []string) []string {
	names := make([]string, 0, len(dirs))
	for _, d := range dirs {
		names = append(names, filepath.Base(d))
	}
	return names
}
