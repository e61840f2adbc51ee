// SPDX-FileCopyrightText: Copyright 2026 Plugpack Authors
// SPDX-License-Identifier: Apache-2.0

package filter

import (
	"errors"
	"fmt"

	"github.com/google/cel-go/cel"

	"github.com/plugpack/plugpack-core/manifest"
)

// maxExpressionLength is the maximum allowed length for a filter expression.
const maxExpressionLength = 4096

// costLimit bounds filter evaluation cost.
const costLimit = 100000

// Sentinel errors for filter operations.
var (
	// ErrExpressionCheck is returned when an expression fails syntax or
	// type checking.
	ErrExpressionCheck = errors.New("filter expression check failed")

	// ErrEvaluation is returned when expression evaluation fails.
	ErrEvaluation = errors.New("filter expression evaluation failed")

	// ErrNotBool is returned when an expression does not evaluate to a
	// boolean.
	ErrNotBool = errors.New("filter expression must evaluate to a boolean")
)

// Filter is a compiled package-selection expression evaluated against
// manifest fields. It is safe for concurrent use.
//
// Expressions see these variables:
//
//	name      string       package name
//	version   string       package version
//	author    string       metadata author, empty when absent
//	tags      list(string) metadata tags
//	commands  list(string) command names in declaration order
//
// Example: `name.startsWith("ci-") && "stable" in tags`.
type Filter struct {
	source  string
	program cel.Program
}

// Compile parses and type-checks a filter expression.
func Compile(expr string) (*Filter, error) {
	if len(expr) > maxExpressionLength {
		return nil, fmt.Errorf("%w: expression length %d exceeds maximum of %d",
			ErrExpressionCheck, len(expr), maxExpressionLength)
	}

	env, err := cel.NewEnv(
		cel.Variable("name", cel.StringType),
		cel.Variable("version", cel.StringType),
		cel.Variable("author", cel.StringType),
		cel.Variable("tags", cel.ListType(cel.StringType)),
		cel.Variable("commands", cel.ListType(cel.StringType)),
	)
	if err != nil {
		return nil, fmt.Errorf("creating filter environment: %w", err)
	}

	ast, issues := env.Compile(expr)
	if issues.Err() != nil {
		return nil, fmt.Errorf("%w: %w", ErrExpressionCheck, issues.Err())
	}

	program, err := env.Program(ast, cel.CostLimit(costLimit))
	if err != nil {
		return nil, fmt.Errorf("creating filter program for %q: %w", expr, err)
	}

	return &Filter{source: expr, program: program}, nil
}

// Source returns the original expression source string.
func (f *Filter) Source() string {
	return f.source
}

// Matches evaluates the filter against a parsed manifest.
func (f *Filter) Matches(m *manifest.Manifest) (bool, error) {
	commands := make([]string, 0, len(m.Commands))
	for _, cmd := range m.Commands {
		commands = append(commands, cmd.Name)
	}

	var author string
	var tags []string
	if m.Metadata != nil {
		author = m.Metadata.Author
		tags = m.Metadata.Tags
	}
	if tags == nil {
		tags = []string{}
	}

	out, _, err := f.program.Eval(map[string]any{
		"name":     m.Name,
		"version":  m.Version,
		"author":   author,
		"tags":     tags,
		"commands": commands,
	})
	if err != nil {
		return false, fmt.Errorf("%w: %s", ErrEvaluation, err)
	}

	result, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("%w: got %T", ErrNotBool, out.Value())
	}
	return result, nil
}
