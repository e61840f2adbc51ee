// SPDX-FileCopyrightText: Copyright 2026 Plugpack Authors
// SPDX-License-Identifier: Apache-2.0

/*
Package filter selects packages with CEL expressions evaluated against
manifest fields.

The action's filter input compiles once per run and is applied to every
resolved (and valid) package. An empty filter input means "process
everything"; callers handle that case and never compile an empty expression.

	f, err := filter.Compile(`name.startsWith("ci-") && "stable" in tags`)
	ok, err := f.Matches(m)

Compilation enforces an expression length limit and evaluation runs under a
cost limit, so untrusted workflow inputs cannot wedge the run.
*/
package filter
