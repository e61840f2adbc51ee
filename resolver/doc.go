// SPDX-FileCopyrightText: Copyright 2026 Plugpack Authors
// SPDX-License-Identifier: Apache-2.0

/*
Package resolver decides which directories of a repository represent
installable packages.

A package directory is any directory directly containing a manifest.mf file.
[Resolve] applies a strict three-step precedence over a configured directory
hint: explicit directory scan, root-manifest single-package detection, then
root subdirectory scan.

Known limitation: discovery never recurses. A manifest two levels deep, or
one reachable only through a symlinked directory, is intentionally not found.
*/
package resolver
