// SPDX-FileCopyrightText: Copyright 2026 Plugpack Authors
// SPDX-License-Identifier: Apache-2.0

/*
Package archive creates the distributable <name>-<version>.pkg zip archive
of a package directory.

Archives are reproducible: entries are sorted, their timestamps are pinned
to an epoch (honoring SOURCE_DATE_EPOCH), and entry contents are rooted at
the package directory itself so no wrapper folder appears on extraction.
*/
package archive
