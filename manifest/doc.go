// SPDX-FileCopyrightText: Copyright 2026 Plugpack Authors
// SPDX-License-Identifier: Apache-2.0

/*
Package manifest defines the plugin manifest document and its validation
rules.

A package directory declares itself with a manifest.mf file describing the
plugin's name, version, and the commands it provides. The file may be written
as strict JSON or as YAML (a comment-tolerant superset of JSON); either way
it is decoded into the typed [Manifest] immediately after reading.

[Read] loads and parses a manifest from a package directory, reporting any
problem as a [*ReadError]. [Validate] is a pure function applying a fixed,
ordered rule set and returning a [ValidationResult]; it never fails, it
reports. [ValidateSchema] offers an additional structural check against an
embedded JSON Schema for strict mode.
*/
package manifest
