// SPDX-FileCopyrightText: Copyright 2026 Plugpack Authors
// SPDX-License-Identifier: Apache-2.0

/*
Package release creates one GitHub release per packaged plugin.

Releases are tagged package_<name>_<version> and carry the package's .pkg
archive as their asset. An existing release for the same tag fails the
package unless force is enabled, in which case it is deleted and recreated.

The [Publisher] interface keeps the orchestration testable; a generated mock
is available in the mocks sub-package.
*/
package release
