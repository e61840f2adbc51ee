// SPDX-FileCopyrightText: Copyright 2026 Plugpack Authors
// SPDX-License-Identifier: Apache-2.0

/*
Package ociplugin stores plugin package archives as OCI artifacts and pushes
them to remote registries.

A plugin artifact is a single OCI manifest (plugins are platform independent,
so there is no image index): one zip layer holding the <name>-<version>.pkg
archive and a config blob carrying the plugin's parsed manifest metadata.
[Packager] builds artifacts into a local [Store] backed by an OCI image
layout; [Registry] copies them to a remote repository and tags them
<name>:<version>.
*/
package ociplugin
