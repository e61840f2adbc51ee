// SPDX-FileCopyrightText: Copyright 2026 Plugpack Authors
// SPDX-License-Identifier: Apache-2.0

package ociplugin

import (
	"context"
	"fmt"

	"github.com/opencontainers/go-digest"
	"oras.land/oras-go/v2"
	"oras.land/oras-go/v2/registry"
	"oras.land/oras-go/v2/registry/remote"
	"oras.land/oras-go/v2/registry/remote/auth"
	"oras.land/oras-go/v2/registry/remote/credentials"
)

// Compile-time interface check.
var _ RegistryClient = (*Registry)(nil)

// Registry pushes plugin artifacts to remote OCI registries.
type Registry struct {
	credStore credentials.Store
	username  string
	password  string
	plainHTTP bool

	// newTarget creates an oras.Target for the given reference.
	// Defaults to creating an authenticated remote.Repository.
	// Override in tests to inject an in-memory store.
	newTarget func(ref registry.Reference) (oras.Target, error)
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithPlainHTTP configures whether the registry client uses plain HTTP
// (insecure) connections.
func WithPlainHTTP(enabled bool) RegistryOption {
	return func(r *Registry) {
		r.plainHTTP = enabled
	}
}

// WithStaticCredentials authenticates every push with the given username and
// password (or token), as supplied by CI secrets. When set, the Docker
// credential store is not consulted.
func WithStaticCredentials(username, password string) RegistryOption {
	return func(r *Registry) {
		r.username = username
		r.password = password
	}
}

// WithCredentialStore sets a custom credential store for registry
// authentication. If neither this nor static credentials are provided, the
// default Docker credential store is used.
func WithCredentialStore(store credentials.Store) RegistryOption {
	return func(r *Registry) {
		r.credStore = store
	}
}

// NewRegistry creates a new registry client with the given options.
func NewRegistry(opts ...RegistryOption) (*Registry, error) {
	r := &Registry{}

	for _, opt := range opts {
		opt(r)
	}

	if r.credStore == nil && r.username == "" {
		credStore, err := credentials.NewStoreFromDocker(credentials.StoreOptions{})
		if err != nil {
			return nil, fmt.Errorf("creating credential store: %w", err)
		}
		r.credStore = credStore
	}

	if r.newTarget == nil {
		r.newTarget = r.defaultNewTarget
	}

	return r, nil
}

// Push pushes a plugin artifact from the local store to a remote registry
// and tags it with the reference's tag. There are no retries: a failed push
// fails the package it belongs to.
func (r *Registry) Push(ctx context.Context, store *Store, manifestDigest digest.Digest, ref string) error {
	parsedRef, err := parseReference(ref)
	if err != nil {
		return err
	}

	// Resolve the artifact to get its full descriptor from the local store.
	desc, err := store.Target().Resolve(ctx, manifestDigest.String())
	if err != nil {
		return fmt.Errorf("resolving artifact descriptor: %w", err)
	}

	target, err := r.newTarget(parsedRef)
	if err != nil {
		return fmt.Errorf("getting repository: %w", err)
	}

	// Copy the content graph (blobs then manifest) to the remote.
	if err := oras.CopyGraph(ctx, store.Target(), target, desc, oras.DefaultCopyGraphOptions); err != nil {
		return fmt.Errorf("pushing to registry: %w", err)
	}

	if err := target.Tag(ctx, desc, parsedRef.Reference); err != nil {
		return fmt.Errorf("tagging remote: %w", err)
	}

	return nil
}

// parseReference parses an OCI reference and validates it has a tag or
// digest.
func parseReference(ref string) (registry.Reference, error) {
	parsedRef, err := registry.ParseReference(ref)
	if err != nil {
		return registry.Reference{}, fmt.Errorf("parsing reference %q: %w", ref, err)
	}
	if parsedRef.Reference == "" {
		return registry.Reference{}, fmt.Errorf("reference %q must include a tag or digest", ref)
	}
	return parsedRef, nil
}

// defaultNewTarget creates a remote repository client for the given parsed
// reference.
func (r *Registry) defaultNewTarget(ref registry.Reference) (oras.Target, error) {
	repoPath := ref.Registry + "/" + ref.Repository

	repo, err := remote.NewRepository(repoPath)
	if err != nil {
		return nil, fmt.Errorf("creating repository for %q: %w", repoPath, err)
	}

	repo.Client = &auth.Client{
		Credential: r.credential(ref.Registry),
	}
	repo.PlainHTTP = r.plainHTTP

	return repo, nil
}

// credential returns the credential function for the given registry host.
func (r *Registry) credential(host string) auth.CredentialFunc {
	if r.username != "" {
		return auth.StaticCredential(host, auth.Credential{
			Username: r.username,
			Password: r.password,
		})
	}
	return credentials.Credential(r.credStore)
}
