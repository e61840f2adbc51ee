// SPDX-FileCopyrightText: Copyright 2026 Plugpack Authors
// SPDX-License-Identifier: Apache-2.0

package release

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testArchive writes a throwaway .pkg file and returns its path.
func testArchive(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "my-plugin-1.2.3.pkg")
	require.NoError(t, os.WriteFile(path, []byte("zip bytes"), 0o600))
	return path
}

// newTestPublisher wires a publisher to an httptest server.
func newTestPublisher(t *testing.T, handler http.Handler, opts ...Option) *GitHubPublisher {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	p, err := NewGitHubPublisher("test-token", "myorg", "plugins", opts...)
	require.NoError(t, err)
	require.NoError(t, p.SetBaseURL(server.URL))
	return p
}

func TestTag(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "package_my-plugin_1.2.3", Tag("my-plugin", "1.2.3"))
}

func TestNewGitHubPublisher_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		token string
		owner string
		repo  string
	}{
		{"empty token", "", "o", "r"},
		{"token with newline", "tok\nen", "o", "r"},
		{"missing owner", "token", "", "r"},
		{"missing repo", "token", "o", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := NewGitHubPublisher(tt.token, tt.owner, tt.repo)
			assert.Error(t, err)
		})
	}
}

func TestPublish_CreatesReleaseAndUploadsAsset(t *testing.T) {
	t.Parallel()

	var gotAuth string
	mux := http.NewServeMux()
	mux.HandleFunc("GET /repos/myorg/plugins/releases/tags/package_my-plugin_1.2.3", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"message":"Not Found"}`)
	})
	mux.HandleFunc("POST /repos/myorg/plugins/releases", func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"id":7,"tag_name":"package_my-plugin_1.2.3","html_url":"https://example.com/rel/7"}`)
	})
	mux.HandleFunc("POST /repos/myorg/plugins/releases/7/assets", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "my-plugin-1.2.3.pkg", r.URL.Query().Get("name"))
		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"id":9,"browser_download_url":"https://example.com/dl/my-plugin-1.2.3.pkg"}`)
	})

	p := newTestPublisher(t, mux)

	rel, err := p.Publish(t.Context(), Spec{
		Name:        "my-plugin",
		Version:     "1.2.3",
		ArchivePath: testArchive(t),
		Notes:       "automated release",
	})
	require.NoError(t, err)

	assert.Equal(t, "package_my-plugin_1.2.3", rel.Tag)
	assert.Equal(t, "https://example.com/rel/7", rel.URL)
	assert.Equal(t, "https://example.com/dl/my-plugin-1.2.3.pkg", rel.AssetURL)
	assert.Equal(t, "Bearer test-token", gotAuth)
}

func TestPublish_ExistingReleaseWithoutForce(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /repos/myorg/plugins/releases/tags/package_my-plugin_1.2.3", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"id":3,"tag_name":"package_my-plugin_1.2.3"}`)
	})

	p := newTestPublisher(t, mux)

	_, err := p.Publish(t.Context(), Spec{Name: "my-plugin", Version: "1.2.3", ArchivePath: testArchive(t)})
	require.ErrorIs(t, err, ErrReleaseExists)
}

func TestPublish_ForceRecreates(t *testing.T) {
	t.Parallel()

	var deletedRelease, deletedTag bool
	mux := http.NewServeMux()
	mux.HandleFunc("GET /repos/myorg/plugins/releases/tags/package_my-plugin_1.2.3", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"id":3,"tag_name":"package_my-plugin_1.2.3"}`)
	})
	mux.HandleFunc("DELETE /repos/myorg/plugins/releases/3", func(w http.ResponseWriter, _ *http.Request) {
		deletedRelease = true
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("DELETE /repos/myorg/plugins/git/refs/tags/package_my-plugin_1.2.3", func(w http.ResponseWriter, _ *http.Request) {
		deletedTag = true
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("POST /repos/myorg/plugins/releases", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"id":8,"tag_name":"package_my-plugin_1.2.3","html_url":"https://example.com/rel/8"}`)
	})
	mux.HandleFunc("POST /repos/myorg/plugins/releases/8/assets", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"id":9,"browser_download_url":"https://example.com/dl/x.pkg"}`)
	})

	p := newTestPublisher(t, mux, WithForce(true))

	rel, err := p.Publish(t.Context(), Spec{Name: "my-plugin", Version: "1.2.3", ArchivePath: testArchive(t)})
	require.NoError(t, err)
	assert.True(t, deletedRelease)
	assert.True(t, deletedTag)
	assert.Equal(t, "https://example.com/rel/8", rel.URL)
}

func TestPublish_ForceToleratesMissingTagRef(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /repos/myorg/plugins/releases/tags/package_my-plugin_1.2.3", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"id":3,"tag_name":"package_my-plugin_1.2.3"}`)
	})
	mux.HandleFunc("DELETE /repos/myorg/plugins/releases/3", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("DELETE /repos/myorg/plugins/git/refs/tags/package_my-plugin_1.2.3", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"message":"Reference does not exist"}`)
	})
	mux.HandleFunc("POST /repos/myorg/plugins/releases", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"id":8,"tag_name":"package_my-plugin_1.2.3"}`)
	})
	mux.HandleFunc("POST /repos/myorg/plugins/releases/8/assets", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"id":9}`)
	})

	p := newTestPublisher(t, mux, WithForce(true))

	_, err := p.Publish(t.Context(), Spec{Name: "my-plugin", Version: "1.2.3", ArchivePath: testArchive(t)})
	require.NoError(t, err)
}

func TestPublish_MissingArchive(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /repos/myorg/plugins/releases/tags/package_my-plugin_1.2.3", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"message":"Not Found"}`)
	})
	mux.HandleFunc("POST /repos/myorg/plugins/releases", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"id":8}`)
	})

	p := newTestPublisher(t, mux)

	_, err := p.Publish(t.Context(), Spec{Name: "my-plugin", Version: "1.2.3", ArchivePath: "/does/not/exist.pkg"})
	assert.Error(t, err)
}
