// Package testutil provides throwaway mirrors and an isolated configuration
// for tests that drive the resolver end to end.
package testutil

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/tsukumogami/versions/internal/config"
)

// ManifestPath is appended to every mirror URL.
const ManifestPath = "/versions.toml"

// isolatedEnv lists the variables cleared by NewTestConfig.
var isolatedEnv = []string{
	config.EnvMirrors,
	config.EnvTimeout,
	config.EnvStrategy,
	"VERSIONS_QUIET",
	"VERSIONS_VERBOSE",
	"VERSIONS_DEBUG",
}

// NewTestConfig points VERSIONS_HOME at a temporary directory and clears
// the other VERSIONS_* overrides for the duration of the test.
func NewTestConfig(t *testing.T) *config.Config {
	t.Helper()
	home := t.TempDir()
	t.Setenv(config.EnvHome, home)
	for _, name := range isolatedEnv {
		t.Setenv(name, "")
	}

	cfg, err := config.DefaultConfig()
	if err != nil {
		t.Fatalf("failed to build test config: %v", err)
	}
	return cfg
}

func serve(t *testing.T, h http.Handler) string {
	t.Helper()
	server := httptest.NewServer(h)
	t.Cleanup(server.Close)
	return server.URL + ManifestPath
}

// NewMirror starts a mirror that serves body and returns its manifest URL.
func NewMirror(t *testing.T, body string) string {
	t.Helper()
	return serve(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(body))
	}))
}

// NewStatusMirror starts a mirror that always answers with status.
func NewStatusMirror(t *testing.T, status int) string {
	t.Helper()
	return serve(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
	}))
}

// NewHangingMirror starts a mirror that does not answer until the client
// gives up.
func NewHangingMirror(t *testing.T) string {
	t.Helper()
	return serve(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(30 * time.Second):
		}
	}))
}

// DeadMirror returns the URL of a mirror whose server is already closed,
// so connections are refused.
func DeadMirror(t *testing.T) string {
	t.Helper()
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL + ManifestPath
	server.Close()
	return url
}
