package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deskforge/deskforge/pkg/paths"
	"github.com/deskforge/deskforge/pkg/testutil"
)

func newServer(t *testing.T, body string) (*httptest.Server, *atomic.Int64) {
	t.Helper()
	var hits atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server, &hits
}

func TestResolvePrecedence(t *testing.T) {
	env := testutil.NewEnvironment(t)
	engine := New(env.Ops, env.Paths, false)

	existingDir := filepath.Join(env.Home, "opt")
	require.NoError(t, env.Ops.CreateDir(existingDir))
	require.NoError(t, env.Ops.CreateDir(filepath.Join(env.Paths.ArtifactsDir(), "vim")))

	tests := []struct {
		name     string
		dest     string
		wantDir  string
		wantFile string
		wantErr  bool
	}{
		{"empty destination", "", env.Paths.ArtifactsDir(), paths.DownloadPlaceholderName, false},
		{"absolute existing dir", existingDir, existingDir, paths.DownloadPlaceholderName, false},
		{"absolute new entry", filepath.Join(existingDir, "pkg.deb"), existingDir, "pkg.deb", false},
		{"absolute entry under missing parent", "/no/such/parent/pkg.deb", "", "", true},
		{"relative with separator", filepath.Join("vim", "vim.tar.gz"), filepath.Join(env.Paths.ArtifactsDir(), "vim"), "vim.tar.gz", false},
		{"relative with missing parent", filepath.Join("ghost", "x.tar.gz"), "", "", true},
		{"bare name", "tool.zip", env.Paths.ArtifactsDir(), "tool.zip", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir, file, err := engine.Resolve(tt.dest)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantDir, dir)
			assert.Equal(t, tt.wantFile, file)
		})
	}
}

func TestDownloadWithoutCaching(t *testing.T) {
	env := testutil.NewEnvironment(t)
	server, hits := newServer(t, "artifact-bytes")
	engine := New(env.Ops, env.Paths, false)

	require.NoError(t, engine.Download(context.Background(), server.URL, "tool.zip"))
	assert.Equal(t, "artifact-bytes", env.ReadFile(filepath.Join(env.Paths.ArtifactsDir(), "tool.zip")))

	// no cache entry is written
	assert.False(t, env.Ops.Exists(filepath.Join(env.Paths.CacheDir(), "tool.zip")))

	// a second download hits the network again
	require.NoError(t, engine.Download(context.Background(), server.URL, "tool.zip"))
	assert.Equal(t, int64(2), hits.Load())
}

func TestDownloadCacheHitSkipsNetwork(t *testing.T) {
	env := testutil.NewEnvironment(t)
	server, hits := newServer(t, "cached-bytes")
	engine := New(env.Ops, env.Paths, true)

	require.NoError(t, engine.Download(context.Background(), server.URL, "tool.zip"))
	require.NoError(t, engine.Download(context.Background(), server.URL, "tool.zip"))

	assert.Equal(t, int64(1), hits.Load(), "second download must be served from cache")
	assert.Equal(t, "cached-bytes", env.ReadFile(filepath.Join(env.Paths.ArtifactsDir(), "tool.zip")))
	assert.Equal(t, "cached-bytes", env.ReadFile(filepath.Join(env.Paths.CacheDir(), "tool.zip")))
}

func TestDownloadFailureIsSwallowed(t *testing.T) {
	env := testutil.NewEnvironment(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(server.Close)
	engine := New(env.Ops, env.Paths, true)

	// the engine warns and keeps going; the artifact simply never appears
	require.NoError(t, engine.Download(context.Background(), server.URL, "tool.zip"))
	assert.False(t, env.Ops.Exists(filepath.Join(env.Paths.ArtifactsDir(), "tool.zip")))
}

func TestDownloadToAbsoluteDestination(t *testing.T) {
	env := testutil.NewEnvironment(t)
	server, _ := newServer(t, "payload")
	engine := New(env.Ops, env.Paths, false)

	dest := filepath.Join(env.Home, "downloads", "feature.deb")
	require.NoError(t, env.Ops.CreateDir(filepath.Dir(dest)))

	require.NoError(t, engine.Download(context.Background(), server.URL, dest))
	assert.Equal(t, "payload", env.ReadFile(dest))
}
