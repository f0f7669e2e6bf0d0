// Package testutil orchestrates isolated test environments: a throwaway HOME
// with deskforge's data, cache and temp roots redirected beneath it, real-OS
// filesystem primitives running unprivileged, and a scripted command runner.
package testutil

import (
	"path/filepath"
	"testing"

	"github.com/deskforge/deskforge/pkg/executor"
	"github.com/deskforge/deskforge/pkg/filesystem"
	"github.com/deskforge/deskforge/pkg/paths"
	"github.com/deskforge/deskforge/pkg/privilege"
)

// Environment provides a complete test environment with all dependencies
type Environment struct {
	Home   string
	Paths  paths.Paths
	Ops    *filesystem.Ops
	Runner *executor.Fake

	t *testing.T
}

// NewEnvironment creates an isolated environment rooted in a temp directory.
// All deskforge path roots point beneath it via environment variables, so
// code under test never touches the real user profile.
func NewEnvironment(t *testing.T) *Environment {
	t.Helper()

	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("TMPDIR", filepath.Join(home, "tmp"))
	t.Setenv(paths.EnvDataDir, filepath.Join(home, ".local", "share", "deskforge"))
	t.Setenv(paths.EnvCacheDir, filepath.Join(home, ".cache", "deskforge"))
	t.Setenv(paths.EnvArtifactsDir, "")
	t.Setenv(paths.EnvDesktopDir, "")

	p, err := paths.New(home)
	if err != nil {
		t.Fatalf("failed to create paths: %v", err)
	}

	env := &Environment{
		Home:   home,
		Paths:  p,
		Ops:    filesystem.NewOps(filesystem.NewOS(), privilege.Unprivileged()),
		Runner: executor.NewFake(),
		t:      t,
	}

	for _, dir := range []string{p.DataDir(), p.ArtifactsDir(), p.CacheDir(), p.TempDir()} {
		if err := env.Ops.CreateDir(dir); err != nil {
			t.Fatalf("failed to create %s: %v", dir, err)
		}
	}

	return env
}

// WriteFile creates a file below the environment, failing the test on error
func (e *Environment) WriteFile(path string, content string) {
	e.t.Helper()
	if err := e.Ops.CreateFile(path, []byte(content), 0644); err != nil {
		e.t.Fatalf("failed to write %s: %v", path, err)
	}
}

// ReadFile reads a file, failing the test on error
func (e *Environment) ReadFile(path string) string {
	e.t.Helper()
	content, err := e.Ops.FS().ReadFile(path)
	if err != nil {
		e.t.Fatalf("failed to read %s: %v", path, err)
	}
	return string(content)
}

// LauncherPath returns the path of a launcher in the personal launcher dir
func (e *Environment) LauncherPath(name string) string {
	return filepath.Join(e.Paths.PersonalLauncherDir(), name+".desktop")
}
