package filesystem

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deskforge/deskforge/pkg/privilege"
)

func newTestOps(t *testing.T) (*Ops, string) {
	t.Helper()
	dir := t.TempDir()
	return NewOps(NewOS(), privilege.Unprivileged()), dir
}

func TestCreateDir(t *testing.T) {
	ops, dir := newTestOps(t)
	nested := filepath.Join(dir, "a", "b", "c")

	require.NoError(t, ops.CreateDir(nested))
	assert.DirExists(t, nested)

	// creating an existing directory is fine
	assert.NoError(t, ops.CreateDir(nested))
}

func TestRecreateDir(t *testing.T) {
	ops, dir := newTestOps(t)
	target := filepath.Join(dir, "env")
	stale := filepath.Join(target, "stale.txt")

	require.NoError(t, ops.CreateFile(stale, []byte("old"), 0644))
	require.NoError(t, ops.RecreateDir(target))

	assert.DirExists(t, target)
	assert.NoFileExists(t, stale)
}

func TestCreateFile(t *testing.T) {
	ops, dir := newTestOps(t)
	path := filepath.Join(dir, "sub", "file.txt")

	require.NoError(t, ops.CreateFile(path, []byte("hello"), 0644))

	content, err := ops.FS().ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(content))
}

func TestCreateSymlink(t *testing.T) {
	ops, dir := newTestOps(t)
	target := filepath.Join(dir, "bin", "tool")
	link := filepath.Join(dir, "exposed", "tool")

	require.NoError(t, ops.CreateFile(target, []byte("#!/bin/sh\n"), 0755))
	require.NoError(t, ops.CreateSymlink(target, link))

	resolved, err := ops.FS().Readlink(link)
	require.NoError(t, err)
	assert.Equal(t, target, resolved)

	// replacing an existing link points it at the new target
	other := filepath.Join(dir, "bin", "tool2")
	require.NoError(t, ops.CreateFile(other, []byte("x"), 0755))
	require.NoError(t, ops.CreateSymlink(other, link))

	resolved, err = ops.FS().Readlink(link)
	require.NoError(t, err)
	assert.Equal(t, other, resolved)
}

func TestCopyFile(t *testing.T) {
	ops, dir := newTestOps(t)
	src := filepath.Join(dir, "src.desktop")
	dst := filepath.Join(dir, "Desktop", "src.desktop")

	require.NoError(t, ops.CreateFile(src, []byte("[Desktop Entry]"), 0755))
	require.NoError(t, ops.CopyFile(src, dst))

	content, err := ops.FS().ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "[Desktop Entry]", string(content))

	info, err := ops.FS().Stat(dst)
	require.NoError(t, err)
	assert.Equal(t, "-rwxr-xr-x", info.Mode().Perm().String())
}

func TestCopyFileMissingSource(t *testing.T) {
	ops, dir := newTestOps(t)
	err := ops.CopyFile(filepath.Join(dir, "ghost"), filepath.Join(dir, "out"))
	assert.Error(t, err)
}

func TestMoveFile(t *testing.T) {
	ops, dir := newTestOps(t)
	src := filepath.Join(dir, "artifacts", "feature", "data.bin")
	dst := filepath.Join(dir, "opt", "data.bin")

	require.NoError(t, ops.CreateFile(src, []byte("payload"), 0644))
	require.NoError(t, ops.MoveFile(src, dst))

	assert.NoFileExists(t, src)
	content, err := ops.FS().ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(content))
}

func TestExists(t *testing.T) {
	ops, dir := newTestOps(t)
	path := filepath.Join(dir, "present")

	assert.False(t, ops.Exists(path))
	require.NoError(t, ops.CreateFile(path, nil, 0644))
	assert.True(t, ops.Exists(path))
}

func TestMemoryFS(t *testing.T) {
	ops := NewOps(NewMemory(), privilege.Unprivileged())

	require.NoError(t, ops.CreateFile("/data/file", []byte("mem"), 0644))
	content, err := ops.FS().ReadFile("/data/file")
	require.NoError(t, err)
	assert.Equal(t, "mem", string(content))
}
