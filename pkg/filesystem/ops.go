package filesystem

import (
	"io/fs"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/deskforge/deskforge/pkg/errors"
	"github.com/deskforge/deskforge/pkg/logging"
	"github.com/deskforge/deskforge/pkg/privilege"
)

// Ops bundles an FS with a privilege context. Every mutation re-owns the
// touched path to the invoking user when running elevated, which keeps the
// artifacts usable by later unprivileged sessions.
type Ops struct {
	fs     FS
	priv   privilege.Context
	logger zerolog.Logger
}

// NewOps creates the scoped filesystem primitives
func NewOps(fsys FS, priv privilege.Context) *Ops {
	return &Ops{
		fs:     fsys,
		priv:   priv,
		logger: logging.GetLogger("filesystem"),
	}
}

// FS exposes the underlying filesystem for read-only callers
func (o *Ops) FS() FS {
	return o.fs
}

// Privilege returns the privilege context the primitives operate under
func (o *Ops) Privilege() privilege.Context {
	return o.priv
}

// CreateDir creates a directory and all missing parents
func (o *Ops) CreateDir(path string) error {
	if err := o.fs.MkdirAll(path, 0755); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "failed to create directory %s", path)
	}
	return o.priv.Normalize(path)
}

// RecreateDir removes any existing directory at path and creates a fresh one
func (o *Ops) RecreateDir(path string) error {
	if err := o.fs.RemoveAll(path); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "failed to clear directory %s", path)
	}
	return o.CreateDir(path)
}

// CreateFile writes content to path, creating parent directories as needed
func (o *Ops) CreateFile(path string, content []byte, perm fs.FileMode) error {
	if err := o.CreateDir(filepath.Dir(path)); err != nil {
		return err
	}
	if err := o.fs.WriteFile(path, content, perm); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "failed to write %s", path)
	}
	return o.priv.Normalize(path)
}

// CreateSymlink creates a symbolic link at link pointing to target,
// replacing any existing entry at link
func (o *Ops) CreateSymlink(target, link string) error {
	if err := o.CreateDir(filepath.Dir(link)); err != nil {
		return err
	}
	if _, err := o.fs.Lstat(link); err == nil {
		if err := o.fs.Remove(link); err != nil {
			return errors.Wrapf(err, errors.ErrSymlinkCreate, "failed to replace %s", link)
		}
	}
	if err := o.fs.Symlink(target, link); err != nil {
		return errors.Wrapf(err, errors.ErrSymlinkCreate, "failed to link %s -> %s", link, target)
	}
	return o.priv.Normalize(link)
}

// CopyFile copies src to dst, preserving the source permissions
func (o *Ops) CopyFile(src, dst string) error {
	info, err := o.fs.Stat(src)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileNotFound, "copy source %s not found", src)
	}
	content, err := o.fs.ReadFile(src)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "failed to read %s", src)
	}
	return o.CreateFile(dst, content, info.Mode().Perm())
}

// MoveFile relocates src to dst, falling back to copy-and-delete when a
// rename crosses filesystems
func (o *Ops) MoveFile(src, dst string) error {
	if err := o.CreateDir(filepath.Dir(dst)); err != nil {
		return err
	}
	if err := o.fs.Rename(src, dst); err == nil {
		return o.priv.Normalize(dst)
	}
	if err := o.CopyFile(src, dst); err != nil {
		return err
	}
	if err := o.fs.Remove(src); err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "failed to remove %s after copy", src)
	}
	return nil
}

// Exists reports whether a path exists
func (o *Ops) Exists(path string) bool {
	_, err := o.fs.Stat(path)
	return err == nil
}
