// Package privilege models the identity a deskforge run operates under.
//
// When the installer runs elevated (via sudo), every file or directory it
// creates must be re-owned to the invoking unprivileged user so that later
// unprivileged sessions can read and modify them. Rather than inspecting the
// effective uid ambiently at each call site, the detected identity is carried
// as an explicit Context value threaded into every filesystem-mutating
// primitive.
package privilege

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/deskforge/deskforge/pkg/errors"
	"github.com/deskforge/deskforge/pkg/logging"
)

// Context carries the privilege state of the current run.
type Context struct {
	// Elevated is true when the process runs with an effective uid of 0.
	Elevated bool

	// UID and GID identify the invoking unprivileged user, resolved from
	// SUDO_UID/SUDO_GID. Both are -1 when unknown, in which case ownership
	// normalization is skipped even for elevated runs.
	UID int
	GID int
}

// Detect inspects the process environment once and returns the resulting
// Context. All later ownership decisions flow from this value.
func Detect() Context {
	ctx := Context{UID: -1, GID: -1}
	if os.Geteuid() != 0 {
		return ctx
	}
	ctx.Elevated = true

	if uid, err := strconv.Atoi(os.Getenv("SUDO_UID")); err == nil {
		ctx.UID = uid
	}
	if gid, err := strconv.Atoi(os.Getenv("SUDO_GID")); err == nil {
		ctx.GID = gid
	}

	logger := logging.GetLogger("privilege")
	logger.Debug().
		Bool("elevated", ctx.Elevated).
		Int("uid", ctx.UID).
		Int("gid", ctx.GID).
		Msg("Detected privilege context")

	return ctx
}

// Unprivileged returns a Context describing a plain user run. Useful in tests
// and as the neutral default.
func Unprivileged() Context {
	return Context{UID: -1, GID: -1}
}

// ShouldNormalize reports whether created files need their ownership
// transferred back to the invoking user.
func (c Context) ShouldNormalize() bool {
	return c.Elevated && c.UID >= 0 && c.GID >= 0
}

// Normalize re-owns a single path to the invoking user. It is a no-op for
// unprivileged runs.
func (c Context) Normalize(path string) error {
	if !c.ShouldNormalize() {
		return nil
	}
	if err := os.Lchown(path, c.UID, c.GID); err != nil {
		return errors.Wrapf(err, errors.ErrOwnership, "failed to normalize ownership of %s", path)
	}
	return nil
}

// NormalizeTree re-owns a directory and everything beneath it. Symlinks are
// re-owned without following them.
func (c Context) NormalizeTree(root string) error {
	if !c.ShouldNormalize() {
		return nil
	}
	return filepath.Walk(root, func(path string, _ os.FileInfo, err error) error {
		if err != nil {
			return errors.Wrapf(err, errors.ErrOwnership, "failed walking %s", root)
		}
		return c.Normalize(path)
	})
}
