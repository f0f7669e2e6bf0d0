package desktop

import (
	"path/filepath"
	"strings"

	"github.com/deskforge/deskforge/pkg/filesystem"
	"github.com/deskforge/deskforge/pkg/paths"
)

// Launchers locates desktop-launcher files
type Launchers struct {
	ops   *filesystem.Ops
	paths paths.Paths
}

// NewLaunchers creates a launcher lookup over the system-wide and personal
// application directories
func NewLaunchers(ops *filesystem.Ops, p paths.Paths) *Launchers {
	return &Launchers{ops: ops, paths: p}
}

// FileName returns the launcher file name for a launcher name
func FileName(name string) string {
	if strings.HasSuffix(name, ".desktop") {
		return name
	}
	return name + ".desktop"
}

// Find returns the path of the named launcher, checking the system-wide
// directory first and the personal directory second
func (l *Launchers) Find(name string) (string, bool) {
	fileName := FileName(name)
	for _, dir := range []string{l.paths.SystemLauncherDir(), l.paths.PersonalLauncherDir()} {
		candidate := filepath.Join(dir, fileName)
		if l.ops.Exists(candidate) {
			return candidate, true
		}
	}
	return "", false
}
