// Package bootstrap performs the one-time global initialization that must
// run before any feature installs: it creates the standing directories and
// registry files and wires the registries into the shell's startup chain.
//
// The function registry is sourced by every new interactive shell through
// .bashrc; the init registry is sourced once per login through .profile,
// which also triggers the desktop reconciliation. Wiring is idempotent, so
// running bootstrap repeatedly never duplicates the hook lines.
package bootstrap

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/deskforge/deskforge/pkg/filesystem"
	"github.com/deskforge/deskforge/pkg/logging"
	"github.com/deskforge/deskforge/pkg/paths"
	"github.com/deskforge/deskforge/pkg/registry"
)

// hookMarker prefixes the block appended to shell startup files
const hookMarker = "# deskforge shell integration"

// reconcileHook re-applies the registries to the desktop session at login
const reconcileHook = "command -v deskforge >/dev/null 2>&1 && deskforge reconcile"

// Bootstrap initializes a deskforge installation
type Bootstrap struct {
	ops        *filesystem.Ops
	paths      paths.Paths
	registries *registry.Set
	logger     zerolog.Logger
}

// New creates a bootstrapper
func New(ops *filesystem.Ops, p paths.Paths, registries *registry.Set) *Bootstrap {
	return &Bootstrap{
		ops:        ops,
		paths:      p,
		registries: registries,
		logger:     logging.GetLogger("bootstrap"),
	}
}

// Run creates the standing directories and registries and wires the shell
// hooks. Safe to call any number of times.
func (b *Bootstrap) Run() error {
	for _, dir := range []string{
		b.paths.DataDir(),
		b.paths.ArtifactsDir(),
		b.paths.CacheDir(),
		b.paths.TempDir(),
		b.paths.FunctionsDir(),
		b.paths.InitsDir(),
	} {
		if err := b.ops.CreateDir(dir); err != nil {
			return err
		}
	}

	if err := b.registries.EnsureAll(); err != nil {
		return err
	}

	if err := b.wireHook(b.paths.BashrcPath(), sourceHook(b.paths.FunctionRegistryPath())); err != nil {
		return err
	}
	return b.wireHook(b.paths.ProfilePath(),
		sourceHook(b.paths.InitRegistryPath()),
		reconcileHook)
}

// sourceHook renders the guarded source line for a registry script
func sourceHook(scriptPath string) string {
	return fmt.Sprintf("[ -f %q ] && source %q", scriptPath, scriptPath)
}

// wireHook appends the hook lines to a shell startup file unless every line
// is already present
func (b *Bootstrap) wireHook(rcPath string, lines ...string) error {
	var content string
	if b.ops.Exists(rcPath) {
		raw, err := b.ops.FS().ReadFile(rcPath)
		if err != nil {
			return err
		}
		content = string(raw)
	}

	missing := make([]string, 0, len(lines))
	for _, line := range lines {
		if !strings.Contains(content, line) {
			missing = append(missing, line)
		}
	}
	if len(missing) == 0 {
		return nil
	}

	b.logger.Info().Str("file", rcPath).Msg("Wiring shell startup hook")

	var builder strings.Builder
	builder.WriteString(content)
	if content != "" && !strings.HasSuffix(content, "\n") {
		builder.WriteString("\n")
	}
	if !strings.Contains(content, hookMarker) {
		builder.WriteString("\n" + hookMarker + "\n")
	}
	for _, line := range missing {
		builder.WriteString(line + "\n")
	}
	return b.ops.CreateFile(rcPath, []byte(builder.String()), 0644)
}
