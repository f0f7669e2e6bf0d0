package installers

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/deskforge/deskforge/pkg/desktop"
	"github.com/deskforge/deskforge/pkg/feature"
)

// manualLaunchers materializes launcher files from inline launcher content.
// Files are keyed by the feature to stay collision-free across repeat
// installs, and every launcher is also copied onto the desktop.
type manualLaunchers struct {
	deps *Deps
}

func (s *manualLaunchers) Name() string { return "launchers" }

func (s *manualLaunchers) AppliesTo(desc *feature.Descriptor) bool {
	return len(desc.LauncherContents) > 0
}

func (s *manualLaunchers) Apply(ctx context.Context, desc *feature.Descriptor) error {
	logger := stepLogger(s.Name())
	for i, content := range desc.LauncherContents {
		fileName := fmt.Sprintf("%s_%d.desktop", desc.Key, i)
		path := filepath.Join(s.deps.Paths.PersonalLauncherDir(), fileName)
		if err := s.deps.Ops.CreateFile(path, []byte(content), 0644); err != nil {
			return err
		}
		if err := s.deps.Ops.CopyFile(path, filepath.Join(s.deps.Paths.DesktopDir(), fileName)); err != nil {
			return err
		}
		logger.Debug().Str("launcher", fileName).Msg("Materialized launcher")
	}
	return nil
}

// favorites records the feature's launchers in the favorites registry so the
// session-start reconciliation pins them to the shell's favorites list. Only
// runs when the favorites flag is on.
type favorites struct {
	deps *Deps
}

func (s *favorites) Name() string { return "favorites" }

func (s *favorites) AppliesTo(desc *feature.Descriptor) bool {
	return s.deps.Flags.Favorites
}

func (s *favorites) Apply(ctx context.Context, desc *feature.Descriptor) error {
	logger := stepLogger(s.Name())
	for _, name := range desc.ResolvedLauncherNames() {
		if _, ok := s.deps.Launchers.Find(name); !ok {
			logger.Warn().Str("launcher", name).
				Msg("No launcher file found, skipping favorites registration")
			return nil
		}
		if err := s.deps.Registries.Favorites.Append(desktop.FileName(name)); err != nil {
			return err
		}
	}
	return nil
}

// autostart places launchers in the autostart directory. Explicit autostart
// launcher content wins over resolving already-installed launcher files.
// Only runs when the autostart flag is on.
type autostart struct {
	deps *Deps
}

func (s *autostart) Name() string { return "autostart" }

func (s *autostart) AppliesTo(desc *feature.Descriptor) bool {
	return s.deps.Flags.Autostart
}

func (s *autostart) Apply(ctx context.Context, desc *feature.Descriptor) error {
	logger := stepLogger(s.Name())

	if len(desc.AutostartLaunchers) > 0 {
		for i, content := range desc.AutostartLaunchers {
			fileName := fmt.Sprintf("%s_autostart_%d.desktop", desc.Key, i)
			path := filepath.Join(s.deps.Paths.AutostartDir(), fileName)
			if err := s.deps.Ops.CreateFile(path, []byte(content), 0644); err != nil {
				return err
			}
		}
		return nil
	}

	for _, name := range desc.ResolvedLauncherNames() {
		source, ok := s.deps.Launchers.Find(name)
		if !ok {
			logger.Warn().Str("launcher", name).
				Msg("No launcher file found, skipping autostart entry")
			continue
		}
		dest := filepath.Join(s.deps.Paths.AutostartDir(), desktop.FileName(name))
		if err := s.deps.Ops.CopyFile(source, dest); err != nil {
			return err
		}
	}
	return nil
}

// copyToDesktop copies each named launcher file onto the desktop verbatim
type copyToDesktop struct {
	deps *Deps
}

func (s *copyToDesktop) Name() string { return "copy-to-desktop" }

func (s *copyToDesktop) AppliesTo(desc *feature.Descriptor) bool {
	return len(desc.LauncherNames) > 0
}

func (s *copyToDesktop) Apply(ctx context.Context, desc *feature.Descriptor) error {
	logger := stepLogger(s.Name())
	for _, name := range desc.LauncherNames {
		source, ok := s.deps.Launchers.Find(name)
		if !ok {
			logger.Warn().Str("launcher", name).
				Msg("No launcher file found, skipping desktop copy")
			continue
		}
		dest := filepath.Join(s.deps.Paths.DesktopDir(), desktop.FileName(name))
		if err := s.deps.Ops.CopyFile(source, dest); err != nil {
			return err
		}
	}
	return nil
}
