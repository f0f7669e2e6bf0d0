package provision

import (
	"context"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/deskforge/deskforge/pkg/archive"
	"github.com/deskforge/deskforge/pkg/config"
	"github.com/deskforge/deskforge/pkg/errors"
	"github.com/deskforge/deskforge/pkg/feature"
)

// bundleDirSuffix names the scratch directory a package bundle is extracted
// into before its contents are installed
const bundleDirSuffix = "_packages"

// systemPackage installs through the system package manager. Declared
// dependencies go first, best-effort. The main install is attribute-driven:
// a bundle URL beats per-package URLs beats plain package names.
type systemPackage struct {
	deps   *Deps
	logger zerolog.Logger
}

func (s *systemPackage) Type() feature.InstallType { return feature.SystemPackage }

func (s *systemPackage) Provision(ctx context.Context, desc *feature.Descriptor) error {
	for _, dep := range desc.PackageDependencies {
		if err := s.run(ctx, s.deps.Settings.PackageManager.Install, dep); err != nil {
			s.logger.Warn().Err(err).Str("package", dep).
				Msg("Dependency install failed, continuing")
		}
	}

	switch {
	case desc.CompressedFileURL != "":
		return s.installBundle(ctx, desc)
	case len(desc.PackageURLs) > 0:
		return s.installPackageFiles(ctx, desc)
	case len(desc.PackageNames) > 0:
		return s.installNames(ctx, desc)
	}
	return nil
}

// installBundle downloads a compressed bundle of package files, extracts it
// to a feature-scoped scratch directory, installs every file found there and
// discards the directory.
func (s *systemPackage) installBundle(ctx context.Context, desc *feature.Descriptor) error {
	if err := s.deps.Fetch.Download(ctx, desc.CompressedFileURL, ""); err != nil {
		return err
	}

	bundleName := desc.Key + bundleDirSuffix
	kind := archive.ParseKind(desc.CompressedFileType)
	if err := s.deps.Archive.Decompress(ctx, kind, "", bundleName); err != nil {
		return err
	}

	bundleDir := filepath.Join(s.deps.Paths.ArtifactsDir(), bundleName)
	entries, err := s.deps.Ops.FS().ReadDir(bundleDir)
	if err != nil {
		return errors.Wrapf(err, errors.ErrProvisionFailed, "failed listing bundle %s", bundleDir)
	}

	found := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		found = append(found, filepath.Join(bundleDir, entry.Name()))
	}
	if len(found) > 0 {
		name, args := config.Argv(s.deps.Settings.PackageManager.InstallMany)
		if name == "" {
			return errors.New(errors.ErrProvisionFailed, "empty package manager command")
		}
		if _, err := s.deps.Runner.Run(ctx, name, append(args, found...)...); err != nil {
			return errors.Wrapf(err, errors.ErrProvisionFailed,
				"failed installing bundle %s", bundleName)
		}
	}

	s.fixBroken(ctx)

	if err := s.deps.Ops.FS().RemoveAll(bundleDir); err != nil {
		return errors.Wrapf(err, errors.ErrProvisionFailed, "failed discarding bundle %s", bundleDir)
	}
	return nil
}

// installPackageFiles downloads each standalone package file and installs it,
// fixing broken dependencies after every file
func (s *systemPackage) installPackageFiles(ctx context.Context, desc *feature.Descriptor) error {
	for _, url := range desc.PackageURLs {
		filename := filepath.Base(url)
		if err := s.deps.Fetch.Download(ctx, url, filename); err != nil {
			return err
		}
		path := filepath.Join(s.deps.Paths.ArtifactsDir(), filename)
		if err := s.run(ctx, s.deps.Settings.PackageManager.InstallFile, path); err != nil {
			return errors.Wrapf(err, errors.ErrProvisionFailed, "failed installing %s", filename)
		}
		s.fixBroken(ctx)
	}
	return nil
}

// installNames installs each declared package name directly, fixing broken
// dependencies after every package
func (s *systemPackage) installNames(ctx context.Context, desc *feature.Descriptor) error {
	for _, name := range desc.PackageNames {
		if err := s.run(ctx, s.deps.Settings.PackageManager.Install, name); err != nil {
			return errors.Wrapf(err, errors.ErrProvisionFailed, "failed installing %s", name)
		}
		s.fixBroken(ctx)
	}
	return nil
}

// run executes a package manager command string with one trailing argument
func (s *systemPackage) run(ctx context.Context, command, arg string) error {
	name, args := config.Argv(command)
	if name == "" {
		return errors.New(errors.ErrProvisionFailed, "empty package manager command")
	}
	_, err := s.deps.Runner.Run(ctx, name, append(args, arg)...)
	return err
}

// fixBroken runs the fix-broken-dependencies pass. Its failure is a warning;
// the package state is usually still usable.
func (s *systemPackage) fixBroken(ctx context.Context) {
	name, args := config.Argv(s.deps.Settings.PackageManager.FixBroken)
	if name == "" {
		return
	}
	if _, err := s.deps.Runner.Run(ctx, name, args...); err != nil {
		s.logger.Warn().Err(err).Msg("Fix-broken pass failed")
	}
}
