package provision

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/deskforge/deskforge/pkg/errors"
	"github.com/deskforge/deskforge/pkg/feature"
)

// isolatedEnvironment provisions by building a private interpreter
// environment at the feature's artifacts path. The environment is destroyed
// and rebuilt on every install, then each declared sub-package is installed
// and each declared post-install command runs with the environment's own
// interpreter.
type isolatedEnvironment struct {
	deps   *Deps
	logger zerolog.Logger
}

func (s *isolatedEnvironment) Type() feature.InstallType { return feature.IsolatedEnvironment }

func (s *isolatedEnvironment) Provision(ctx context.Context, desc *feature.Descriptor) error {
	dir := s.deps.Paths.FeatureDir(desc.Key)
	if err := s.deps.Ops.RecreateDir(dir); err != nil {
		return err
	}

	python := s.deps.Settings.PythonCommand
	if _, err := s.deps.Runner.Run(ctx, python, "-m", "venv", dir); err != nil {
		return errors.Wrapf(err, errors.ErrProvisionFailed,
			"failed creating environment for %s", desc.Key)
	}

	pip := filepath.Join(dir, "bin", "pip")
	if _, err := s.deps.Runner.Run(ctx, pip, "install", "--upgrade", "pip"); err != nil {
		s.logger.Warn().Err(err).Str("feature", desc.Key).
			Msg("Pip self-upgrade failed, continuing")
	}

	for _, pkg := range desc.PipInstallations {
		if _, err := s.deps.Runner.Run(ctx, pip, "install", pkg); err != nil {
			return errors.Wrapf(err, errors.ErrProvisionFailed,
				"failed installing %s into environment", pkg)
		}
	}

	envPython := filepath.Join(dir, "bin", "python")
	for _, command := range desc.PythonCommands {
		args := strings.Fields(command)
		if _, err := s.deps.Runner.RunInDir(ctx, dir, envPython, args...); err != nil {
			return errors.Wrapf(err, errors.ErrProvisionFailed,
				"post-install command %q failed", command)
		}
	}

	return s.deps.Ops.Privilege().NormalizeTree(dir)
}
