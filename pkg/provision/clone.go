package provision

import (
	"context"

	"github.com/go-git/go-git/v5"
	"github.com/rs/zerolog"

	"github.com/deskforge/deskforge/pkg/errors"
	"github.com/deskforge/deskforge/pkg/feature"
)

// cloneFunc performs the actual repository clone, split out so tests can
// substitute a local fixture for the network
type cloneFunc func(ctx context.Context, dir, url string) error

// repositoryClone provisions by shallow-cloning the declared repository into
// the feature's artifacts directory, destroying any previous clone first
type repositoryClone struct {
	deps   *Deps
	clone  cloneFunc
	logger zerolog.Logger
}

func newRepositoryClone(deps *Deps) *repositoryClone {
	return &repositoryClone{
		deps:   deps,
		clone:  gitClone,
		logger: strategyLogger(feature.RepositoryClone),
	}
}

func (s *repositoryClone) Type() feature.InstallType { return feature.RepositoryClone }

func (s *repositoryClone) Provision(ctx context.Context, desc *feature.Descriptor) error {
	dir := s.deps.Paths.FeatureDir(desc.Key)
	if err := s.deps.Ops.RecreateDir(dir); err != nil {
		return err
	}

	s.logger.Info().Str("feature", desc.Key).Str("url", desc.RepositoryURL).
		Msg("Cloning repository")
	if err := s.clone(ctx, dir, desc.RepositoryURL); err != nil {
		return errors.Wrapf(err, errors.ErrCloneFailed,
			"failed cloning %s", desc.RepositoryURL)
	}

	return s.deps.Ops.Privilege().NormalizeTree(dir)
}

// gitClone shallow-clones url into dir
func gitClone(ctx context.Context, dir, url string) error {
	_, err := git.PlainCloneContext(ctx, dir, false, &git.CloneOptions{
		URL:   url,
		Depth: 1,
	})
	return err
}
