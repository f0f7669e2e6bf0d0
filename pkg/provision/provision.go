// Package provision implements the four installation-type strategies. Each
// feature declares exactly one; the strategy performs the heavyweight part of
// an install (package manager, archive, interpreter environment or repository
// clone) before the optional-property installers run.
//
// Per feature the lifecycle is a single transition, provisioned or failed,
// with no retries.
package provision

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/deskforge/deskforge/pkg/archive"
	"github.com/deskforge/deskforge/pkg/config"
	"github.com/deskforge/deskforge/pkg/errors"
	"github.com/deskforge/deskforge/pkg/executor"
	"github.com/deskforge/deskforge/pkg/feature"
	"github.com/deskforge/deskforge/pkg/fetch"
	"github.com/deskforge/deskforge/pkg/filesystem"
	"github.com/deskforge/deskforge/pkg/logging"
	"github.com/deskforge/deskforge/pkg/paths"
)

// Strategy provisions one feature
type Strategy interface {
	// Type names the installation type this strategy serves
	Type() feature.InstallType

	// Provision performs the install. Errors are fatal for the feature.
	Provision(ctx context.Context, desc *feature.Descriptor) error
}

// Deps bundles what the strategies operate on
type Deps struct {
	Ops      *filesystem.Ops
	Paths    paths.Paths
	Runner   executor.Runner
	Fetch    *fetch.Engine
	Archive  *archive.Engine
	Settings *config.Settings
}

// For returns the strategy serving an installation type
func For(installType feature.InstallType, deps *Deps) (Strategy, error) {
	switch installType {
	case feature.SystemPackage:
		return &systemPackage{deps: deps, logger: strategyLogger(installType)}, nil
	case feature.ArchiveInherit:
		return &archiveInherit{deps: deps, logger: strategyLogger(installType)}, nil
	case feature.IsolatedEnvironment:
		return &isolatedEnvironment{deps: deps, logger: strategyLogger(installType)}, nil
	case feature.RepositoryClone:
		return newRepositoryClone(deps), nil
	}
	return nil, errors.Newf(errors.ErrProvisionFailed, "no strategy for installation type %q", installType)
}

func strategyLogger(installType feature.InstallType) zerolog.Logger {
	return logging.GetLogger("provision").With().Str("strategy", string(installType)).Logger()
}
