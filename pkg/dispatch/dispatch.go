// Package dispatch is the per-feature entry point. It resolves a feature key
// to its descriptor, runs the installation-type strategy and then fans out to
// every optional-property installer whose trigger attribute is present.
//
// Installer failures are best-effort: one failing step never suppresses the
// others. Strategy failures are fatal for the feature.
package dispatch

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/deskforge/deskforge/pkg/feature"
	"github.com/deskforge/deskforge/pkg/installers"
	"github.com/deskforge/deskforge/pkg/logging"
	"github.com/deskforge/deskforge/pkg/provision"
)

// Dispatcher installs features
type Dispatcher struct {
	table  *feature.Table
	prov   *provision.Deps
	steps  []installers.Step
	logger zerolog.Logger
}

// New creates a dispatcher over a feature table
func New(table *feature.Table, prov *provision.Deps, steps []installers.Step) *Dispatcher {
	return &Dispatcher{
		table:  table,
		prov:   prov,
		steps:  steps,
		logger: logging.GetLogger("dispatch"),
	}
}

// Install provisions one feature and runs its applicable installers. The
// installation type comes from the descriptor, inferred from attribute
// presence when the table does not declare one.
func (d *Dispatcher) Install(ctx context.Context, key string) error {
	return d.InstallAs(ctx, key, "")
}

// InstallAs is Install with an explicit installation-type override
func (d *Dispatcher) InstallAs(ctx context.Context, key string, override feature.InstallType) error {
	desc, err := d.table.Get(key)
	if err != nil {
		return err
	}

	installType := override
	if installType == "" {
		installType = desc.InstallType
	}
	if installType == "" {
		installType = desc.InferInstallType()
	}

	done := logging.LogOperationStart(
		d.logger.With().Str("feature", key).Str("type", string(installType)).Logger(),
		"install")
	defer done()

	strategy, err := provision.For(installType, d.prov)
	if err != nil {
		return err
	}
	if err := strategy.Provision(ctx, desc); err != nil {
		return err
	}

	for _, step := range d.steps {
		if !step.AppliesTo(desc) {
			continue
		}
		d.logger.Debug().Str("feature", key).Str("step", step.Name()).Msg("Running installer")
		if err := step.Apply(ctx, desc); err != nil {
			d.logger.Warn().Err(err).
				Str("feature", key).
				Str("step", step.Name()).
				Msg("Installer failed, continuing with remaining installers")
		}
	}
	return nil
}
