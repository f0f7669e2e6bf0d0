// Package installers holds the optional-property installers: independent,
// idempotent actions each triggered by the presence of one attribute in a
// feature's descriptor. The dispatcher runs them as an explicit ordered
// pipeline; steps that consume previously-downloaded files are sequenced
// after the download step.
package installers

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/deskforge/deskforge/pkg/config"
	"github.com/deskforge/deskforge/pkg/desktop"
	"github.com/deskforge/deskforge/pkg/feature"
	"github.com/deskforge/deskforge/pkg/fetch"
	"github.com/deskforge/deskforge/pkg/filesystem"
	"github.com/deskforge/deskforge/pkg/logging"
	"github.com/deskforge/deskforge/pkg/paths"
	"github.com/deskforge/deskforge/pkg/registry"
)

// Step is one optional-property installer
type Step interface {
	// Name identifies the step in logs
	Name() string

	// AppliesTo tests the dispatch signal: attribute presence
	AppliesTo(desc *feature.Descriptor) bool

	// Apply performs the installation action for one feature
	Apply(ctx context.Context, desc *feature.Descriptor) error
}

// Deps bundles what the steps operate on
type Deps struct {
	Ops        *filesystem.Ops
	Paths      paths.Paths
	Fetch      *fetch.Engine
	Registries *registry.Set
	Launchers  *desktop.Launchers
	Flags      config.Flags
}

// logger returns a component logger for a step
func stepLogger(name string) zerolog.Logger {
	return logging.GetLogger("installers").With().Str("step", name).Logger()
}

// Pipeline returns the installers in execution order. Steps that operate on
// downloaded artifacts (file moves, path-exposed binaries) come after the
// download step.
func Pipeline(deps *Deps) []Step {
	return []Step{
		&manualLaunchers{deps},
		&shellFunctions{deps},
		&shellInits{deps},
		&downloads{deps},
		&arbitraryFiles{deps},
		&fileMoves{deps},
		&pathBinaries{deps},
		&favorites{deps},
		&fileAssociations{deps},
		&keybindings{deps},
		&autostart{deps},
		&copyToDesktop{deps},
	}
}
