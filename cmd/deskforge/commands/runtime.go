package commands

import (
	"github.com/spf13/cobra"

	"github.com/deskforge/deskforge/pkg/archive"
	"github.com/deskforge/deskforge/pkg/config"
	"github.com/deskforge/deskforge/pkg/desktop"
	"github.com/deskforge/deskforge/pkg/dispatch"
	"github.com/deskforge/deskforge/pkg/errors"
	"github.com/deskforge/deskforge/pkg/executor"
	"github.com/deskforge/deskforge/pkg/feature"
	"github.com/deskforge/deskforge/pkg/fetch"
	"github.com/deskforge/deskforge/pkg/filesystem"
	"github.com/deskforge/deskforge/pkg/installers"
	"github.com/deskforge/deskforge/pkg/paths"
	"github.com/deskforge/deskforge/pkg/privilege"
	"github.com/deskforge/deskforge/pkg/provision"
	"github.com/deskforge/deskforge/pkg/registry"
	"github.com/deskforge/deskforge/pkg/ui"
)

// runtime holds the wired engine a command operates on
type runtime struct {
	paths      paths.Paths
	ops        *filesystem.Ops
	settings   *config.Settings
	runner     executor.Runner
	registries *registry.Set
	client     *desktop.Client
	printer    *ui.Printer

	// dispatcher is wired only when the command asked for the feature table
	dispatcher *dispatch.Dispatcher
}

// newRuntime builds the engine from configuration and command-line flags.
// Flag values override the configuration file only when actually set.
func newRuntime(cmd *cobra.Command, flags *rootFlags, needTable bool) (*runtime, error) {
	settings, err := config.Load(flags.configPath)
	if err != nil {
		return nil, err
	}

	if cmd.Flags().Changed("favorites") {
		settings.Flags.Favorites = flags.favorites
	}
	if cmd.Flags().Changed("autostart") {
		settings.Flags.Autostart = flags.autostart
	}
	if flags.noCache {
		settings.Flags.Caching = false
	}
	if flags.quiet > 0 {
		settings.Flags.Quiet = flags.quiet
	}
	if flags.upgrade > 0 {
		settings.Flags.Upgrade = flags.upgrade
	}

	p, err := paths.New("")
	if err != nil {
		return nil, err
	}

	ops := filesystem.NewOps(filesystem.NewOS(), privilege.Detect())
	runner := executor.New(settings.Flags.Quiet > 0)

	rt := &runtime{
		paths:      p,
		ops:        ops,
		settings:   settings,
		runner:     runner,
		registries: registry.NewSet(ops, p),
		client:     desktop.NewClient(runner),
		printer:    ui.New(settings.Flags.Quiet),
	}

	if !needTable {
		return rt, nil
	}

	tablePath := flags.tablePath
	if tablePath == "" {
		tablePath = settings.TablePath
	}
	if tablePath == "" {
		return nil, errors.New(errors.ErrConfigLoad,
			"no feature table given; pass --table or set table.path in the configuration")
	}
	table, err := feature.LoadTable(ops.FS(), paths.ExpandHome(tablePath))
	if err != nil {
		return nil, err
	}

	fetchEngine := fetch.New(ops, p, settings.Flags.Caching)
	prov := &provision.Deps{
		Ops:      ops,
		Paths:    p,
		Runner:   runner,
		Fetch:    fetchEngine,
		Archive:  archive.New(ops, fetchEngine, runner),
		Settings: settings,
	}
	steps := installers.Pipeline(&installers.Deps{
		Ops:        ops,
		Paths:      p,
		Fetch:      fetchEngine,
		Registries: rt.registries,
		Launchers:  desktop.NewLaunchers(ops, p),
		Flags:      settings.Flags,
	})
	rt.dispatcher = dispatch.New(table, prov, steps)

	return rt, nil
}
