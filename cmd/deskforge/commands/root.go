package commands

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/deskforge/deskforge/internal/version"
	"github.com/deskforge/deskforge/pkg/logging"
)

// rootFlags are the persistent flags shared by every subcommand
type rootFlags struct {
	verbosity  int
	configPath string
	tablePath  string
	quiet      int

	favorites bool
	autostart bool
	noCache   bool
	upgrade   int
}

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	flags := &rootFlags{}

	rootCmd := &cobra.Command{
		Use:     "deskforge",
		Short:   "Declarative installer for Linux desktop features",
		Long:    rootLong,
		Version: version.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(flags.verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return fmt.Errorf("no command specified")
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.CountVarP(&flags.verbosity, "verbose", "v",
		"Increase logging verbosity (-v info, -vv debug, -vvv trace)")
	pf.StringVar(&flags.configPath, "config", "",
		"Path to a configuration file overriding the built-in defaults")
	pf.StringVar(&flags.tablePath, "table", "",
		"Path to the feature table (TOML or YAML)")
	pf.CountVarP(&flags.quiet, "quiet", "q",
		"Reduce terminal output (-q hides progress, -qq also hides warnings)")

	pf.BoolVar(&flags.favorites, "favorites", true,
		"Pin installed features to the desktop favorites")
	pf.BoolVar(&flags.autostart, "autostart", true,
		"Register installed features for session autostart")
	pf.BoolVar(&flags.noCache, "no-cache", false,
		"Bypass the artifact cache and always fetch")
	pf.CountVarP(&flags.upgrade, "upgrade", "u",
		"Package index maintenance before installing (-u update, -uu update and upgrade)")

	rootCmd.AddCommand(newInstallCmd(flags))
	rootCmd.AddCommand(newInitCmd(flags))
	rootCmd.AddCommand(newReconcileCmd(flags))
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

const rootLong = `deskforge installs desktop features from a declarative table.

A feature names the packages, archives, repositories or interpreter
environments it needs, plus any launchers, shell functions, keybindings and
file associations that should come with it. deskforge provisions the feature
and records the desktop-facing pieces in durable registries that are
reconciled into the live session at login.`
