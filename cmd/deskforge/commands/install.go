package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/deskforge/deskforge/pkg/bootstrap"
	"github.com/deskforge/deskforge/pkg/config"
	"github.com/deskforge/deskforge/pkg/feature"
)

func newInstallCmd(flags *rootFlags) *cobra.Command {
	var installType string

	cmd := &cobra.Command{
		Use:   "install FEATURE...",
		Short: "Install one or more features from the table",
		Long: `Install provisions each named feature with its installation-type strategy
and then runs every installer whose trigger attribute the feature declares.
A feature that fails to provision stops; installer-level problems are
reported as warnings and the remaining installers still run.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(cmd, flags, true)
			if err != nil {
				return err
			}

			var override feature.InstallType
			if installType != "" {
				override, err = feature.ParseInstallType(installType)
				if err != nil {
					return err
				}
			}

			// Global init must precede any install
			if err := bootstrap.New(rt.ops, rt.paths, rt.registries).Run(); err != nil {
				return err
			}

			if err := rt.maintainPackageIndex(cmd.Context()); err != nil {
				rt.printer.Warning("Package index maintenance failed: %v", err)
			}

			for _, key := range args {
				rt.printer.Info("Installing %s", key)
				if err := rt.dispatcher.InstallAs(cmd.Context(), key, override); err != nil {
					rt.printer.Error("Installing %s failed: %v", key, err)
					return err
				}
				rt.printer.Success("Installed %s", key)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&installType, "type", "",
		"Override the installation type (systempackage, archiveinherit, isolatedenvironment, repositoryclone)")

	return cmd
}

// maintainPackageIndex runs the package manager's update and upgrade passes
// according to the configured upgrade level
func (rt *runtime) maintainPackageIndex(ctx context.Context) error {
	if rt.settings.Flags.Upgrade < 1 {
		return nil
	}
	if err := rt.runPackageManager(ctx, rt.settings.PackageManager.Update); err != nil {
		return err
	}
	if rt.settings.Flags.Upgrade < 2 {
		return nil
	}
	return rt.runPackageManager(ctx, rt.settings.PackageManager.Upgrade)
}

func (rt *runtime) runPackageManager(ctx context.Context, command string) error {
	name, args := config.Argv(command)
	if name == "" {
		return nil
	}
	_, err := rt.runner.Run(ctx, name, args...)
	return err
}
