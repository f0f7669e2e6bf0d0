package commands

import (
	"github.com/spf13/cobra"

	"github.com/deskforge/deskforge/pkg/bootstrap"
)

func newInitCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the standing directories, registries and shell hooks",
		Long: `Init performs the one-time global initialization: the artifacts, cache and
script directories, the four registry files and the shell startup hooks that
source the registries and reconcile the desktop at login. Running it again
is harmless.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(cmd, flags, false)
			if err != nil {
				return err
			}
			if err := bootstrap.New(rt.ops, rt.paths, rt.registries).Run(); err != nil {
				return err
			}
			rt.printer.Success("deskforge initialized")
			return nil
		},
	}
}
