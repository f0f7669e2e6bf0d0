package commands

import (
	"github.com/spf13/cobra"

	"github.com/deskforge/deskforge/pkg/reconcile"
)

func newReconcileCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "reconcile",
		Short: "Apply the registries to the live desktop session",
		Long: `Reconcile converges the desktop session onto the durable registries:
favorites missing from the shell's list are appended and keybinding triplets
are written into settings slots, updating a slot in place when its name
matches. It runs automatically at login through the hook init installs.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(cmd, flags, false)
			if err != nil {
				return err
			}

			if err := reconcile.NewFavorites(rt.registries.Favorites, rt.client).
				Reconcile(cmd.Context()); err != nil {
				return err
			}
			if err := reconcile.NewKeybindings(rt.registries.Keybindings, rt.client).
				Reconcile(cmd.Context()); err != nil {
				return err
			}
			rt.printer.Success("Desktop session reconciled")
			return nil
		},
	}
}
