package main

import (
	"os"

	"github.com/deskforge/deskforge/cmd/deskforge/commands"
)

func main() {
	rootCmd := commands.NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
