package cmd

import (
	"github.com/spf13/cobra"
)

// versionCmd is the root command for all version registry subcommands
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Commands to manage named versions",
	Long: `A version is a named branch off the DEFAULT state of the feature service.
Versions are addressed by the guid issued at creation: renaming a version
never changes its guid.`,
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
