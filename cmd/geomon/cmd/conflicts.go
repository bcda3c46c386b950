package cmd

import (
	"github.com/spf13/cobra"
)

// conflictsCmd is the root command for conflict review subcommands
var conflictsCmd = &cobra.Command{
	Use:   "conflicts",
	Short: "Commands to review reconcile conflicts",
	Long: `Conflicts are features edited concurrently in the version and in DEFAULT since
their common ancestor. They are produced by a reconcile and block posting until
a later reconcile comes out clean.`,
}

func init() {
	rootCmd.AddCommand(conflictsCmd)
}
