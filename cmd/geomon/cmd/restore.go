package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

var restoreCmd = &cobra.Command{
	Use:   "restore",
	Short: "Restore rows of a version to their ancestor state",
	Long: `Revert the selected rows of a version back to their common ancestor with
DEFAULT, discarding the version's own edits on exactly those rows. This is the
shortcut to resolve a conflict by giving up the branch side; reconcile again
afterwards to verify the version is clean.`,
	Example: `% geomon restore --version 1f0b3c52-6e17-4f9a-93a2-70c1d2aa6c3e --layer 0 --objects 17,42`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		guid, err := paramsToGuid(&geomonFlags)
		if err != nil {
			wrapFatalln("version guid", err)
			return
		}
		vm, err := paramsToManager(&geomonFlags)
		if err != nil {
			wrapFatalln("build version manager", err)
			return
		}

		session, err := vm.StartEditing(ctx, guid)
		if err != nil {
			wrapFatalln("start editing", err)
			return
		}
		defer func() {
			_ = session.Abandon(ctx)
		}()

		if err = session.RestoreRows(ctx, geomonFlags.rowSelection()); err != nil {
			wrapFatalln("restore rows", err)
			return
		}
		if err = session.StopEditing(ctx, true); err != nil {
			wrapFatalln("save session", err)
			return
		}
	},
}

func init() {
	requiredFlags := []string{
		addVersionFlag(restoreCmd),
		addObjectIDsFlag(restoreCmd),
	}
	addRowsLayerFlag(restoreCmd)

	for _, flag := range requiredFlags {
		if err := restoreCmd.MarkFlagRequired(flag); err != nil {
			logFatalln(err)
		}
	}
	rootCmd.AddCommand(restoreCmd)
}
