package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

var versionDelete = &cobra.Command{
	Use:   "delete",
	Short: "Delete a version",
	Long: `Delete a version, dropping its unposted edits. Deleting an already deleted
version is not an error. A version whose write lock is held cannot be deleted.`,
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

		deleted, err := vm.Delete(ctx, guid)
		if err != nil {
			wrapFatalln("delete version", err)
			return
		}
		if !deleted {
			infoLogger.Println("version was already gone")
		}
	},
}

func init() {
	requiredFlags := []string{addVersionFlag(versionDelete)}
	for _, flag := range requiredFlags {
		if err := versionDelete.MarkFlagRequired(flag); err != nil {
			logFatalln(err)
		}
	}
	versionCmd.AddCommand(versionDelete)
}
