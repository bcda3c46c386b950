package cmd

import (
	"context"

	"github.com/oneconcern/geomon/pkg/model"
	"github.com/spf13/cobra"
)

var versionAlter = &cobra.Command{
	Use:   "alter",
	Short: "Alter a version's metadata",
	Long: `Rename a version, change its access level or its description.
The guid of the version never changes: references held elsewhere stay valid.`,
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

		var opts []model.PatchOption
		if geomonFlags.version.name != "" {
			opts = append(opts, model.PatchName(geomonFlags.version.name))
		}
		if geomonFlags.version.access != "" {
			opts = append(opts, model.PatchAccess(model.AccessLevel(geomonFlags.version.access)))
		}
		if geomonFlags.version.description != "" {
			opts = append(opts, model.PatchDescription(geomonFlags.version.description))
		}
		if len(opts) == 0 {
			wrapFatalln("nothing to alter: set at least one of --name, --access, --description", nil)
			return
		}

		if err := vm.Alter(ctx, guid, opts...); err != nil {
			wrapFatalln("alter version", err)
			return
		}
	},
}

func init() {
	requiredFlags := []string{addVersionFlag(versionAlter)}
	addVersionNameFlag(versionAlter)
	addVersionAccessFlag(versionAlter)
	addVersionDescriptionFlag(versionAlter)

	for _, flag := range requiredFlags {
		if err := versionAlter.MarkFlagRequired(flag); err != nil {
			logFatalln(err)
		}
	}
	versionCmd.AddCommand(versionAlter)
}
