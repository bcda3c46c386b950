package cmd

import (
	"context"

	"github.com/oneconcern/geomon/pkg/model"
	"github.com/spf13/cobra"
)

var versionCreate = &cobra.Command{
	Use:   "create",
	Short: "Create a named version",
	Long: "Create a version branching off DEFAULT. Version names must not contain special characters. " +
		"Allowed characters: letters, digits, hyphen and underscore. Example: survey-2024-q3",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		vm, err := paramsToManager(&geomonFlags)
		if err != nil {
			wrapFatalln("build version manager", err)
			return
		}

		opts := []model.VersionDescriptorOption{
			model.VersionName(geomonFlags.version.name),
			model.VersionDescription(geomonFlags.version.description),
		}
		if geomonFlags.version.access != "" {
			opts = append(opts, model.VersionAccess(model.AccessLevel(geomonFlags.version.access)))
		}

		desc, err := vm.Create(ctx, *model.NewVersionDescriptor(opts...))
		if err != nil {
			wrapFatalln("create version", err)
			return
		}
		infoLogger.Println(desc.Guid)
	},
}

func init() {
	requiredFlags := []string{addVersionNameFlag(versionCreate)}
	addVersionDescriptionFlag(versionCreate)
	addVersionAccessFlag(versionCreate)

	for _, flag := range requiredFlags {
		if err := versionCreate.MarkFlagRequired(flag); err != nil {
			logFatalln(err)
		}
	}

	versionCmd.AddCommand(versionCreate)
}
