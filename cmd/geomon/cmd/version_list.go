package cmd

import (
	"context"

	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"
)

var versionList = &cobra.Command{
	Use:   "list",
	Short: "List versions",
	Long:  `List the versions registered on the service, oldest first`,
	Example: `% geomon version list --url https://versions.example.com
GUID                                  NAME            ACCESS     DESCRIPTION
1f0b3c52-6e17-4f9a-93a2-70c1d2aa6c3e  survey-2024-q3  protected  quarterly field survey`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		vm, err := paramsToManager(&geomonFlags)
		if err != nil {
			wrapFatalln("build version manager", err)
			return
		}

		versions, err := vm.List(ctx)
		if err != nil {
			wrapFatalln("list versions", err)
			return
		}

		table := uitable.New()
		table.AddRow("GUID", "NAME", "ACCESS", "DESCRIPTION")
		for _, desc := range versions {
			table.AddRow(desc.Guid, desc.Name, desc.Access, desc.Description)
		}
		infoLogger.Println(table)
	},
}

func init() {
	versionCmd.AddCommand(versionList)
}
