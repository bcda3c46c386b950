package cmd

import (
	"context"

	"github.com/spf13/cobra"
	yaml "gopkg.in/yaml.v2"
)

var versionGet = &cobra.Command{
	Use:   "get",
	Short: "Get a version's metadata",
	Long:  `Fetch the descriptor of one version, addressed by guid`,
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

		desc, err := vm.Get(ctx, guid)
		if err != nil {
			wrapFatalln("get version", err)
			return
		}
		buf, err := yaml.Marshal(desc)
		if err != nil {
			wrapFatalln("serialize version descriptor", err)
			return
		}
		infoLogger.Println(string(buf))
	},
}

func init() {
	requiredFlags := []string{addVersionFlag(versionGet)}
	for _, flag := range requiredFlags {
		if err := versionGet.MarkFlagRequired(flag); err != nil {
			logFatalln(err)
		}
	}
	versionCmd.AddCommand(versionGet)
}
