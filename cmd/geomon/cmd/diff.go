package cmd

import (
	"context"
	"encoding/json"

	"github.com/gosuri/uitable"
	"github.com/oneconcern/geomon/pkg/model"
	"github.com/spf13/cobra"
)

var diffCmd = &cobra.Command{
	Use:   "diff",
	Short: "Show what a version changed",
	Long: `List, per layer, the rows inserted, updated and deleted in the version since
its ancestor moment. This is a read-only audit: no edit session is opened and
the version is not modified.`,
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

		resultType := model.DiffObjectIds
		if geomonFlags.diff.withFeatures {
			resultType = model.DiffFeatures
		}
		diffs, err := vm.Differences(ctx, guid, model.Moment(geomonFlags.diff.moment), resultType)
		if err != nil {
			wrapFatalln("fetch differences", err)
			return
		}

		if geomonFlags.diff.withFeatures {
			buf, err := json.MarshalIndent(diffs, "", "  ")
			if err != nil {
				wrapFatalln("serialize differences", err)
				return
			}
			infoLogger.Println(string(buf))
			return
		}

		table := uitable.New()
		table.AddRow("LAYER", "INSERTS", "UPDATES", "DELETES")
		for _, diff := range diffs {
			table.AddRow(diff.LayerID, diff.Inserts, diff.Updates, diff.Deletes)
		}
		infoLogger.Println(table)
	},
}

func init() {
	requiredFlags := []string{addVersionFlag(diffCmd)}
	addMomentFlag(diffCmd)
	addWithFeaturesFlag(diffCmd)

	for _, flag := range requiredFlags {
		if err := diffCmd.MarkFlagRequired(flag); err != nil {
			logFatalln(err)
		}
	}
	rootCmd.AddCommand(diffCmd)
}
