package cmd

import (
	"context"
	"encoding/json"

	"github.com/oneconcern/geomon/pkg/model"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// cmdFS abstracts file access, so tests run against an in-memory filesystem
var cmdFS = afero.NewOsFs()

var editCmd = &cobra.Command{
	Use:   "edit",
	Short: "Apply a batch of edits to a version",
	Long: `Apply adds, updates and deletes from a JSON batch file to one layer of a
version. The command opens an edit session, applies the batch, and saves:
the edits land in the version only, DEFAULT is untouched until a post.`,
	Example: `% geomon edit --version 1f0b3c52-6e17-4f9a-93a2-70c1d2aa6c3e --layer 0 --batch edits.json`,
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

		buf, err := afero.ReadFile(cmdFS, geomonFlags.edit.batchFile)
		if err != nil {
			wrapFatalln("read batch file", err)
			return
		}
		var batch model.EditBatch
		if err = json.Unmarshal(buf, &batch); err != nil {
			wrapFatalln("parse batch file", err)
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

		if err = session.ApplyEdits(ctx, geomonFlags.edit.layerID, batch); err != nil {
			wrapFatalln("apply edits", err)
			return
		}
		if err = session.StopEditing(ctx, true); err != nil {
			wrapFatalln("save edits", err)
			return
		}
	},
}

func init() {
	requiredFlags := []string{
		addVersionFlag(editCmd),
		addBatchFileFlag(editCmd),
	}
	addLayerFlag(editCmd)

	for _, flag := range requiredFlags {
		if err := editCmd.MarkFlagRequired(flag); err != nil {
			logFatalln(err)
		}
	}
	rootCmd.AddCommand(editCmd)
}
