// Copyright © 2019 One Concern

package cmd

import (
	"context"

	"github.com/fatih/color"
	"github.com/oneconcern/geomon/pkg/core"
	"github.com/spf13/cobra"
)

var postCmd = &cobra.Command{
	Use:   "post",
	Short: "Post a version to DEFAULT",
	Long: `Reconcile the version and merge its edits into DEFAULT. Posting requires a
conflict-free reconcile: when conflicts are found, nothing is merged and the
conflict breakdown is reported instead.

With --layer and --objects, only the selected rows are posted; the rest stays
pending in the version for a later post.`,
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

		outcome, err := session.Reconcile(ctx,
			core.ReconcileDetection(geomonFlags.detection()),
		)
		if err != nil {
			wrapFatalln("reconcile", err)
			return
		}
		if outcome.HasConflicts {
			set, cErr := session.Conflicts(ctx)
			if cErr != nil {
				wrapFatalln("fetch conflicts", cErr)
				return
			}
			wrapFatalln(color.RedString("cannot post: %s", set.Summary()), nil)
			return
		}

		if rows := geomonFlags.rowSelection(); rows != nil {
			err = session.PostPartial(ctx, rows)
		} else {
			err = session.Post(ctx)
		}
		if err != nil {
			wrapFatalln("post to DEFAULT", err)
			return
		}
		if err = session.StopEditing(ctx, true); err != nil {
			wrapFatalln("save session", err)
			return
		}
		infoLogger.Println(color.GreenString("posted to DEFAULT"))
	},
}

func init() {
	requiredFlags := []string{addVersionFlag(postCmd)}
	addRowsLayerFlag(postCmd)
	addObjectIDsFlag(postCmd)
	addByAttributeFlag(postCmd)

	for _, flag := range requiredFlags {
		if err := postCmd.MarkFlagRequired(flag); err != nil {
			logFatalln(err)
		}
	}
	rootCmd.AddCommand(postCmd)
}
