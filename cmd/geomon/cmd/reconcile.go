// Copyright © 2019 One Concern

package cmd

import (
	"context"

	"github.com/fatih/color"
	"github.com/oneconcern/geomon/pkg/core"
	"github.com/spf13/cobra"
)

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Reconcile a version against DEFAULT",
	Long: `Reconcile pulls the edits concurrently landed on DEFAULT into the version and
classifies the divergence. A conflict-free reconcile is saved; a conflicted one
leaves the version untouched and reports the conflict breakdown.

With --post, the reconciled version is posted to DEFAULT in the same service
call when no conflict is found.`,
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
			core.ReconcileAbortOnConflicts(geomonFlags.reconcile.abortOnConflicts),
			core.ReconcileDetection(geomonFlags.detection()),
			core.ReconcileWithPost(geomonFlags.reconcile.withPost),
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
			wrapFatalln(color.RedString("reconcile found %s", set.Summary()), nil)
			return
		}

		if err = session.StopEditing(ctx, true); err != nil {
			wrapFatalln("save reconcile", err)
			return
		}
		if outcome.DidPost {
			infoLogger.Println(color.GreenString("reconciled and posted to DEFAULT"))
		} else {
			infoLogger.Println(color.GreenString("reconciled, no conflicts"))
		}
	},
}

func init() {
	requiredFlags := []string{addVersionFlag(reconcileCmd)}
	addWithPostFlag(reconcileCmd)
	addAbortOnConflictsFlag(reconcileCmd)
	addByAttributeFlag(reconcileCmd)

	for _, flag := range requiredFlags {
		if err := reconcileCmd.MarkFlagRequired(flag); err != nil {
			logFatalln(err)
		}
	}
	rootCmd.AddCommand(reconcileCmd)
}
