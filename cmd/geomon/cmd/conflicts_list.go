package cmd

import (
	"context"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/oneconcern/geomon/pkg/core"
	"github.com/spf13/cobra"
)

var conflictsList = &cobra.Command{
	Use:   "list",
	Short: "List the conflicts of a version",
	Long: `List the conflicts of a version, per layer and category, with their review
state. When the service holds no conflict set yet, the version is reconciled
against DEFAULT first. That reconcile is not saved: the version is left as it
was.`,
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

		// prefer the saved conflict set: it carries review state a fresh
		// detection would not
		set, err := session.Conflicts(ctx)
		if err != nil {
			wrapFatalln("fetch conflicts", err)
			return
		}
		if !set.HasConflicts() {
			outcome, rErr := session.Reconcile(ctx,
				core.ReconcileDetection(geomonFlags.detection()),
			)
			if rErr != nil {
				wrapFatalln("reconcile", rErr)
				return
			}
			if !outcome.HasConflicts {
				infoLogger.Println(color.GreenString("no conflicts"))
				return
			}
			if set, err = session.Conflicts(ctx); err != nil {
				wrapFatalln("fetch conflicts", err)
				return
			}
		}

		table := uitable.New()
		table.AddRow("LAYER", "OBJECT", "CATEGORY", "INSPECTED", "NOTE")
		for _, layer := range set {
			for _, entry := range layer.Entries() {
				table.AddRow(layer.LayerID, entry.ConflictObjectID(), entry.Category(),
					entry.IsInspected(), entry.InspectionNote())
			}
		}
		infoLogger.Println(table)
		infoLogger.Println(color.RedString(set.Summary()))
	},
}

func init() {
	requiredFlags := []string{addVersionFlag(conflictsList)}
	addByAttributeFlag(conflictsList)

	for _, flag := range requiredFlags {
		if err := conflictsList.MarkFlagRequired(flag); err != nil {
			logFatalln(err)
		}
	}
	conflictsCmd.AddCommand(conflictsList)
}
