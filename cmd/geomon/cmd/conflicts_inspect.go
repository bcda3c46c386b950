package cmd

import (
	"context"

	"github.com/oneconcern/geomon/pkg/core"
	"github.com/oneconcern/geomon/pkg/model"
	"github.com/spf13/cobra"
)

var conflictsInspect = &cobra.Command{
	Use:   "inspect",
	Short: "Mark conflicting rows as reviewed",
	Long: `Flag conflicting rows as inspected, attaching an optional review note. The
review state is saved on the version, so a later "conflicts list" shows it.
Inspection records review state only: it does not resolve anything. Resolution
happens by re-editing or restoring the rows and reconciling again.`,
	Example: `% geomon conflicts inspect --version 1f0b3c52-6e17-4f9a-93a2-70c1d2aa6c3e \
    --layer 0 --objects 17,42 --note "surveyed on site, keep branch side"`,
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

		// reconcile only when the service holds no conflict set yet, so
		// review state already recorded is not wiped by a fresh detection
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
				wrapFatalln("nothing to inspect: the version reconciles cleanly", nil)
				return
			}
		}

		rows := make([]model.InspectedRow, 0, len(geomonFlags.rows.objectIDs))
		for _, oid := range geomonFlags.rows.objectIDs {
			rows = append(rows, model.InspectedRow{ObjectID: oid, Note: geomonFlags.rows.note})
		}
		err = session.Inspect(ctx, []model.InspectionRecord{
			{LayerID: geomonFlags.rows.layerID, Rows: rows},
		})
		if err != nil {
			wrapFatalln("inspect conflicts", err)
			return
		}
		if err = session.StopEditing(ctx, true); err != nil {
			wrapFatalln("save inspection", err)
			return
		}
	},
}

func init() {
	requiredFlags := []string{
		addVersionFlag(conflictsInspect),
		addObjectIDsFlag(conflictsInspect),
	}
	addRowsLayerFlag(conflictsInspect)
	addNoteFlag(conflictsInspect)
	addByAttributeFlag(conflictsInspect)

	for _, flag := range requiredFlags {
		if err := conflictsInspect.MarkFlagRequired(flag); err != nil {
			logFatalln(err)
		}
	}
	conflictsCmd.AddCommand(conflictsInspect)
}
