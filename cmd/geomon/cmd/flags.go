// Copyright © 2019 One Concern

package cmd

import (
	"github.com/oneconcern/geomon/pkg/model"
	"github.com/spf13/cobra"
)

type flagsT struct {
	root struct {
		url      string
		token    string
		logLevel string
		metrics  bool
	}
	version struct {
		guid        string
		name        string
		description string
		access      string
	}
	edit struct {
		layerID   int64
		batchFile string
	}
	reconcile struct {
		withPost         bool
		abortOnConflicts bool
		byAttribute      bool
	}
	rows struct {
		layerID   int64
		objectIDs []int64
		note      string
	}
	diff struct {
		moment       int64
		withFeatures bool
	}
}

var geomonFlags = flagsT{}

func addURLFlag(cmd *cobra.Command) string {
	const serviceURL = "url"
	cmd.PersistentFlags().StringVar(&geomonFlags.root.url, serviceURL, "",
		"Root URL of the branch-versioned feature service")
	return serviceURL
}

func addTokenFlag(cmd *cobra.Command) string {
	const token = "token"
	cmd.PersistentFlags().StringVar(&geomonFlags.root.token, token, "",
		"Bearer token presented to the service")
	return token
}

func addLogLevelFlag(cmd *cobra.Command) string {
	const logLevel = "loglevel"
	cmd.PersistentFlags().StringVar(&geomonFlags.root.logLevel, logLevel, "",
		"The logging level, one of: none, info, debug")
	return logLevel
}

func addMetricsFlag(cmd *cobra.Command) string {
	const metrics = "metrics"
	cmd.PersistentFlags().BoolVar(&geomonFlags.root.metrics, metrics, false,
		"Collect usage metrics about the operations performed")
	return metrics
}

func addVersionFlag(cmd *cobra.Command) string {
	const version = "version"
	cmd.Flags().StringVar(&geomonFlags.version.guid, version, "",
		"The guid of the version, as issued at creation")
	return version
}

func addVersionNameFlag(cmd *cobra.Command) string {
	const name = "name"
	cmd.Flags().StringVar(&geomonFlags.version.name, name, "",
		"A name for the version. Allowed characters: letters, digits, hyphen and underscore")
	return name
}

func addVersionDescriptionFlag(cmd *cobra.Command) string {
	const description = "description"
	cmd.Flags().StringVar(&geomonFlags.version.description, description, "",
		"A human readable description of the version")
	return description
}

func addVersionAccessFlag(cmd *cobra.Command) string {
	const access = "access"
	cmd.Flags().StringVar(&geomonFlags.version.access, access, "",
		"The access level of the version, one of: public, protected, private")
	return access
}

func addLayerFlag(cmd *cobra.Command) string {
	const layer = "layer"
	cmd.Flags().Int64Var(&geomonFlags.edit.layerID, layer, 0,
		"The feature layer addressed by the edits")
	return layer
}

func addBatchFileFlag(cmd *cobra.Command) string {
	const batch = "batch"
	cmd.Flags().StringVar(&geomonFlags.edit.batchFile, batch, "",
		"Path to a JSON file holding the edit batch (adds, updates, deletes)")
	return batch
}

func addWithPostFlag(cmd *cobra.Command) string {
	const withPost = "post"
	cmd.Flags().BoolVar(&geomonFlags.reconcile.withPost, withPost, false,
		"Post the version to DEFAULT in the same service call, when the reconcile comes out conflict-free")
	return withPost
}

func addAbortOnConflictsFlag(cmd *cobra.Command) string {
	const abort = "abort-on-conflicts"
	cmd.Flags().BoolVar(&geomonFlags.reconcile.abortOnConflicts, abort, false,
		"Abort the reconcile when conflicts are found, leaving no partial merge state behind")
	return abort
}

func addByAttributeFlag(cmd *cobra.Command) string {
	const byAttribute = "by-attribute"
	cmd.Flags().BoolVar(&geomonFlags.reconcile.byAttribute, byAttribute, false,
		"Detect conflicts per attribute: concurrent edits touching disjoint attributes merge cleanly")
	return byAttribute
}

func addRowsLayerFlag(cmd *cobra.Command) string {
	const layer = "layer"
	cmd.Flags().Int64Var(&geomonFlags.rows.layerID, layer, 0,
		"The feature layer holding the selected rows")
	return layer
}

func addObjectIDsFlag(cmd *cobra.Command) string {
	const objects = "objects"
	cmd.Flags().Int64SliceVar(&geomonFlags.rows.objectIDs, objects, nil,
		"The object ids of the selected rows")
	return objects
}

func addNoteFlag(cmd *cobra.Command) string {
	const note = "note"
	cmd.Flags().StringVar(&geomonFlags.rows.note, note, "",
		"A review note attached to the inspected rows")
	return note
}

func addMomentFlag(cmd *cobra.Command) string {
	const moment = "moment"
	cmd.Flags().Int64Var(&geomonFlags.diff.moment, moment, 0,
		"The ancestor moment to diff from. Defaults to the version's own ancestor moment")
	return moment
}

func addWithFeaturesFlag(cmd *cobra.Command) string {
	const features = "features"
	cmd.Flags().BoolVar(&geomonFlags.diff.withFeatures, features, false,
		"Report full feature snapshots instead of bare object ids")
	return features
}

func (f *flagsT) detection() model.ConflictDetection {
	if f.reconcile.byAttribute {
		return model.DetectByAttribute
	}
	return model.DetectByObject
}

func (f *flagsT) rowSelection() []model.RowSelection {
	if len(f.rows.objectIDs) == 0 {
		return nil
	}
	return []model.RowSelection{
		{LayerID: f.rows.layerID, ObjectIDs: f.rows.objectIDs},
	}
}
