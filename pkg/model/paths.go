package model

import "fmt"

// Routes to the branch-versioning endpoints of the feature service.
//
// All endpoints are JSON POST round trips.

// VersionsRoute is the route to the version collection (create, list)
func VersionsRoute(verb string) string {
	if verb == "" {
		return "/versions"
	}
	return fmt.Sprint("/versions/", verb)
}

// VersionRoute is the route to a single version's operation
func VersionRoute(guid VersionGuid, verb string) string {
	return fmt.Sprint("/versions/", guid.String(), "/", verb)
}

// LayerEditsRoute is the route to submit edits to one layer of a version
func LayerEditsRoute(guid VersionGuid, layerID int64) string {
	return fmt.Sprint("/versions/", guid.String(), "/layers/", layerID, "/applyEdits")
}
